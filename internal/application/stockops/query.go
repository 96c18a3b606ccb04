package stockops

import (
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// OperationDetail es la vista completa de una operación: cabecera, líneas y
// comentarios, más las referencias de su cadena madre/hija si existe.
type OperationDetail struct {
	Operation *entity.StockOperation
	Lines     []*entity.OperationLine
	Comments  []*entity.OperationComment
	Parent    *entity.StockOperation
	Child     *entity.StockOperation
}

// QueryUseCase resuelve las lecturas del motor: detalle de operaciones,
// snapshots de cantidades e historial de movimientos. Corre fuera de
// transacción, directamente sobre el pool.
type QueryUseCase struct {
	operations repository.OperationRepository
	snapshots  repository.SnapshotRepository
	movements  repository.MovementRepository
	items      repository.ItemRepository
}

// NewQueryUseCase construye el caso de uso de lecturas.
func NewQueryUseCase(
	operations repository.OperationRepository,
	snapshots repository.SnapshotRepository,
	movements repository.MovementRepository,
	items repository.ItemRepository,
) *QueryUseCase {
	return &QueryUseCase{operations: operations, snapshots: snapshots, movements: movements, items: items}
}

// GetOperation devuelve el detalle completo de una operación.
func (uc *QueryUseCase) GetOperation(id string) (*OperationDetail, error) {
	op, err := uc.operations.GetByID(id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, fmt.Errorf("%w: operación %s", domain.ErrNotFound, id)
	}
	lines, err := uc.operations.GetLines(op.ID)
	if err != nil {
		return nil, err
	}
	comments, err := uc.operations.ListComments(op.ID)
	if err != nil {
		return nil, err
	}
	detail := &OperationDetail{Operation: op, Lines: lines, Comments: comments}
	if op.ParentID != nil {
		if detail.Parent, err = uc.operations.GetByID(*op.ParentID); err != nil {
			return nil, err
		}
	}
	if op.ChildID != nil {
		if detail.Child, err = uc.operations.GetByID(*op.ChildID); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// ListOperations lista operaciones con filtros opcionales y paginación.
func (uc *QueryUseCase) ListOperations(filter repository.OperationFilter, limit, offset int) ([]*entity.StockOperation, error) {
	limit, offset = clampPage(limit, offset)
	return uc.operations.List(filter, limit, offset)
}

// GetVariantSnapshot devuelve los contadores de una variante; si la variante
// nunca tuvo stock devuelve un snapshot en ceros.
func (uc *QueryUseCase) GetVariantSnapshot(variantID string) (*entity.QuantitySnapshot, error) {
	snap, err := uc.snapshots.GetVariant(variantID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		snap = &entity.QuantitySnapshot{VariantID: variantID}
	}
	return snap, nil
}

// GetProductSnapshot devuelve los contadores agregados de un producto.
func (uc *QueryUseCase) GetProductSnapshot(productID string) (*entity.QuantitySnapshot, error) {
	snap, err := uc.snapshots.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		snap = &entity.QuantitySnapshot{ProductID: productID}
	}
	return snap, nil
}

// ItemHistory devuelve el ítem y su historial de movimientos, del más
// reciente al más antiguo.
func (uc *QueryUseCase) ItemHistory(itemID string, limit, offset int) (*entity.PhysicalItem, []*entity.StockMovement, error) {
	item, err := uc.items.GetByID(itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
	}
	limit, offset = clampPage(limit, offset)
	movs, err := uc.movements.ListByItem(itemID, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	return item, movs, nil
}

// OperationMovements devuelve los movimientos generados por una operación.
func (uc *QueryUseCase) OperationMovements(operationID string, limit, offset int) ([]*entity.StockMovement, error) {
	op, err := uc.operations.GetByID(operationID)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, fmt.Errorf("%w: operación %s", domain.ErrNotFound, operationID)
	}
	limit, offset = clampPage(limit, offset)
	return uc.movements.ListByOperation(operationID, limit, offset)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
