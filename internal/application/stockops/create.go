package stockops

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// LineInput es una línea solicitada al crear una operación.
type LineInput struct {
	VariantID  string
	Quantity   int
	UnitCost   decimal.Decimal
	SupplierID *string
}

// CreateReceptionInput parámetros de alta de una recepción manual. Los
// subtipos TRANSFERT y CANCEL_TRANSFERT no se crean por aquí: los sintetiza
// el ciclo de vida del traslado.
type CreateReceptionInput struct {
	Subtype     string
	WarehouseID string
	OrderID     *string
	Lines       []LineInput
}

// CreateTransferInput parámetros de alta de un traslado entre bodegas.
type CreateTransferInput struct {
	SourceWarehouseID string
	TargetWarehouseID string
	Lines             []LineInput
}

// CreatePurchaseInput parámetros de alta de una compra a proveedor.
type CreatePurchaseInput struct {
	WarehouseID string
	Lines       []LineInput
}

// CreateUseCase da de alta operaciones de stock en estado PENDING. La
// creación no mueve inventario: solo registra la intención; el stock cambia
// recién en las transiciones del ciclo de vida.
type CreateUseCase struct {
	tx TxRunner
}

// NewCreateUseCase construye el caso de uso de alta de operaciones.
func NewCreateUseCase(tx TxRunner) *CreateUseCase {
	return &CreateUseCase{tx: tx}
}

// CreateReception da de alta una recepción SUPPLY u ORDER con sus líneas
// PENDING. Una recepción ORDER exige la orden vinculada y la deja en el paso
// de preparación.
func (uc *CreateUseCase) CreateReception(ctx context.Context, in CreateReceptionInput, actor string) (*entity.StockOperation, error) {
	subtype := strings.ToUpper(strings.TrimSpace(in.Subtype))
	if subtype != entity.ReceptionSupply && subtype != entity.ReceptionOrder {
		return nil, fmt.Errorf("%w: subtipo de recepción %q", domain.ErrInvalidInput, in.Subtype)
	}
	if subtype == entity.ReceptionOrder && in.OrderID == nil {
		return nil, fmt.Errorf("%w: una recepción ORDER exige la orden vinculada", domain.ErrInvalidInput)
	}
	if subtype == entity.ReceptionSupply && in.OrderID != nil {
		return nil, fmt.Errorf("%w: una recepción SUPPLY no lleva orden", domain.ErrInvalidInput)
	}

	var op *entity.StockOperation
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		if err := requireWarehouse(r, in.WarehouseID); err != nil {
			return err
		}
		if in.OrderID != nil {
			order, err := r.Orders.GetByID(*in.OrderID)
			if err != nil {
				return err
			}
			if order == nil {
				return fmt.Errorf("%w: orden %s", domain.ErrNotFound, *in.OrderID)
			}
			if order.Status == entity.OrderStatusCanceled {
				return fmt.Errorf("%w: la orden %s está cancelada", domain.ErrInvalidInput, *in.OrderID)
			}
			if err := r.Orders.UpdateStatusStep(order.ID, order.Status, entity.OrderStepPreparing); err != nil {
				return err
			}
		}
		warehouseID := in.WarehouseID
		created, err := createOperation(r, &entity.StockOperation{
			Kind:        entity.OperationReception,
			Subtype:     subtype,
			WarehouseID: &warehouseID,
			OrderID:     in.OrderID,
		}, in.Lines, actor)
		if err != nil {
			return err
		}
		op = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// CreateTransfer da de alta un traslado PENDING entre dos bodegas distintas.
func (uc *CreateUseCase) CreateTransfer(ctx context.Context, in CreateTransferInput, actor string) (*entity.StockOperation, error) {
	if in.SourceWarehouseID == in.TargetWarehouseID {
		return nil, fmt.Errorf("%w: las bodegas origen y destino deben ser distintas", domain.ErrInvalidInput)
	}
	var op *entity.StockOperation
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		if err := requireWarehouse(r, in.SourceWarehouseID); err != nil {
			return err
		}
		if err := requireWarehouse(r, in.TargetWarehouseID); err != nil {
			return err
		}
		sourceID, targetID := in.SourceWarehouseID, in.TargetWarehouseID
		created, err := createOperation(r, &entity.StockOperation{
			Kind:              entity.OperationTransfer,
			SourceWarehouseID: &sourceID,
			TargetWarehouseID: &targetID,
		}, in.Lines, actor)
		if err != nil {
			return err
		}
		op = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// CreatePurchase da de alta una compra manual PENDING. Las compras generadas
// por el faltante de un traslado no pasan por aquí.
func (uc *CreateUseCase) CreatePurchase(ctx context.Context, in CreatePurchaseInput, actor string) (*entity.StockOperation, error) {
	var op *entity.StockOperation
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		if err := requireWarehouse(r, in.WarehouseID); err != nil {
			return err
		}
		warehouseID := in.WarehouseID
		created, err := createOperation(r, &entity.StockOperation{
			Kind:        entity.OperationPurchase,
			WarehouseID: &warehouseID,
		}, in.Lines, actor)
		if err != nil {
			return err
		}
		op = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// AddComment agrega un comentario libre a una operación existente.
func (uc *CreateUseCase) AddComment(ctx context.Context, operationID, body, actor string) (*entity.OperationComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: comentario vacío", domain.ErrInvalidInput)
	}
	var comment *entity.OperationComment
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		op, err := r.Operations.GetByID(operationID)
		if err != nil {
			return err
		}
		if op == nil {
			return fmt.Errorf("%w: operación %s", domain.ErrNotFound, operationID)
		}
		comment = &entity.OperationComment{
			ID:          uuid.New().String(),
			OperationID: op.ID,
			Body:        body,
			CreatedBy:   actor,
			CreatedAt:   time.Now(),
		}
		return r.Operations.CreateComment(comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// createOperation completa los campos comunes (ID, referencia, estado,
// autoría), valida las líneas contra el catálogo y persiste el agregado.
func createOperation(r TxRepos, op *entity.StockOperation, lines []LineInput, actor string) (*entity.StockOperation, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: una operación exige al menos una línea", domain.ErrInvalidInput)
	}
	ref, err := r.Refs.NextOperationReference(op.Kind)
	if err != nil {
		return nil, fmt.Errorf("generar referencia de operación: %w", err)
	}
	now := time.Now()
	op.ID = uuid.New().String()
	op.Reference = ref
	op.Status = entity.StatusPending
	op.CreatedBy = actor
	op.CreatedAt = now
	op.UpdatedAt = now
	if err := r.Operations.Create(op); err != nil {
		return nil, err
	}

	for i, in := range lines {
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("%w: línea %d: la cantidad debe ser positiva", domain.ErrInvalidInput, i+1)
		}
		if in.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: línea %d: el costo no puede ser negativo", domain.ErrInvalidInput, i+1)
		}
		variant, err := r.Products.GetVariantByID(in.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil {
			return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, in.VariantID)
		}
		line := &entity.OperationLine{
			ID:          uuid.New().String(),
			OperationID: op.ID,
			Position:    i + 1,
			VariantID:   in.VariantID,
			Quantity:    in.Quantity,
			UnitCost:    in.UnitCost,
			SupplierID:  in.SupplierID,
			State:       entity.LinePending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Operations.CreateLine(line); err != nil {
			return nil, err
		}
	}
	return op, nil
}

func requireWarehouse(r TxRepos, id string) error {
	wh, err := r.Warehouses.GetByID(id)
	if err != nil {
		return err
	}
	if wh == nil {
		return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
	}
	return nil
}
