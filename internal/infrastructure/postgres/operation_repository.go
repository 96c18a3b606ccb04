package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.OperationRepository = (*OperationRepo)(nil)

// OperationRepo implementación de OperationRepository sobre PostgreSQL
// (usable con pool o tx). Las transiciones siempre lo usan dentro de una tx,
// vía GetByIDForUpdate.
type OperationRepo struct {
	q Querier
}

// NewOperationRepository construye el adaptador de operaciones. Pasar pool o tx (Querier).
func NewOperationRepository(q Querier) *OperationRepo {
	return &OperationRepo{q: q}
}

const operationColumns = `
	id, reference, kind, subtype, status, parent_id, child_id,
	warehouse_id, source_warehouse_id, target_warehouse_id, order_id, transfer_id,
	created_by, created_at, updated_at, validated_by, validated_at, canceled_by, canceled_at`

func scanOperation(row pgx.Row) (*entity.StockOperation, error) {
	var op entity.StockOperation
	err := row.Scan(
		&op.ID, &op.Reference, &op.Kind, &op.Subtype, &op.Status, &op.ParentID, &op.ChildID,
		&op.WarehouseID, &op.SourceWarehouseID, &op.TargetWarehouseID, &op.OrderID, &op.TransferID,
		&op.CreatedBy, &op.CreatedAt, &op.UpdatedAt, &op.ValidatedBy, &op.ValidatedAt, &op.CanceledBy, &op.CanceledAt,
	)
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// Create persiste una nueva operación.
func (r *OperationRepo) Create(op *entity.StockOperation) error {
	query := `
		INSERT INTO operations (` + strings.TrimSpace(operationColumns) + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		op.ID, op.Reference, op.Kind, op.Subtype, op.Status, op.ParentID, op.ChildID,
		op.WarehouseID, op.SourceWarehouseID, op.TargetWarehouseID, op.OrderID, op.TransferID,
		op.CreatedBy, op.CreatedAt, op.UpdatedAt, op.ValidatedBy, op.ValidatedAt, op.CanceledBy, op.CanceledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// GetByID obtiene una operación por ID.
func (r *OperationRepo) GetByID(id string) (*entity.StockOperation, error) {
	query := `SELECT ` + operationColumns + ` FROM operations WHERE id = $1`
	op, err := scanOperation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operation by id: %w", err)
	}
	return op, nil
}

// GetByIDForUpdate obtiene la operación y bloquea su fila (SELECT FOR UPDATE).
// Es la guarda compare-and-swap de las transiciones concurrentes: el segundo
// caller espera el candado y relee el estado ya avanzado.
func (r *OperationRepo) GetByIDForUpdate(id string) (*entity.StockOperation, error) {
	query := `SELECT ` + operationColumns + ` FROM operations WHERE id = $1 FOR UPDATE`
	op, err := scanOperation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operation for update: %w", err)
	}
	return op, nil
}

// GetPendingPurchaseForTransfer devuelve la compra PENDING vinculada al
// traslado, si existe.
func (r *OperationRepo) GetPendingPurchaseForTransfer(transferID string) (*entity.StockOperation, error) {
	query := `
		SELECT ` + operationColumns + `
		FROM operations
		WHERE kind = $1 AND status = $2 AND transfer_id = $3
		ORDER BY created_at LIMIT 1`
	op, err := scanOperation(r.q.QueryRow(context.Background(), query,
		entity.OperationPurchase, entity.StatusPending, transferID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pending purchase for transfer: %w", err)
	}
	return op, nil
}

// Update actualiza la cabecera de una operación.
func (r *OperationRepo) Update(op *entity.StockOperation) error {
	query := `
		UPDATE operations SET
			status = $2, child_id = $3, updated_at = $4,
			validated_by = $5, validated_at = $6, canceled_by = $7, canceled_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		op.ID, op.Status, op.ChildID, op.UpdatedAt,
		op.ValidatedBy, op.ValidatedAt, op.CanceledBy, op.CanceledAt,
	)
	if err != nil {
		return fmt.Errorf("update operation: %w", err)
	}
	return nil
}

// List lista operaciones con filtros opcionales y paginación.
func (r *OperationRepo) List(filter repository.OperationFilter, limit, offset int) ([]*entity.StockOperation, error) {
	var conds []string
	var args []any
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		conds = append(conds, fmt.Sprintf("kind = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.WarehouseID != "" {
		args = append(args, filter.WarehouseID)
		conds = append(conds, fmt.Sprintf(
			"(warehouse_id = $%d OR source_warehouse_id = $%d OR target_warehouse_id = $%d)",
			len(args), len(args), len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s FROM operations %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		operationColumns, where, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockOperation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		list = append(list, op)
	}
	return list, rows.Err()
}

// CreateLine persiste una línea de operación.
func (r *OperationRepo) CreateLine(line *entity.OperationLine) error {
	query := `
		INSERT INTO operation_lines (id, operation_id, position, variant_id, quantity, unit_cost, supplier_id, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.OperationID, line.Position, line.VariantID, line.Quantity,
		line.UnitCost, line.SupplierID, line.State, line.CreatedAt, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert operation line: %w", err)
	}
	return nil
}

// GetLines devuelve las líneas de la operación ordenadas por posición.
func (r *OperationRepo) GetLines(operationID string) ([]*entity.OperationLine, error) {
	query := `
		SELECT id, operation_id, position, variant_id, quantity, unit_cost, supplier_id, state, created_at, updated_at
		FROM operation_lines WHERE operation_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, operationID)
	if err != nil {
		return nil, fmt.Errorf("get operation lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.OperationLine
	for rows.Next() {
		var l entity.OperationLine
		if err := rows.Scan(&l.ID, &l.OperationID, &l.Position, &l.VariantID, &l.Quantity,
			&l.UnitCost, &l.SupplierID, &l.State, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan operation line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateLine actualiza cantidad y estado de una línea.
func (r *OperationRepo) UpdateLine(line *entity.OperationLine) error {
	query := `
		UPDATE operation_lines SET quantity = $2, state = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.Quantity, line.State, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update operation line: %w", err)
	}
	return nil
}

// LatestSupplierCost devuelve el costo y proveedor más recientes de la
// variante según el historial de líneas de compra, o nil si no hay historial.
func (r *OperationRepo) LatestSupplierCost(variantID string) (*repository.SupplierCost, error) {
	query := `
		SELECT l.supplier_id, l.unit_cost
		FROM operation_lines l
		JOIN operations o ON o.id = l.operation_id
		WHERE l.variant_id = $1 AND o.kind = $2 AND l.state <> $3
		ORDER BY l.created_at DESC LIMIT 1`
	var sc repository.SupplierCost
	err := r.q.QueryRow(context.Background(), query,
		variantID, entity.OperationPurchase, entity.LineCanceled).Scan(&sc.SupplierID, &sc.UnitCost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest supplier cost: %w", err)
	}
	return &sc, nil
}

// CreateComment persiste un comentario de operación.
func (r *OperationRepo) CreateComment(c *entity.OperationComment) error {
	query := `
		INSERT INTO operation_comments (id, operation_id, body, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.OperationID, c.Body, c.CreatedBy, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert operation comment: %w", err)
	}
	return nil
}

// ListComments devuelve los comentarios de la operación, del más antiguo al
// más reciente.
func (r *OperationRepo) ListComments(operationID string) ([]*entity.OperationComment, error) {
	query := `
		SELECT id, operation_id, body, created_by, created_at
		FROM operation_comments WHERE operation_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, operationID)
	if err != nil {
		return nil, fmt.Errorf("list operation comments: %w", err)
	}
	defer rows.Close()
	var list []*entity.OperationComment
	for rows.Next() {
		var c entity.OperationComment
		if err := rows.Scan(&c.ID, &c.OperationID, &c.Body, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan operation comment: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
