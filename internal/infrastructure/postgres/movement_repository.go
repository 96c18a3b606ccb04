package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable
// con pool o tx). Append-only: la tabla no se actualiza ni se borra.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `
	id, direction, trigger_kind, cause, source_type, source_id, target_type, target_id,
	item_id, operation_id, created_by, created_at`

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.Direction, &m.Trigger, &m.Cause, &m.SourceType, &m.SourceID,
		&m.TargetType, &m.TargetID, &m.ItemID, &m.OperationID, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste una fila de movimiento.
func (r *MovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, direction, trigger_kind, cause, source_type, source_id, target_type, target_id, item_id, operation_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Direction, m.Trigger, m.Cause, m.SourceType, m.SourceID,
		m.TargetType, m.TargetID, m.ItemID, m.OperationID, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByItem devuelve los movimientos de un ítem, del más reciente al más
// antiguo.
func (r *MovementRepo) ListByItem(itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE item_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryMovements(query, itemID, limit, offset)
}

// ListByOperation devuelve los movimientos generados por una operación.
func (r *MovementRepo) ListByOperation(operationID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE operation_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryMovements(query, operationID, limit, offset)
}

func (r *MovementRepo) queryMovements(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
