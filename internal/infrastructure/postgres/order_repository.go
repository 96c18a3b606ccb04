package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de órdenes. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste una nueva orden.
func (r *OrderRepo) Create(o *entity.Order) error {
	query := `
		INSERT INTO orders (id, reference, warehouse_id, status, step, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.Reference, o.WarehouseID, o.Status, o.Step, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `
		SELECT id, reference, warehouse_id, status, step, created_at, updated_at
		FROM orders WHERE id = $1`
	var o entity.Order
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.Reference, &o.WarehouseID, &o.Status, &o.Step, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return &o, nil
}

// UpdateStatusStep actualiza estado y paso de la orden.
func (r *OrderRepo) UpdateStatusStep(id, status, step string) error {
	query := `UPDATE orders SET status = $2, step = $3, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status, step)
	if err != nil {
		return fmt.Errorf("update order status/step: %w", err)
	}
	return nil
}
