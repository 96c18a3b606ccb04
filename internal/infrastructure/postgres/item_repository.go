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

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de ítems físicos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `
	id, reference, barcode, variant_id, status, state, location_id, operation_id,
	unit_cost, supplier_id, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.PhysicalItem, error) {
	var it entity.PhysicalItem
	err := row.Scan(
		&it.ID, &it.Reference, &it.Barcode, &it.VariantID, &it.Status, &it.State,
		&it.LocationID, &it.OperationID, &it.UnitCost, &it.SupplierID, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un nuevo ítem físico.
func (r *ItemRepo) Create(item *entity.PhysicalItem) error {
	query := `
		INSERT INTO items (id, reference, barcode, variant_id, status, state, location_id, operation_id, unit_cost, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Reference, item.Barcode, item.VariantID, item.Status, item.State,
		item.LocationID, item.OperationID, item.UnitCost, item.SupplierID, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(id string) (*entity.PhysicalItem, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	it, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by id: %w", err)
	}
	return it, nil
}

// Update actualiza estado, paso, ubicación y vínculo de operación del ítem.
func (r *ItemRepo) Update(item *entity.PhysicalItem) error {
	query := `
		UPDATE items SET status = $2, state = $3, location_id = $4, operation_id = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Status, item.State, item.LocationID, item.OperationID, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// ListByOperation lista los ítems atribuidos a una operación.
func (r *ItemRepo) ListByOperation(operationID string) ([]*entity.PhysicalItem, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE operation_id = $1 ORDER BY created_at`
	return r.queryItems(query, operationID)
}

// ListByOperationVariantState devuelve hasta limit ítems de la operación con
// la variante y el estado dados, los más antiguos primero.
func (r *ItemRepo) ListByOperationVariantState(operationID, variantID, state string, limit int) ([]*entity.PhysicalItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE operation_id = $1 AND variant_id = $2 AND state = $3
		ORDER BY created_at LIMIT $4`
	return r.queryItems(query, operationID, variantID, state, limit)
}

// PickAvailableForUpdate bloquea y devuelve hasta limit ítems DISPONIBLES de
// la variante ubicados en la bodega (SELECT FOR UPDATE).
func (r *ItemRepo) PickAvailableForUpdate(variantID, warehouseID string, limit int) ([]*entity.PhysicalItem, error) {
	query := `
		SELECT i.id, i.reference, i.barcode, i.variant_id, i.status, i.state, i.location_id, i.operation_id,
		       i.unit_cost, i.supplier_id, i.created_at, i.updated_at
		FROM items i
		JOIN locations loc ON loc.id = i.location_id
		WHERE i.variant_id = $1 AND i.state = $2 AND loc.warehouse_id = $3
		ORDER BY i.created_at LIMIT $4
		FOR UPDATE OF i`
	return r.queryItems(query, variantID, entity.StateAvailable, warehouseID, limit)
}

func (r *ItemRepo) queryItems(query string, args ...any) ([]*entity.PhysicalItem, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PhysicalItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
