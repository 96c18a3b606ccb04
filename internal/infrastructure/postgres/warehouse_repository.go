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

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación de WarehouseRepository sobre PostgreSQL (usable con pool o tx).
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de bodegas. Pasar pool o tx (Querier).
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(wh *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		wh.ID, wh.Name, wh.Address, wh.CreatedAt, wh.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM warehouses WHERE id = $1`
	var wh entity.Warehouse
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&wh.ID, &wh.Name, &wh.Address, &wh.CreatedAt, &wh.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse by id: %w", err)
	}
	return &wh, nil
}

// List lista bodegas con paginación.
func (r *WarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM warehouses ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var wh entity.Warehouse
		if err := rows.Scan(&wh.ID, &wh.Name, &wh.Address, &wh.CreatedAt, &wh.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &wh)
	}
	return list, rows.Err()
}
