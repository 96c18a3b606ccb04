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

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de proveedores. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un nuevo proveedor.
func (r *SupplierRepo) Create(s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, email, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, s.ID, s.Name, s.Email, s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	query := `SELECT id, name, email, created_at FROM suppliers WHERE id = $1`
	var s entity.Supplier
	err := r.q.QueryRow(context.Background(), query, id).Scan(&s.ID, &s.Name, &s.Email, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier by id: %w", err)
	}
	return &s, nil
}

// List lista proveedores con paginación.
func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	query := `SELECT id, name, email, created_at FROM suppliers ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
