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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de catálogo. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (id, reference, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Reference, p.Name, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `
		SELECT id, reference, name, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Reference, &p.Name, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return &p, nil
}

// List lista productos con paginación.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT id, reference, name, created_at, updated_at
		FROM products ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Reference, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// CreateVariant persiste una nueva variante.
func (r *ProductRepo) CreateVariant(v *entity.Variant) error {
	query := `
		INSERT INTO variants (id, product_id, reference, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.ProductID, v.Reference, v.Name, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

// GetVariantByID obtiene una variante por ID.
func (r *ProductRepo) GetVariantByID(id string) (*entity.Variant, error) {
	query := `
		SELECT id, product_id, reference, name, created_at, updated_at
		FROM variants WHERE id = $1`
	var v entity.Variant
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&v.ID, &v.ProductID, &v.Reference, &v.Name, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant by id: %w", err)
	}
	return &v, nil
}

// ListVariantsByProduct lista las variantes de un producto.
func (r *ProductRepo) ListVariantsByProduct(productID string) ([]*entity.Variant, error) {
	query := `
		SELECT id, product_id, reference, name, created_at, updated_at
		FROM variants WHERE product_id = $1 ORDER BY reference`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Variant
	for rows.Next() {
		var v entity.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Reference, &v.Name, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
