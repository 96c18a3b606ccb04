package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo implementación de SnapshotRepository sobre PostgreSQL (usable
// con pool o tx). Los ajustes del ledger siempre lo usan dentro de una tx,
// vía las variantes ForUpdate.
type SnapshotRepo struct {
	q Querier
}

// NewSnapshotRepository construye el adaptador de snapshots. Pasar pool o tx (Querier).
func NewSnapshotRepository(q Querier) *SnapshotRepo {
	return &SnapshotRepo{q: q}
}

// GetVariant obtiene los contadores de una variante, o nil si nunca tuvo stock.
func (r *SnapshotRepo) GetVariant(variantID string) (*entity.QuantitySnapshot, error) {
	return r.getVariant(variantID, false)
}

// GetVariantForUpdate obtiene los contadores de la variante bloqueando la fila.
func (r *SnapshotRepo) GetVariantForUpdate(variantID string) (*entity.QuantitySnapshot, error) {
	return r.getVariant(variantID, true)
}

func (r *SnapshotRepo) getVariant(variantID string, forUpdate bool) (*entity.QuantitySnapshot, error) {
	query := `
		SELECT variant_id, product_id, available, reserved, in_transit, pending_reception, discovered, updated_at
		FROM variant_snapshots WHERE variant_id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var s entity.QuantitySnapshot
	err := r.q.QueryRow(context.Background(), query, variantID).Scan(
		&s.VariantID, &s.ProductID, &s.Available, &s.Reserved, &s.InTransit,
		&s.PendingReception, &s.Discovered, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant snapshot: %w", err)
	}
	return &s, nil
}

// UpsertVariant inserta o actualiza los contadores de la variante.
func (r *SnapshotRepo) UpsertVariant(s *entity.QuantitySnapshot) error {
	query := `
		INSERT INTO variant_snapshots (variant_id, product_id, available, reserved, in_transit, pending_reception, discovered, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (variant_id)
		DO UPDATE SET available = EXCLUDED.available, reserved = EXCLUDED.reserved,
			in_transit = EXCLUDED.in_transit, pending_reception = EXCLUDED.pending_reception,
			discovered = EXCLUDED.discovered, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		s.VariantID, s.ProductID, s.Available, s.Reserved, s.InTransit,
		s.PendingReception, s.Discovered, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert variant snapshot: %w", err)
	}
	return nil
}

// GetProduct obtiene los contadores agregados de un producto, o nil si nunca
// tuvo stock.
func (r *SnapshotRepo) GetProduct(productID string) (*entity.QuantitySnapshot, error) {
	return r.getProduct(productID, false)
}

// GetProductForUpdate obtiene los contadores del producto bloqueando la fila.
func (r *SnapshotRepo) GetProductForUpdate(productID string) (*entity.QuantitySnapshot, error) {
	return r.getProduct(productID, true)
}

func (r *SnapshotRepo) getProduct(productID string, forUpdate bool) (*entity.QuantitySnapshot, error) {
	query := `
		SELECT product_id, available, reserved, in_transit, pending_reception, discovered, updated_at
		FROM product_snapshots WHERE product_id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var s entity.QuantitySnapshot
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&s.ProductID, &s.Available, &s.Reserved, &s.InTransit,
		&s.PendingReception, &s.Discovered, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product snapshot: %w", err)
	}
	return &s, nil
}

// UpsertProduct inserta o actualiza los contadores agregados del producto.
func (r *SnapshotRepo) UpsertProduct(s *entity.QuantitySnapshot) error {
	query := `
		INSERT INTO product_snapshots (product_id, available, reserved, in_transit, pending_reception, discovered, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id)
		DO UPDATE SET available = EXCLUDED.available, reserved = EXCLUDED.reserved,
			in_transit = EXCLUDED.in_transit, pending_reception = EXCLUDED.pending_reception,
			discovered = EXCLUDED.discovered, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		s.ProductID, s.Available, s.Reserved, s.InTransit,
		s.PendingReception, s.Discovered, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert product snapshot: %w", err)
	}
	return nil
}
