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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL (usable con pool o tx).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de ubicaciones. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `
	id, warehouse_id, reference, barcode, default_type, total_items, created_at, updated_at`

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var loc entity.Location
	err := row.Scan(
		&loc.ID, &loc.WarehouseID, &loc.Reference, &loc.Barcode,
		&loc.DefaultType, &loc.TotalItems, &loc.CreatedAt, &loc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(loc *entity.Location) error {
	query := `
		INSERT INTO locations (id, warehouse_id, reference, barcode, default_type, total_items, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		loc.ID, loc.WarehouseID, loc.Reference, loc.Barcode,
		loc.DefaultType, loc.TotalItems, loc.CreatedAt, loc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	loc, err := scanLocation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location by id: %w", err)
	}
	return loc, nil
}

// GetDefault devuelve la ubicación por defecto (RECEPTION o PREPARATION) de
// la bodega, o nil si aún no existe.
func (r *LocationRepo) GetDefault(warehouseID, defaultType string) (*entity.Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations WHERE warehouse_id = $1 AND default_type = $2 LIMIT 1`
	loc, err := scanLocation(r.q.QueryRow(context.Background(), query, warehouseID, defaultType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get default location: %w", err)
	}
	return loc, nil
}

// ListByWarehouse lista las ubicaciones de una bodega.
func (r *LocationRepo) ListByWarehouse(warehouseID string) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE warehouse_id = $1 ORDER BY reference`
	rows, err := r.q.Query(context.Background(), query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, loc)
	}
	return list, rows.Err()
}

// AdjustTotal suma delta al contador TotalItems de la ubicación.
func (r *LocationRepo) AdjustTotal(id string, delta int) error {
	query := `UPDATE locations SET total_items = total_items + $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, delta)
	if err != nil {
		return fmt.Errorf("adjust location total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, id)
	}
	return nil
}
