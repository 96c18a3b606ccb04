package dto

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// CreateWarehouseRequest alta de bodega.
type CreateWarehouseRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

// WarehouseResponse bodega serializada.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationResponse ubicación serializada.
type LocationResponse struct {
	ID          string    `json:"id"`
	WarehouseID string    `json:"warehouse_id"`
	Reference   string    `json:"reference"`
	Barcode     int64     `json:"barcode"`
	DefaultType string    `json:"default_type"`
	TotalItems  int       `json:"total_items"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToWarehouseResponse mapea la entidad a su DTO.
func ToWarehouseResponse(w *entity.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Address:   w.Address,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// ToLocationResponse mapea la entidad a su DTO.
func ToLocationResponse(l *entity.Location) LocationResponse {
	return LocationResponse{
		ID:          l.ID,
		WarehouseID: l.WarehouseID,
		Reference:   l.Reference,
		Barcode:     l.Barcode,
		DefaultType: l.DefaultType,
		TotalItems:  l.TotalItems,
		CreatedAt:   l.CreatedAt,
	}
}
