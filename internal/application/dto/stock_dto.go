package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// SnapshotResponse contadores de cantidades serializados.
type SnapshotResponse struct {
	VariantID        string    `json:"variant_id,omitempty"`
	ProductID        string    `json:"product_id"`
	Available        int       `json:"available"`
	Reserved         int       `json:"reserved"`
	InTransit        int       `json:"in_transit"`
	PendingReception int       `json:"pending_reception"`
	Discovered       int       `json:"discovered"`
	Total            int       `json:"total"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ItemResponse ítem físico serializado.
type ItemResponse struct {
	ID          string          `json:"id"`
	Reference   string          `json:"reference"`
	Barcode     int64           `json:"barcode"`
	VariantID   string          `json:"variant_id"`
	Status      string          `json:"status"`
	State       string          `json:"state"`
	LocationID  *string         `json:"location_id,omitempty"`
	OperationID string          `json:"operation_id,omitempty"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	CreatedAt   time.Time       `json:"created_at"`
}

// MovementResponse movimiento serializado.
type MovementResponse struct {
	ID          string    `json:"id"`
	Direction   string    `json:"direction"`
	Trigger     string    `json:"trigger"`
	Cause       string    `json:"cause"`
	SourceType  string    `json:"source_type"`
	SourceID    *string   `json:"source_id,omitempty"`
	TargetType  string    `json:"target_type"`
	TargetID    *string   `json:"target_id,omitempty"`
	ItemID      string    `json:"item_id"`
	OperationID *string   `json:"operation_id,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ItemHistoryResponse ítem físico con su historial de movimientos.
type ItemHistoryResponse struct {
	Item      ItemResponse       `json:"item"`
	Movements []MovementResponse `json:"movements"`
}

// DiscoveredRequest ajuste manual por conteo físico.
type DiscoveredRequest struct {
	VariantID   string          `json:"variant_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// ToSnapshotResponse mapea los contadores a su DTO.
func ToSnapshotResponse(s *entity.QuantitySnapshot) SnapshotResponse {
	return SnapshotResponse{
		VariantID:        s.VariantID,
		ProductID:        s.ProductID,
		Available:        s.Available,
		Reserved:         s.Reserved,
		InTransit:        s.InTransit,
		PendingReception: s.PendingReception,
		Discovered:       s.Discovered,
		Total:            s.Total(),
		UpdatedAt:        s.UpdatedAt,
	}
}

// ToItemResponse mapea el ítem a su DTO.
func ToItemResponse(it *entity.PhysicalItem) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Reference:   it.Reference,
		Barcode:     it.Barcode,
		VariantID:   it.VariantID,
		Status:      it.Status,
		State:       it.State,
		LocationID:  it.LocationID,
		OperationID: it.OperationID,
		UnitCost:    it.UnitCost,
		CreatedAt:   it.CreatedAt,
	}
}

// ToMovementResponse mapea el movimiento a su DTO.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		Direction:   m.Direction,
		Trigger:     m.Trigger,
		Cause:       m.Cause,
		SourceType:  m.SourceType,
		SourceID:    m.SourceID,
		TargetType:  m.TargetType,
		TargetID:    m.TargetID,
		ItemID:      m.ItemID,
		OperationID: m.OperationID,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}
