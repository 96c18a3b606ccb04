package entity

import "time"

// Dirección de un movimiento de stock.
const (
	MovementIn  = "IN"
	MovementOut = "OUT"
)

// Disparador del movimiento.
const (
	TriggerAuto   = "AUTO"   // generado por una transición de operación
	TriggerManual = "MANUAL" // ajuste manual de inventario
)

// Causa del movimiento.
const (
	CauseReception = "RECEPTION"
	CauseTransfer  = "TRANSFER"
	CausePurchase  = "PURCHASE"
	CauseCancel    = "CANCEL"
	CauseInventory = "INVENTORY" // conteo físico / ítem descubierto
)

// Tipos de origen/destino de un movimiento. LOCATION lleva el ID de la
// ubicación; IN_TRANSIT y NONE son pseudo-ubicaciones sin ID.
const (
	EndpointLocation  = "LOCATION"
	EndpointInTransit = "IN_TRANSIT"
	EndpointNone      = "NONE"
)

// StockMovement es el registro de auditoría de una transición física de un
// ítem: de dónde salió y a dónde llegó. Es una fila inmutable: se crea una
// por ítem y por transición, nunca se actualiza ni se borra, y jamás se lee
// para reconstruir el estado actual (ese vive en PhysicalItem, Location y
// QuantitySnapshot).
type StockMovement struct {
	ID          string
	Direction   string // IN, OUT
	Trigger     string // AUTO, MANUAL
	Cause       string // RECEPTION, TRANSFER, PURCHASE, CANCEL, INVENTORY
	SourceType  string // LOCATION, IN_TRANSIT, NONE
	SourceID    *string
	TargetType  string
	TargetID    *string
	ItemID      string
	OperationID *string
	CreatedBy   string
	CreatedAt   time.Time
}
