package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de flujo de trabajo de un ítem físico (paso actual del circuito).
const (
	ItemToStore    = "TO_STORE"     // recibido, pendiente de almacenar
	ItemToPickPack = "TO_PICK_PACK" // reservado para picking de una orden
	ItemPickedUp   = "PICKED_UP"    // recogido en el contenedor de un traslado
	ItemToReceive  = "TO_RECEIVE"   // en camino hacia una recepción
)

// Estados de disponibilidad de un ítem físico. Cada estado corresponde
// exactamente a un bucket del QuantitySnapshot (ver entity.BucketForState).
const (
	StateAvailable        = "AVAILABLE"
	StateReserved         = "RESERVED"
	StateInTransit        = "IN_TRANSIT"
	StatePendingReception = "PENDING_RECEPTION"
	// StateDiscovered: unidad hallada en un conteo físico, registrada por un
	// ajuste manual y pendiente de confirmar como disponible.
	StateDiscovered = "DISCOVERED"
	// StateRetired: unidad dada de baja definitivamente (p. ej. perdida en
	// tránsito). Ya no cuenta en ningún bucket del snapshot.
	StateRetired = "RETIRED"
)

// PhysicalItem es una unidad serializada e individualmente rastreable de una
// variante. La crea una única vez el materializador al validar una línea;
// después solo cambia de estado y ubicación, nunca se borra.
type PhysicalItem struct {
	ID          string
	Reference   string
	Barcode     int64
	VariantID   string
	Status      string  // TO_STORE, TO_PICK_PACK, PICKED_UP, TO_RECEIVE
	State       string  // AVAILABLE, RESERVED, IN_TRANSIT, PENDING_RECEPTION
	LocationID  *string // nil mientras viaja (contenedor o en tránsito)
	OperationID string  // operación que lo materializó
	UnitCost    decimal.Decimal
	SupplierID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
