package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de operación de stock.
const (
	OperationReception = "RECEPTION" // mercancía externa que entra a una bodega
	OperationTransfer  = "TRANSFER"  // mercancía que se mueve entre dos bodegas
	OperationPurchase  = "PURCHASE"  // mercancía pedida a un proveedor
)

// Subtipos de recepción. SUPPLY y ORDER son recepciones de origen externo;
// TRANSFERT y CANCEL_TRANSFERT son recepciones sintetizadas por el ciclo de
// vida de un traslado (llegada al destino / devolución al origen).
const (
	ReceptionSupply         = "SUPPLY"
	ReceptionOrder          = "ORDER"
	ReceptionTransfert      = "TRANSFERT"
	ReceptionCancelTransfert = "CANCEL_TRANSFERT"
)

// Estados de una operación de stock.
// PENDING → {CONFIRMED (solo traslados) | VALIDATED} | CANCELED.
// AWAITING_PURCHASE: la confirmación de un traslado reveló faltante en origen
// y se generó una compra; se vuelve a confirmar cuando la compra llega.
const (
	StatusPending          = "PENDING"
	StatusConfirmed        = "CONFIRMED"
	StatusAwaitingPurchase = "AWAITING_PURCHASE"
	StatusValidated        = "VALIDATED"
	StatusCanceled         = "CANCELED"
)

// Estados de una línea de operación. PENDING solo es válido mientras la
// operación padre está PENDING; al reconciliar, cada línea termina en
// VALIDATED o CANCELED, o su remanente pasa como línea PENDING a la
// operación hija (REPORTED).
const (
	LinePending   = "PENDING"
	LineValidated = "VALIDATED"
	LineReported  = "REPORTED"
	LineCanceled  = "CANCELED"
)

// StockOperation representa una operación de movimiento de mercancía.
// Parent/Child forman una cadena acíclica hacia adelante: la hija carga la
// cantidad diferida (REPORTED) de la reconciliación de la madre. Una
// operación tiene a lo sumo una hija directa y, una vez creada, su puntero
// ParentID es inmutable.
type StockOperation struct {
	ID        string
	Reference string
	Kind      string // RECEPTION, TRANSFER, PURCHASE
	Subtype   string // solo recepciones: SUPPLY, ORDER, TRANSFERT, CANCEL_TRANSFERT
	Status    string

	ParentID *string
	ChildID  *string

	// Recepciones y compras usan WarehouseID; los traslados usan
	// SourceWarehouseID y TargetWarehouseID.
	WarehouseID       *string
	SourceWarehouseID *string
	TargetWarehouseID *string

	// Documentos de negocio vinculados.
	OrderID    *string // recepción asociada a una orden de cliente
	TransferID *string // compra generada por el faltante de un traslado (clave de idempotencia)

	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ValidatedBy *string
	ValidatedAt *time.Time
	CanceledBy  *string
	CanceledAt  *time.Time
}

// IsTerminal indica si la operación ya no admite transiciones.
func (o *StockOperation) IsTerminal() bool {
	return o.Status == StatusValidated || o.Status == StatusCanceled
}

// OperationLine es una cantidad solicitada de una variante dentro de una
// operación. Quantity es siempre un entero positivo.
type OperationLine struct {
	ID          string
	OperationID string
	Position    int
	VariantID   string
	Quantity    int
	UnitCost    decimal.Decimal
	SupplierID  *string
	State       string // PENDING, VALIDATED, REPORTED, CANCELED
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OperationComment es un comentario libre sobre una operación (hilo simple).
type OperationComment struct {
	ID          string
	OperationID string
	Body        string
	CreatedBy   string
	CreatedAt   time.Time
}
