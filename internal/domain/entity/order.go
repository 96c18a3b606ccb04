package entity

import "time"

// Estados y pasos de una orden de cliente. La orden es un documento de
// negocio externo al motor de stock: aquí solo se leen/escriben su estado y
// su paso como efecto lateral de validar o cancelar una recepción asociada.
const (
	OrderStatusOpen     = "OPEN"
	OrderStatusCanceled = "CANCELED"

	OrderStepToPrepare = "TO_PREPARE"
	OrderStepToReceive = "TO_RECEIVE"
	OrderStepPreparing = "PREPARING"
)

// Order representa una orden de cliente vinculada opcionalmente a una
// recepción (la mercancía que llega se reserva para su picking).
type Order struct {
	ID          string
	Reference   string
	WarehouseID string
	Status      string
	Step        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
