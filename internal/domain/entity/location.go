package entity

import "time"

// Tipos por defecto de una ubicación dentro de una bodega.
// Una bodega tiene a lo sumo una ubicación RECEPTION y una PREPARATION
// por defecto; se crean perezosamente la primera vez que una operación
// las necesita (ver stockops.LocationTracker).
const (
	LocationTypeReception   = "RECEPTION"   // llegada de mercancía sin orden asociada
	LocationTypePreparation = "PREPARATION" // picking de órdenes en preparación
	LocationTypeNone        = "NONE"        // ubicación normal de almacenamiento
)

// Location representa una ubicación física (bin) dentro de una bodega.
// TotalItems es un contador materializado: debe coincidir siempre con el
// número de PhysicalItems cuya LocationID apunta aquí.
type Location struct {
	ID          string
	WarehouseID string
	Reference   string
	Barcode     int64
	DefaultType string // RECEPTION, PREPARATION, NONE
	TotalItems  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
