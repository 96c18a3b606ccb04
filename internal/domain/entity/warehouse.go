package entity

import "time"

// Warehouse representa un punto de almacenamiento (bodega) de la red.
// Las operaciones de stock (recepciones, traslados, compras) siempre
// referencian una o dos bodegas.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
