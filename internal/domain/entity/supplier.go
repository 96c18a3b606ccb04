package entity

import "time"

// Supplier representa un proveedor al que se le compran variantes.
type Supplier struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
