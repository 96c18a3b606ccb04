package entity

import "time"

// Product agrupa variantes de un mismo artículo. Los contadores de stock
// existen a nivel de variante y agregados a nivel de producto.
type Product struct {
	ID        string
	Reference string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Variant representa una variante concreta (talla/color/presentación) de un
// producto. Es la unidad sobre la que se piden y mueven cantidades.
type Variant struct {
	ID        string
	ProductID string
	Reference string // SKU único
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
