package dto

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// CreateProductRequest alta de producto con sus variantes iniciales.
type CreateProductRequest struct {
	Reference string                 `json:"reference" validate:"required"`
	Name      string                 `json:"name" validate:"required"`
	Variants  []CreateVariantRequest `json:"variants"`
}

// CreateVariantRequest alta de variante.
type CreateVariantRequest struct {
	Reference string `json:"reference" validate:"required"` // SKU único
	Name      string `json:"name" validate:"required"`
}

// ProductResponse producto serializado con sus variantes.
type ProductResponse struct {
	ID        string            `json:"id"`
	Reference string            `json:"reference"`
	Name      string            `json:"name"`
	Variants  []VariantResponse `json:"variants,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// VariantResponse variante serializada.
type VariantResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToProductResponse mapea la entidad a su DTO (sin variantes).
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Reference: p.Reference,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToVariantResponse mapea la entidad a su DTO.
func ToVariantResponse(v *entity.Variant) VariantResponse {
	return VariantResponse{
		ID:        v.ID,
		ProductID: v.ProductID,
		Reference: v.Reference,
		Name:      v.Name,
		CreatedAt: v.CreatedAt,
	}
}
