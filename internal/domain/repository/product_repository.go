package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para productos y sus
// variantes.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)

	CreateVariant(variant *entity.Variant) error
	GetVariantByID(id string) (*entity.Variant, error)
	ListVariantsByProduct(productID string) ([]*entity.Variant, error)
}
