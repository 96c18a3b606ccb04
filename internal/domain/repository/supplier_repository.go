package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List(limit, offset int) ([]*entity.Supplier, error)
}
