package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para bodegas.
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	List(limit, offset int) ([]*entity.Warehouse, error)
}
