package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// ItemRepository define el puerto de persistencia para ítems físicos.
type ItemRepository interface {
	Create(item *entity.PhysicalItem) error
	GetByID(id string) (*entity.PhysicalItem, error)
	Update(item *entity.PhysicalItem) error
	ListByOperation(operationID string) ([]*entity.PhysicalItem, error)
	// ListByOperationVariantState devuelve hasta limit ítems de la operación
	// con la variante y el estado dados. Cross-check de la precondición de
	// unidades ya recogidas/en tránsito atribuibles a la operación.
	ListByOperationVariantState(operationID, variantID, state string, limit int) ([]*entity.PhysicalItem, error)
	// PickAvailableForUpdate bloquea y devuelve hasta limit ítems DISPONIBLES
	// de la variante ubicados en la bodega (SELECT FOR UPDATE).
	PickAvailableForUpdate(variantID, warehouseID string, limit int) ([]*entity.PhysicalItem, error)
}
