package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// LocationRepository define el puerto de persistencia para ubicaciones (bins).
// Usado dentro de transacciones: AdjustTotal debe ejecutarse en la misma tx
// que la reasignación del ítem para mantener TotalItems consistente.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	// GetDefault devuelve la ubicación por defecto (RECEPTION o PREPARATION)
	// de una bodega, o nil si aún no existe.
	GetDefault(warehouseID, defaultType string) (*entity.Location, error)
	ListByWarehouse(warehouseID string) ([]*entity.Location, error)
	// AdjustTotal suma delta al contador TotalItems de la ubicación.
	AdjustTotal(id string, delta int) error
}
