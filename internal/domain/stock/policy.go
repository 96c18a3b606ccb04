// Package stock contiene los servicios de dominio puros del motor de
// operaciones: la política de colocación de ítems materializados y el
// algoritmo de partición de ediciones de la reconciliación. No dependen de
// persistencia y se prueban de forma aislada.
package stock

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// Placement describe dónde y en qué estado nacen los ítems materializados de
// una línea validada. Es un value object que la política calcula y el
// materializador consume; la ramificación por tipo de operación vive aquí y
// no dentro del materializador.
type Placement struct {
	ItemStatus   string       // paso de flujo inicial del ítem
	ItemState    string       // estado de disponibilidad inicial
	Bucket       entity.Bucket // bucket del snapshot que se incrementa
	LocationType string       // ubicación por defecto a usar (RECEPTION o PREPARATION)
}

// PlacementFor devuelve la política de colocación según el tipo de operación
// y la presencia de una orden de cliente vinculada:
//
//   - una recepción sin orden (o una compra) deja los ítems DISPONIBLES en la
//     ubicación RECEPTION por defecto de la bodega;
//   - una recepción ligada a una orden en preparación los deja RESERVADOS en
//     la ubicación PREPARATION, listos para el picking.
func PlacementFor(kind, subtype string, hasOrder bool) Placement {
	if kind == entity.OperationReception && (subtype == entity.ReceptionOrder || hasOrder) {
		return Placement{
			ItemStatus:   entity.ItemToPickPack,
			ItemState:    entity.StateReserved,
			Bucket:       entity.BucketReserved,
			LocationType: entity.LocationTypePreparation,
		}
	}
	return Placement{
		ItemStatus:   entity.ItemToStore,
		ItemState:    entity.StateAvailable,
		Bucket:       entity.BucketAvailable,
		LocationType: entity.LocationTypeReception,
	}
}
