package stockops

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// LocationTracker mantiene el contador TotalItems de cada ubicación y la
// ubicación actual de cada ítem. Debe llamarse exactamente una vez por
// movimiento físico.
type LocationTracker struct {
	r TxRepos
}

// NewLocationTracker construye el rastreador sobre los repos de la tx.
func NewLocationTracker(r TxRepos) *LocationTracker {
	return &LocationTracker{r: r}
}

// Relocate saca el ítem de su ubicación actual (si tiene) y lo deja en la
// nueva (si hay; nil = contenedor/en tránsito), ajustando los contadores de
// ambas en la misma transacción. Muta item.LocationID; el caller persiste el
// ítem junto con el resto de sus cambios.
func (t *LocationTracker) Relocate(item *entity.PhysicalItem, to *entity.Location) error {
	if item.LocationID != nil {
		if err := t.r.Locations.AdjustTotal(*item.LocationID, -1); err != nil {
			return err
		}
		item.LocationID = nil
	}
	if to != nil {
		if err := t.r.Locations.AdjustTotal(to.ID, 1); err != nil {
			return err
		}
		locID := to.ID
		item.LocationID = &locID
	}
	return nil
}

// EnsureDefaultLocation devuelve la ubicación por defecto (RECEPTION o
// PREPARATION) de la bodega, creándola de forma idempotente la primera vez
// que una operación la necesita.
func (t *LocationTracker) EnsureDefaultLocation(warehouseID, defaultType string) (*entity.Location, error) {
	loc, err := t.r.Locations.GetDefault(warehouseID, defaultType)
	if err != nil {
		return nil, err
	}
	if loc != nil {
		return loc, nil
	}

	ref, barcode, err := t.r.Refs.NextLocationReference(defaultType)
	if err != nil {
		return nil, fmt.Errorf("generar referencia de ubicación: %w", err)
	}
	now := time.Now()
	loc = &entity.Location{
		ID:          uuid.New().String(),
		WarehouseID: warehouseID,
		Reference:   ref,
		Barcode:     barcode,
		DefaultType: defaultType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.r.Locations.Create(loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// locationEndpoint devuelve el par (tipo, id) de un extremo de movimiento
// para una ubicación opcional.
func locationEndpoint(loc *entity.Location) (string, *string) {
	if loc == nil {
		return entity.EndpointNone, nil
	}
	id := loc.ID
	return entity.EndpointLocation, &id
}

// mustWarehouse devuelve el ID de bodega de un puntero obligatorio.
func mustWarehouse(id *string) (string, error) {
	if id == nil || *id == "" {
		return "", fmt.Errorf("%w: operación sin bodega", domain.ErrInvalidInput)
	}
	return *id, nil
}
