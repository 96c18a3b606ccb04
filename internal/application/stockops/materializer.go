package stockops

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/stock"
)

// Materializer convierte una cantidad validada en N ítems físicos discretos.
// Por cada ítem creado encadena, en la misma transacción: alta en ubicación
// (rastreador), +1 al bucket inicial (ledger) y un movimiento IN (registro de
// auditoría). Si cualquier subpaso falla, la transacción del caller revierte
// y no queda ningún ítem a medias.
type Materializer struct {
	r       TxRepos
	ledger  *Ledger
	tracker *LocationTracker
}

// NewMaterializer construye el materializador sobre los repos de la tx.
func NewMaterializer(r TxRepos, ledger *Ledger, tracker *LocationTracker) *Materializer {
	return &Materializer{r: r, ledger: ledger, tracker: tracker}
}

// MaterializeParams parámetros de una materialización. La política de
// colocación (estado inicial, bucket, tipo de ubicación) la decide el caller
// según el tipo de operación; el materializador no ramifica por tipo.
type MaterializeParams struct {
	Operation *entity.StockOperation
	Line      *entity.OperationLine
	Quantity  int
	Placement stock.Placement
	Location  *entity.Location
	Cause     string // causa del movimiento IN (RECEPTION, PURCHASE, INVENTORY)
	Trigger   string // AUTO en transiciones, MANUAL en ajustes de inventario
	Actor     string
}

// Materialize crea p.Quantity ítems nuevos con referencia y código de barras
// frescos, ligados a la operación y línea de origen.
func (m *Materializer) Materialize(p MaterializeParams) ([]*entity.PhysicalItem, error) {
	if p.Quantity <= 0 {
		return nil, nil
	}

	now := time.Now()
	items := make([]*entity.PhysicalItem, 0, p.Quantity)

	for i := 0; i < p.Quantity; i++ {
		ref, barcode, err := m.r.Refs.NextItemReference()
		if err != nil {
			return nil, fmt.Errorf("generar referencia de ítem: %w", err)
		}
		item := &entity.PhysicalItem{
			ID:          uuid.New().String(),
			Reference:   ref,
			Barcode:     barcode,
			VariantID:   p.Line.VariantID,
			Status:      p.Placement.ItemStatus,
			State:       p.Placement.ItemState,
			OperationID: p.Operation.ID,
			UnitCost:    p.Line.UnitCost,
			SupplierID:  p.Line.SupplierID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := m.tracker.Relocate(item, p.Location); err != nil {
			return nil, err
		}
		if err := m.r.Items.Create(item); err != nil {
			return nil, err
		}
		if err := m.ledger.Adjust(item.VariantID, p.Placement.Bucket, 1); err != nil {
			return nil, err
		}

		targetType, targetID := locationEndpoint(p.Location)
		opID := p.Operation.ID
		mov := &entity.StockMovement{
			ID:          uuid.New().String(),
			Direction:   entity.MovementIn,
			Trigger:     p.Trigger,
			Cause:       p.Cause,
			SourceType:  entity.EndpointNone,
			TargetType:  targetType,
			TargetID:    targetID,
			ItemID:      item.ID,
			OperationID: &opID,
			CreatedBy:   p.Actor,
			CreatedAt:   now,
		}
		if err := m.r.Movements.Create(mov); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
