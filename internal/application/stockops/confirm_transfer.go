package stockops

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/stock"
)

// confirmTransfer reconcilia lo solicitado contra lo recogido en la bodega
// origen. La porción recogida (ediciones VALIDATED) reserva ítems físicos
// reales; la porción faltante (REPORTED) alimenta la compra vinculada; la
// CANCELED se descarta. Una línea parcialmente recogida se parte en dos
// líneas de la misma operación: la recogida (VALIDATED) y el remanente
// (REPORTED), que se vuelve a confirmar cuando la compra llega.
func (uc *LifecycleUseCase) confirmTransfer(r TxRepos, op *entity.StockOperation, edits []stock.Edit, actor string) error {
	if op.Status != entity.StatusPending && op.Status != entity.StatusAwaitingPurchase {
		return fmt.Errorf("%w: operación %s en estado %s", domain.ErrInvalidTransition, op.Reference, op.Status)
	}

	lines, err := r.Operations.GetLines(op.ID)
	if err != nil {
		return err
	}
	// En la primera confirmación se reconcilian las líneas PENDING; al
	// reconfirmar tras la llegada de la compra, las REPORTED.
	reconcilable := linesInState(lines, entity.LinePending)
	if op.Status == entity.StatusAwaitingPurchase {
		reconcilable = linesInState(lines, entity.LineReported)
	}
	splits, err := stock.SplitEdits(reconcilable, edits)
	if err != nil {
		return fmt.Errorf("operación %s: %w", op.Reference, err)
	}

	ledger := NewLedger(r)
	tracker := NewLocationTracker(r)
	now := time.Now()
	nextPos := len(lines) + 1

	var shortfalls []shortfallNeed

	for i := range splits {
		split := splits[i]
		line := split.Line

		if split.Validated > 0 {
			if err := uc.pickItems(r, ledger, tracker, op, line, split.Validated, actor, now); err != nil {
				return err
			}
		}
		if split.Reported > 0 {
			shortfalls = append(shortfalls, shortfallNeed{
				VariantID:  line.VariantID,
				Quantity:   split.Reported,
				SupplierID: line.SupplierID,
				UnitCost:   line.UnitCost,
			})
		}

		// Resultado por línea: si hubo recogida y remanente a la vez, la
		// línea original queda VALIDATED con lo recogido y el remanente se
		// parte a una línea hermana REPORTED.
		switch {
		case split.Validated > 0:
			line.Quantity = split.Validated
			line.State = entity.LineValidated
			line.UpdatedAt = now
			if err := r.Operations.UpdateLine(line); err != nil {
				return err
			}
			if split.Reported > 0 {
				sibling := &entity.OperationLine{
					ID:          uuid.New().String(),
					OperationID: op.ID,
					Position:    nextPos,
					VariantID:   line.VariantID,
					Quantity:    split.Reported,
					UnitCost:    line.UnitCost,
					SupplierID:  line.SupplierID,
					State:       entity.LineReported,
					CreatedAt:   now,
					UpdatedAt:   now,
				}
				nextPos++
				if err := r.Operations.CreateLine(sibling); err != nil {
					return err
				}
			}
		case split.Reported > 0:
			line.Quantity = split.Reported
			line.State = entity.LineReported
			line.UpdatedAt = now
			if err := r.Operations.UpdateLine(line); err != nil {
				return err
			}
		default:
			line.State = entity.LineCanceled
			line.UpdatedAt = now
			if err := r.Operations.UpdateLine(line); err != nil {
				return err
			}
		}
	}

	if len(shortfalls) > 0 {
		if _, err := spawnShortfallPurchase(r, op, shortfalls, actor, now); err != nil {
			return err
		}
		op.Status = entity.StatusAwaitingPurchase
	} else {
		op.Status = entity.StatusConfirmed
	}
	op.UpdatedAt = now
	return r.Operations.Update(op)
}

// pickItems reserva qty unidades físicas de la variante en la bodega origen:
// bloquea ítems DISPONIBLES, los pasa a PICKED_UP/RESERVED dentro del
// contenedor del traslado (sin ubicación) y deja el movimiento OUT de cada
// uno. El perdedor de una carrera por el mismo stock falla aquí con
// ErrInsufficientStock o, a nivel de ledger, con ErrNegativeBalance.
func (uc *LifecycleUseCase) pickItems(r TxRepos, ledger *Ledger, tracker *LocationTracker, op *entity.StockOperation, line *entity.OperationLine, qty int, actor string, now time.Time) error {
	sourceID, err := mustWarehouse(op.SourceWarehouseID)
	if err != nil {
		return err
	}
	items, err := r.Items.PickAvailableForUpdate(line.VariantID, sourceID, qty)
	if err != nil {
		return err
	}
	if len(items) < qty {
		return fmt.Errorf("%w: línea %s: %d disponibles en origen, %d requeridas",
			domain.ErrInsufficientStock, line.ID, len(items), qty)
	}

	for _, item := range items {
		if err := ledger.Move(item.VariantID, entity.BucketAvailable, entity.BucketReserved, 1); err != nil {
			return err
		}
		var fromLoc *string
		if item.LocationID != nil {
			id := *item.LocationID
			fromLoc = &id
		}
		if err := tracker.Relocate(item, nil); err != nil {
			return err
		}
		item.Status = entity.ItemPickedUp
		item.State = entity.StateReserved
		item.OperationID = op.ID
		item.UpdatedAt = now
		if err := r.Items.Update(item); err != nil {
			return err
		}
		srcType := entity.EndpointNone
		if fromLoc != nil {
			srcType = entity.EndpointLocation
		}
		if err := recordMovement(r, item.ID, entity.MovementOut, entity.CauseTransfer,
			srcType, fromLoc, entity.EndpointNone, nil, op.ID, actor, now); err != nil {
			return err
		}
	}
	return nil
}
