package stockops

import (
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/stock"
)

// validateInbound valida una recepción o una compra: materializa la porción
// validada, difiere la REPORTED a una hija y descarta la CANCELED. Las
// recepciones sintetizadas por un traslado (TRANSFERT / CANCEL_TRANSFERT) no
// crean ítems nuevos: adoptan los ítems en tránsito del traslado origen.
// Devuelve el número de ítems materializados.
func (uc *LifecycleUseCase) validateInbound(r TxRepos, op *entity.StockOperation, edits []stock.Edit, actor string) (int, error) {
	if op.Status != entity.StatusPending {
		return 0, fmt.Errorf("%w: operación %s en estado %s", domain.ErrInvalidTransition, op.Reference, op.Status)
	}

	lines, err := r.Operations.GetLines(op.ID)
	if err != nil {
		return 0, err
	}
	splits, err := stock.SplitEdits(linesInState(lines, entity.LinePending), edits)
	if err != nil {
		return 0, fmt.Errorf("operación %s: %w", op.Reference, err)
	}

	ledger := NewLedger(r)
	tracker := NewLocationTracker(r)
	materializer := NewMaterializer(r, ledger, tracker)
	spawner := newChildSpawner(r, op, actor)

	adoption := op.Subtype == entity.ReceptionTransfert || op.Subtype == entity.ReceptionCancelTransfert
	cause := entity.CauseReception
	if op.Kind == entity.OperationPurchase {
		cause = entity.CausePurchase
	}

	now := time.Now()
	materialized := 0

	for i := range splits {
		split := splits[i]
		if split.Validated > 0 {
			if adoption {
				if err := uc.adoptTransferItems(r, ledger, tracker, op, split.Line, split.Validated, actor, now); err != nil {
					return 0, err
				}
			} else {
				placement := stock.PlacementFor(op.Kind, op.Subtype, op.OrderID != nil)
				warehouseID, err := mustWarehouse(op.WarehouseID)
				if err != nil {
					return 0, err
				}
				loc, err := tracker.EnsureDefaultLocation(warehouseID, placement.LocationType)
				if err != nil {
					return 0, err
				}
				items, err := materializer.Materialize(MaterializeParams{
					Operation: op,
					Line:      split.Line,
					Quantity:  split.Validated,
					Placement: placement,
					Location:  loc,
					Cause:     cause,
					Trigger:   entity.TriggerAuto,
					Actor:     actor,
				})
				if err != nil {
					return 0, err
				}
				materialized += len(items)
			}
		}
		if split.Reported > 0 {
			if err := spawner.deferQuantity(split.Line, split.Reported); err != nil {
				return 0, err
			}
		}
		if split.Canceled > 0 && adoption {
			// Unidades en tránsito que nunca llegaron: se dan de baja con su
			// movimiento de reversa antes de cancelar la línea.
			if err := uc.retireTransferItems(r, ledger, op, split.Line, split.Canceled, actor, now); err != nil {
				return 0, err
			}
		}
		if err := applyLineOutcome(r, split, now); err != nil {
			return 0, err
		}
	}

	// Efecto lateral sobre la orden vinculada: su mercancía quedó reservada
	// en preparación.
	if op.OrderID != nil {
		order, err := r.Orders.GetByID(*op.OrderID)
		if err != nil {
			return 0, err
		}
		if order != nil {
			if err := r.Orders.UpdateStatusStep(order.ID, order.Status, entity.OrderStepToReceive); err != nil {
				return 0, err
			}
		}
	}

	op.Status = entity.StatusValidated
	op.ValidatedBy = &actor
	op.ValidatedAt = &now
	op.UpdatedAt = now
	if err := r.Operations.Update(op); err != nil {
		return 0, err
	}
	return materialized, nil
}

// adoptTransferItems adopta qty ítems del traslado origen: los saca de su
// estado de viaje (IN_TRANSIT o PENDING_RECEPTION), los deja DISPONIBLES en
// la ubicación RECEPTION por defecto de la bodega y reasigna su vínculo de
// operación a esta recepción.
func (uc *LifecycleUseCase) adoptTransferItems(r TxRepos, ledger *Ledger, tracker *LocationTracker, op *entity.StockOperation, line *entity.OperationLine, qty int, actor string, now time.Time) error {
	if op.TransferID == nil {
		return fmt.Errorf("%w: recepción %s sin traslado origen", domain.ErrInvalidInput, op.Reference)
	}
	wantState := entity.StateInTransit
	cause := entity.CauseReception
	if op.Subtype == entity.ReceptionCancelTransfert {
		wantState = entity.StatePendingReception
		cause = entity.CauseCancel
	}

	items, err := r.Items.ListByOperationVariantState(*op.TransferID, line.VariantID, wantState, qty)
	if err != nil {
		return err
	}
	if len(items) < qty {
		return fmt.Errorf("%w: línea %s: %d unidades en camino, %d requeridas",
			domain.ErrInsufficientStock, line.ID, len(items), qty)
	}

	warehouseID, err := mustWarehouse(op.WarehouseID)
	if err != nil {
		return err
	}
	loc, err := tracker.EnsureDefaultLocation(warehouseID, entity.LocationTypeReception)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := ledger.Move(item.VariantID, entity.BucketForState(item.State), entity.BucketAvailable, 1); err != nil {
			return err
		}
		item.State = entity.StateAvailable
		item.Status = entity.ItemToStore
		item.OperationID = op.ID
		if err := tracker.Relocate(item, loc); err != nil {
			return err
		}
		item.UpdatedAt = now
		if err := r.Items.Update(item); err != nil {
			return err
		}
		locID := loc.ID
		if err := recordMovement(r, item.ID, entity.MovementIn, cause,
			entity.EndpointInTransit, nil, entity.EndpointLocation, &locID, op.ID, actor, now); err != nil {
			return err
		}
	}
	return nil
}

// retireTransferItems da de baja qty unidades en camino que se cancelan en la
// recepción destino (p. ej. perdidas en tránsito): decrementa el bucket que
// las contiene y deja el movimiento OUT de reversa antes de cancelar la línea.
func (uc *LifecycleUseCase) retireTransferItems(r TxRepos, ledger *Ledger, op *entity.StockOperation, line *entity.OperationLine, qty int, actor string, now time.Time) error {
	if op.TransferID == nil {
		return fmt.Errorf("%w: recepción %s sin traslado origen", domain.ErrInvalidInput, op.Reference)
	}
	wantState := entity.StateInTransit
	if op.Subtype == entity.ReceptionCancelTransfert {
		wantState = entity.StatePendingReception
	}
	items, err := r.Items.ListByOperationVariantState(*op.TransferID, line.VariantID, wantState, qty)
	if err != nil {
		return err
	}
	if len(items) < qty {
		return fmt.Errorf("%w: línea %s: %d unidades en camino, %d a dar de baja",
			domain.ErrInsufficientStock, line.ID, len(items), qty)
	}
	for _, item := range items {
		if err := ledger.Adjust(item.VariantID, entity.BucketForState(item.State), -1); err != nil {
			return err
		}
		item.State = entity.StateRetired
		item.OperationID = op.ID
		item.UpdatedAt = now
		if err := r.Items.Update(item); err != nil {
			return err
		}
		if err := recordMovement(r, item.ID, entity.MovementOut, entity.CauseCancel,
			entity.EndpointInTransit, nil, entity.EndpointNone, nil, op.ID, actor, now); err != nil {
			return err
		}
	}
	return nil
}
