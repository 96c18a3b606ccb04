package stockops

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/stock"
)

// validateTransfer despacha un traslado confirmado: la porción validada de
// cada línea recogida sale de la bodega origen (RESERVED → IN_TRANSIT) y se
// sintetiza la recepción TRANSFERT que la esperará en destino. La porción
// REPORTED devuelve sus ítems al stock disponible del origen y difiere la
// cantidad a un traslado hijo; la CANCELED los devuelve y descarta la línea.
// Devuelve la nota de despacho para el notificador, o nil si nada viajó.
func (uc *LifecycleUseCase) validateTransfer(r TxRepos, op *entity.StockOperation, edits []stock.Edit, actor string) (*TransferDispatchedNote, error) {
	if op.Status != entity.StatusConfirmed {
		return nil, fmt.Errorf("%w: operación %s en estado %s", domain.ErrInvalidTransition, op.Reference, op.Status)
	}

	lines, err := r.Operations.GetLines(op.ID)
	if err != nil {
		return nil, err
	}
	splits, err := stock.SplitEdits(linesInState(lines, entity.LineValidated), edits)
	if err != nil {
		return nil, fmt.Errorf("operación %s: %w", op.Reference, err)
	}

	ledger := NewLedger(r)
	tracker := NewLocationTracker(r)
	spawner := newChildSpawner(r, op, actor)
	now := time.Now()

	dispatched := 0
	var dispatchedLines []*entity.OperationLine

	for i := range splits {
		split := splits[i]
		line := split.Line

		if split.Validated > 0 {
			if err := uc.dispatchItems(r, ledger, op, line, split.Validated, actor, now); err != nil {
				return nil, err
			}
			dispatched += split.Validated
			dispatchedLines = append(dispatchedLines, line)
		}
		if split.Reported > 0 {
			if err := uc.revertPick(r, ledger, tracker, op, line, split.Reported, entity.CauseTransfer, actor, now); err != nil {
				return nil, err
			}
			if err := spawner.deferQuantity(line, split.Reported); err != nil {
				return nil, err
			}
		}
		if split.Canceled > 0 {
			if err := uc.revertPick(r, ledger, tracker, op, line, split.Canceled, entity.CauseCancel, actor, now); err != nil {
				return nil, err
			}
		}
		if err := applyLineOutcome(r, split, now); err != nil {
			return nil, err
		}
	}

	var note *TransferDispatchedNote
	if dispatched > 0 {
		reception, err := uc.synthesizeReception(r, op, dispatchedLines, splits, actor, now)
		if err != nil {
			return nil, err
		}
		note, err = uc.dispatchNote(r, op, reception, dispatched)
		if err != nil {
			return nil, err
		}
	}

	op.Status = entity.StatusValidated
	op.ValidatedBy = &actor
	op.ValidatedAt = &now
	op.UpdatedAt = now
	if err := r.Operations.Update(op); err != nil {
		return nil, err
	}
	return note, nil
}

// dispatchItems saca qty ítems reservados del traslado hacia el tránsito:
// RESERVED → IN_TRANSIT, paso TO_RECEIVE, movimiento OUT hacia el endpoint
// IN_TRANSIT. Los ítems ya viajan sin ubicación desde la recogida.
func (uc *LifecycleUseCase) dispatchItems(r TxRepos, ledger *Ledger, op *entity.StockOperation, line *entity.OperationLine, qty int, actor string, now time.Time) error {
	items, err := r.Items.ListByOperationVariantState(op.ID, line.VariantID, entity.StateReserved, qty)
	if err != nil {
		return err
	}
	if len(items) < qty {
		return fmt.Errorf("%w: línea %s: %d unidades recogidas, %d a despachar",
			domain.ErrInsufficientStock, line.ID, len(items), qty)
	}
	for _, item := range items {
		if err := ledger.Move(item.VariantID, entity.BucketReserved, entity.BucketInTransit, 1); err != nil {
			return err
		}
		item.State = entity.StateInTransit
		item.Status = entity.ItemToReceive
		item.UpdatedAt = now
		if err := r.Items.Update(item); err != nil {
			return err
		}
		if err := recordMovement(r, item.ID, entity.MovementOut, entity.CauseTransfer,
			entity.EndpointNone, nil, entity.EndpointInTransit, nil, op.ID, actor, now); err != nil {
			return err
		}
	}
	return nil
}

// revertPick devuelve qty ítems recogidos al stock disponible de la bodega
// origen: RESERVED → AVAILABLE, de vuelta a la ubicación RECEPTION por
// defecto, con su movimiento IN de reversa.
func (uc *LifecycleUseCase) revertPick(r TxRepos, ledger *Ledger, tracker *LocationTracker, op *entity.StockOperation, line *entity.OperationLine, qty int, cause, actor string, now time.Time) error {
	items, err := r.Items.ListByOperationVariantState(op.ID, line.VariantID, entity.StateReserved, qty)
	if err != nil {
		return err
	}
	if len(items) < qty {
		return fmt.Errorf("%w: línea %s: %d unidades recogidas, %d a devolver",
			domain.ErrInsufficientStock, line.ID, len(items), qty)
	}
	sourceID, err := mustWarehouse(op.SourceWarehouseID)
	if err != nil {
		return err
	}
	loc, err := tracker.EnsureDefaultLocation(sourceID, entity.LocationTypeReception)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := ledger.Move(item.VariantID, entity.BucketReserved, entity.BucketAvailable, 1); err != nil {
			return err
		}
		item.State = entity.StateAvailable
		item.Status = entity.ItemToStore
		if err := tracker.Relocate(item, loc); err != nil {
			return err
		}
		item.UpdatedAt = now
		if err := r.Items.Update(item); err != nil {
			return err
		}
		locID := loc.ID
		if err := recordMovement(r, item.ID, entity.MovementIn, cause,
			entity.EndpointNone, nil, entity.EndpointLocation, &locID, op.ID, actor, now); err != nil {
			return err
		}
	}
	return nil
}

// synthesizeReception crea la recepción TRANSFERT PENDING en la bodega
// destino, con una línea PENDING por cada línea despachada (su cantidad
// validada). El vínculo TransferID permite que la validación de la recepción
// adopte los ítems en tránsito en vez de materializar nuevos.
func (uc *LifecycleUseCase) synthesizeReception(r TxRepos, transfer *entity.StockOperation, dispatchedLines []*entity.OperationLine, splits []stock.LineSplit, actor string, now time.Time) (*entity.StockOperation, error) {
	targetID, err := mustWarehouse(transfer.TargetWarehouseID)
	if err != nil {
		return nil, err
	}
	ref, err := r.Refs.NextOperationReference(entity.OperationReception)
	if err != nil {
		return nil, fmt.Errorf("generar referencia de recepción sintetizada: %w", err)
	}
	transferID := transfer.ID
	reception := &entity.StockOperation{
		ID:          uuid.New().String(),
		Reference:   ref,
		Kind:        entity.OperationReception,
		Subtype:     entity.ReceptionTransfert,
		Status:      entity.StatusPending,
		WarehouseID: &targetID,
		TransferID:  &transferID,
		CreatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.Operations.Create(reception); err != nil {
		return nil, err
	}

	validatedByLine := make(map[string]int, len(splits))
	for _, s := range splits {
		validatedByLine[s.Line.ID] = s.Validated
	}
	pos := 1
	for _, line := range dispatchedLines {
		recLine := &entity.OperationLine{
			ID:          uuid.New().String(),
			OperationID: reception.ID,
			Position:    pos,
			VariantID:   line.VariantID,
			Quantity:    validatedByLine[line.ID],
			UnitCost:    line.UnitCost,
			SupplierID:  line.SupplierID,
			State:       entity.LinePending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		pos++
		if err := r.Operations.CreateLine(recLine); err != nil {
			return nil, err
		}
	}
	return reception, nil
}

// dispatchNote arma el mensaje de despacho con los nombres legibles de las
// bodegas involucradas.
func (uc *LifecycleUseCase) dispatchNote(r TxRepos, transfer, reception *entity.StockOperation, units int) (*TransferDispatchedNote, error) {
	note := &TransferDispatchedNote{
		TransferReference:  transfer.Reference,
		ReceptionReference: reception.Reference,
		Units:              units,
	}
	if transfer.SourceWarehouseID != nil {
		wh, err := r.Warehouses.GetByID(*transfer.SourceWarehouseID)
		if err != nil {
			return nil, err
		}
		if wh != nil {
			note.SourceWarehouse = wh.Name
		}
	}
	if transfer.TargetWarehouseID != nil {
		wh, err := r.Warehouses.GetByID(*transfer.TargetWarehouseID)
		if err != nil {
			return nil, err
		}
		if wh != nil {
			note.TargetWarehouse = wh.Name
		}
	}
	return note, nil
}
