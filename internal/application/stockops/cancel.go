package stockops

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// cancelOperation lleva la operación a CANCELED. Solo es legal desde PENDING
// o CONFIRMED; un traslado AWAITING_PURCHASE debe resolverse primero con su
// compra vinculada. Cancelar un traslado confirmado revierte la mercancía ya
// recogida: los ítems pasan a PENDING_RECEPTION y se sintetiza la recepción
// CANCEL_TRANSFERT en la bodega origen para recibirlos de vuelta.
func (uc *LifecycleUseCase) cancelOperation(r TxRepos, op *entity.StockOperation, actor string) error {
	if op.Status != entity.StatusPending && op.Status != entity.StatusConfirmed {
		return fmt.Errorf("%w: operación %s en estado %s no se puede cancelar", domain.ErrInvalidTransition, op.Reference, op.Status)
	}

	now := time.Now()

	if op.Status == entity.StatusConfirmed && op.Kind == entity.OperationTransfer {
		if err := uc.returnPickedItems(r, op, actor, now); err != nil {
			return err
		}
	}

	lines, err := r.Operations.GetLines(op.ID)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if line.State == entity.LineCanceled {
			continue
		}
		line.State = entity.LineCanceled
		line.UpdatedAt = now
		if err := r.Operations.UpdateLine(line); err != nil {
			return err
		}
	}

	// La orden vinculada vuelve a su paso de preparación: su mercancía ya no
	// llega por esta operación.
	if op.OrderID != nil {
		order, err := r.Orders.GetByID(*op.OrderID)
		if err != nil {
			return err
		}
		if order != nil {
			if err := r.Orders.UpdateStatusStep(order.ID, order.Status, entity.OrderStepToPrepare); err != nil {
				return err
			}
		}
	}

	op.Status = entity.StatusCanceled
	op.CanceledBy = &actor
	op.CanceledAt = &now
	op.UpdatedAt = now
	return r.Operations.Update(op)
}

// returnPickedItems pone en camino de vuelta la mercancía recogida de un
// traslado confirmado que se cancela: cada ítem RESERVED pasa a
// PENDING_RECEPTION y se sintetiza una recepción CANCEL_TRANSFERT en la
// bodega origen, cuya validación los adoptará de vuelta al stock disponible.
func (uc *LifecycleUseCase) returnPickedItems(r TxRepos, op *entity.StockOperation, actor string, now time.Time) error {
	ledger := NewLedger(r)
	lines, err := r.Operations.GetLines(op.ID)
	if err != nil {
		return err
	}

	var returnedLines []*entity.OperationLine
	for _, line := range lines {
		if line.State != entity.LineValidated {
			continue
		}
		items, err := r.Items.ListByOperationVariantState(op.ID, line.VariantID, entity.StateReserved, line.Quantity)
		if err != nil {
			return err
		}
		if len(items) < line.Quantity {
			return fmt.Errorf("%w: línea %s: %d unidades recogidas, %d esperadas",
				domain.ErrInsufficientStock, line.ID, len(items), line.Quantity)
		}
		for _, item := range items {
			if err := ledger.Move(item.VariantID, entity.BucketReserved, entity.BucketPendingReception, 1); err != nil {
				return err
			}
			item.State = entity.StatePendingReception
			item.Status = entity.ItemToReceive
			item.UpdatedAt = now
			if err := r.Items.Update(item); err != nil {
				return err
			}
			if err := recordMovement(r, item.ID, entity.MovementOut, entity.CauseCancel,
				entity.EndpointNone, nil, entity.EndpointInTransit, nil, op.ID, actor, now); err != nil {
				return err
			}
		}
		returnedLines = append(returnedLines, line)
	}

	if len(returnedLines) == 0 {
		return nil
	}

	sourceID, err := mustWarehouse(op.SourceWarehouseID)
	if err != nil {
		return err
	}
	ref, err := r.Refs.NextOperationReference(entity.OperationReception)
	if err != nil {
		return fmt.Errorf("generar referencia de recepción de reversa: %w", err)
	}
	transferID := op.ID
	reception := &entity.StockOperation{
		ID:          uuid.New().String(),
		Reference:   ref,
		Kind:        entity.OperationReception,
		Subtype:     entity.ReceptionCancelTransfert,
		Status:      entity.StatusPending,
		WarehouseID: &sourceID,
		TransferID:  &transferID,
		CreatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.Operations.Create(reception); err != nil {
		return err
	}
	for pos, line := range returnedLines {
		recLine := &entity.OperationLine{
			ID:          uuid.New().String(),
			OperationID: reception.ID,
			Position:    pos + 1,
			VariantID:   line.VariantID,
			Quantity:    line.Quantity,
			UnitCost:    line.UnitCost,
			SupplierID:  line.SupplierID,
			State:       entity.LinePending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Operations.CreateLine(recLine); err != nil {
			return err
		}
	}
	return nil
}
