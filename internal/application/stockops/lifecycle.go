package stockops

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/stock"
	"github.com/jhoicas/almacen-api/pkg/metrics"
)

// LifecycleUseCase gobierna la máquina de estados de las operaciones de
// stock. Cada transición (Confirm, Validate, Cancel) corre como una única
// unidad de trabajo atómica: relee el estado de la operación bajo candado de
// fila (guarda compare-and-swap), ejecuta la reconciliación y avanza el
// estado; si algo falla a mitad de camino, la transacción revierte y el
// estado queda exactamente como antes de la llamada.
type LifecycleUseCase struct {
	tx       TxRunner
	notifier Notifier
}

// NewLifecycleUseCase construye el caso de uso del ciclo de vida.
func NewLifecycleUseCase(tx TxRunner, notifier Notifier) *LifecycleUseCase {
	return &LifecycleUseCase{tx: tx, notifier: notifier}
}

// Validate reconcilia las líneas de la operación contra las ediciones del
// caller y la lleva a VALIDATED. Para recepciones y compras materializa la
// porción validada; para traslados despacha los ítems recogidos (RESERVED →
// IN_TRANSIT) y sintetiza la recepción TRANSFERT en la bodega destino. La
// porción REPORTED pasa a una operación hija PENDING; la CANCELED se
// descarta definitivamente.
func (uc *LifecycleUseCase) Validate(ctx context.Context, operationID string, edits []stock.Edit, actor string) error {
	var (
		kind         string
		materialized int
		note         *TransferDispatchedNote
	)
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		op, err := r.Operations.GetByIDForUpdate(operationID)
		if err != nil {
			return err
		}
		if op == nil {
			return fmt.Errorf("%w: operación %s", domain.ErrNotFound, operationID)
		}
		kind = op.Kind

		switch op.Kind {
		case entity.OperationReception, entity.OperationPurchase:
			materialized, err = uc.validateInbound(r, op, edits, actor)
			return err
		case entity.OperationTransfer:
			note, err = uc.validateTransfer(r, op, edits, actor)
			return err
		default:
			return fmt.Errorf("%w: tipo de operación %q", domain.ErrInvalidInput, op.Kind)
		}
	})
	if err != nil {
		metrics.ReconcileRejections.WithLabelValues(metrics.RejectReason(err)).Inc()
		return err
	}
	metrics.OperationsValidated.WithLabelValues(kind).Inc()
	metrics.ItemsMaterialized.Add(float64(materialized))
	if note != nil && uc.notifier != nil {
		// Encolado después del commit: la entrega es best-effort y no puede
		// revertir el inventario.
		uc.notifier.TransferDispatched(*note)
	}
	return nil
}

// Confirm es la transición exclusiva de traslados: reconcilia lo solicitado
// contra lo físicamente recogido en la bodega origen. Si hay faltante genera
// (o actualiza) la compra vinculada y deja el traslado en AWAITING_PURCHASE;
// si no, queda CONFIRMED a la espera de la validación física.
func (uc *LifecycleUseCase) Confirm(ctx context.Context, operationID string, edits []stock.Edit, actor string) error {
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		op, err := r.Operations.GetByIDForUpdate(operationID)
		if err != nil {
			return err
		}
		if op == nil {
			return fmt.Errorf("%w: operación %s", domain.ErrNotFound, operationID)
		}
		if op.Kind != entity.OperationTransfer {
			return fmt.Errorf("%w: solo los traslados se confirman", domain.ErrInvalidTransition)
		}
		return uc.confirmTransfer(r, op, edits, actor)
	})
	if err != nil {
		metrics.ReconcileRejections.WithLabelValues(metrics.RejectReason(err)).Inc()
		return err
	}
	metrics.OperationsConfirmed.Inc()
	return nil
}

// Cancel marca la operación CANCELED. Solo es legal desde PENDING o
// CONFIRMED; desde cualquier otro estado falla con ErrInvalidTransition. Para
// un traslado confirmado, las unidades ya recogidas se revierten: pasan a
// PENDING_RECEPTION y se sintetiza una recepción CANCEL_TRANSFERT en la
// bodega origen para recibirlas de vuelta.
func (uc *LifecycleUseCase) Cancel(ctx context.Context, operationID, actor string) error {
	var kind string
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		op, err := r.Operations.GetByIDForUpdate(operationID)
		if err != nil {
			return err
		}
		if op == nil {
			return fmt.Errorf("%w: operación %s", domain.ErrNotFound, operationID)
		}
		kind = op.Kind
		return uc.cancelOperation(r, op, actor)
	})
	if err != nil {
		metrics.ReconcileRejections.WithLabelValues(metrics.RejectReason(err)).Inc()
		return err
	}
	metrics.OperationsCanceled.WithLabelValues(kind).Inc()
	return nil
}
