package stockops_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/stockops"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/stock"
)

const actor = "tester"

func (w *world) linesOf(t *testing.T, opID string) []*entity.OperationLine {
	t.Helper()
	lines, err := w.store.repos().Operations.GetLines(opID)
	require.NoError(t, err)
	return lines
}

func (w *world) newReception(t *testing.T, warehouseID, variantID string, qty int) *entity.StockOperation {
	t.Helper()
	op, err := w.create.CreateReception(context.Background(), stockops.CreateReceptionInput{
		Subtype:     entity.ReceptionSupply,
		WarehouseID: warehouseID,
		Lines:       []stockops.LineInput{{VariantID: variantID, Quantity: qty, UnitCost: decimal.NewFromInt(15)}},
	}, actor)
	require.NoError(t, err)
	return op
}

func (w *world) newTransfer(t *testing.T, sourceID, targetID, variantID string, qty int) *entity.StockOperation {
	t.Helper()
	supplier := uuid.New().String()
	op, err := w.create.CreateTransfer(context.Background(), stockops.CreateTransferInput{
		SourceWarehouseID: sourceID,
		TargetWarehouseID: targetID,
		Lines: []stockops.LineInput{{
			VariantID: variantID, Quantity: qty,
			UnitCost: decimal.NewFromInt(15), SupplierID: &supplier,
		}},
	}, actor)
	require.NoError(t, err)
	return op
}

// edit arma la edición de reconciliación de una línea.
func edit(lineID string, qty int, state string) stock.Edit {
	return stock.Edit{LineID: lineID, Quantity: qty, State: state}
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de recepciones y compras (materialización)
// ──────────────────────────────────────────────────────────────────────────────

// Validar una recepción 7/3 materializa 7 ítems disponibles y difiere 3 a una
// recepción hija PENDING.
func TestValidarRecepcion_MaterializaYDifiere(t *testing.T) {
	w := newWorld()
	wh := w.addWarehouse("Central")
	_, variant := w.addVariant("CAM-001-M")
	op := w.newReception(t, wh, variant, 10)
	lines := w.linesOf(t, op.ID)

	err := w.lifecycle.Validate(context.Background(), op.ID, []stock.Edit{
		edit(lines[0].ID, 7, entity.LineValidated),
		edit(lines[0].ID, 3, entity.LineReported),
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusValidated, op.Status)
	require.NotNil(t, op.ValidatedBy)
	assert.Equal(t, actor, *op.ValidatedBy)
	assert.Equal(t, 7, w.itemsInState(variant, entity.StateAvailable))

	snap := w.store.varSnaps[variant]
	require.NotNil(t, snap)
	assert.Equal(t, 7, snap.Available)
	assert.Equal(t, 7, snap.Total())

	// Los ítems quedan en la ubicación RECEPTION por defecto, con su contador.
	loc, err := w.store.repos().Locations.GetDefault(wh, entity.LocationTypeReception)
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, 7, loc.TotalItems)

	// La porción diferida vive en una hija PENDING encadenada a la madre.
	require.NotNil(t, op.ChildID)
	child := w.store.operations[*op.ChildID]
	require.NotNil(t, child)
	assert.Equal(t, entity.StatusPending, child.Status)
	assert.Equal(t, entity.OperationReception, child.Kind)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, op.ID, *child.ParentID)
	childLines := w.linesOf(t, child.ID)
	require.Len(t, childLines, 1)
	assert.Equal(t, 3, childLines[0].Quantity)
	assert.Equal(t, entity.LinePending, childLines[0].State)

	// Un movimiento IN automático por ítem materializado.
	movs, err := w.store.repos().Movements.ListByOperation(op.ID, 100, 0)
	require.NoError(t, err)
	require.Len(t, movs, 7)
	for _, m := range movs {
		assert.Equal(t, entity.MovementIn, m.Direction)
		assert.Equal(t, entity.TriggerAuto, m.Trigger)
	}
}

// Una recepción ligada a una orden reserva los ítems para picking y avanza la
// orden a TO_RECEIVE.
func TestValidarRecepcionConOrden_ReservaYAvanzaOrden(t *testing.T) {
	w := newWorld()
	wh := w.addWarehouse("Central")
	_, variant := w.addVariant("CAM-001-L")
	orderID := uuid.New().String()
	w.store.orders[orderID] = &entity.Order{
		ID: orderID, Reference: "ORD-001", WarehouseID: wh,
		Status: entity.OrderStatusOpen, Step: entity.OrderStepToPrepare,
	}

	op, err := w.create.CreateReception(context.Background(), stockops.CreateReceptionInput{
		Subtype:     entity.ReceptionOrder,
		WarehouseID: wh,
		OrderID:     &orderID,
		Lines:       []stockops.LineInput{{VariantID: variant, Quantity: 4, UnitCost: decimal.NewFromInt(15)}},
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStepPreparing, w.store.orders[orderID].Step)

	lines := w.linesOf(t, op.ID)
	err = w.lifecycle.Validate(context.Background(), op.ID, []stock.Edit{
		edit(lines[0].ID, 4, entity.LineValidated),
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, 4, w.itemsInState(variant, entity.StateReserved))
	assert.Equal(t, 4, w.store.varSnaps[variant].Reserved)
	assert.Zero(t, w.store.varSnaps[variant].Available)

	loc, err := w.store.repos().Locations.GetDefault(wh, entity.LocationTypePreparation)
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, 4, loc.TotalItems)

	assert.Equal(t, entity.OrderStepToReceive, w.store.orders[orderID].Step)
}

// La guarda compare-and-swap: validar dos veces falla la segunda.
func TestValidarDosVeces_TransicionInvalida(t *testing.T) {
	w := newWorld()
	wh := w.addWarehouse("Central")
	_, variant := w.addVariant("CAM-001-S")
	op := w.newReception(t, wh, variant, 2)
	lines := w.linesOf(t, op.ID)
	edits := []stock.Edit{edit(lines[0].ID, 2, entity.LineValidated)}

	require.NoError(t, w.lifecycle.Validate(context.Background(), op.ID, edits, actor))
	err := w.lifecycle.Validate(context.Background(), op.ID, edits, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Cancelar todo el lote vía Validate se rechaza antes de tocar nada.
func TestValidar_TodoCancelado_Rechazado(t *testing.T) {
	w := newWorld()
	wh := w.addWarehouse("Central")
	_, variant := w.addVariant("CAM-001-S")
	op := w.newReception(t, wh, variant, 5)
	lines := w.linesOf(t, op.ID)

	err := w.lifecycle.Validate(context.Background(), op.ID, []stock.Edit{
		edit(lines[0].ID, 5, entity.LineCanceled),
	}, actor)
	assert.ErrorIs(t, err, domain.ErrAllLinesCanceled)
	assert.Equal(t, entity.StatusPending, op.Status)
	assert.Empty(t, w.store.items)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirmación de traslados (recogida en origen)
// ──────────────────────────────────────────────────────────────────────────────

// Confirmar con stock suficiente reserva los ítems dentro del contenedor del
// traslado: sin ubicación, estado RESERVED, paso PICKED_UP.
func TestConfirmarTraslado_RecogeTodo(t *testing.T) {
	w := newWorld()
	source := w.addWarehouse("Central")
	target := w.addWarehouse("Norte")
	_, variant := w.addVariant("CAM-001-M")
	w.seedAvailable(variant, source, 5)
	op := w.newTransfer(t, source, target, variant, 5)
	lines := w.linesOf(t, op.ID)

	err := w.lifecycle.Confirm(context.Background(), op.ID, []stock.Edit{
		edit(lines[0].ID, 5, entity.LineValidated),
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusConfirmed, op.Status)
	assert.Equal(t, 5, w.itemsInState(variant, entity.StateReserved))
	assert.Zero(t, w.itemsInState(variant, entity.StateAvailable))
	assert.Equal(t, 5, w.store.varSnaps[variant].Reserved)
	assert.Zero(t, w.store.varSnaps[variant].Available)

	for _, it := range w.store.items {
		assert.Nil(t, it.LocationID)
		assert.Equal(t, entity.ItemPickedUp, it.Status)
		assert.Equal(t, op.ID, it.OperationID)
	}

	// El contador de la ubicación de origen bajó a cero.
	loc, err := w.store.repos().Locations.GetDefault(source, entity.LocationTypeReception)
	require.NoError(t, err)
	assert.Zero(t, loc.TotalItems)
}

// El faltante parte la línea (recogido VALIDATED + remanente REPORTED) y
// genera la compra vinculada; el traslado queda AWAITING_PURCHASE.
func TestConfirmarTraslado_FaltanteGeneraCompra(t *testing.T) {
	w := newWorld()
	source := w.addWarehouse("Central")
	target := w.addWarehouse("Norte")
	_, variant := w.addVariant("CAM-001-M")
	w.seedAvailable(variant, source, 3)
	op := w.newTransfer(t, source, target, variant, 10)
	lines := w.linesOf(t, op.ID)

	err := w.lifecycle.Confirm(context.Background(), op.ID, []stock.Edit{
		edit(lines[0].ID, 3, entity.LineValidated),
		edit(lines[0].ID, 7, entity.LineReported),
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusAwaitingPurchase, op.Status)
	assert.Equal(t, 3, w.itemsInState(variant, entity.StateReserved))

	after := w.linesOf(t, op.ID)
	require.Len(t, after, 2)
	assert.Equal(t, entity.LineValidated, after[0].State)
	assert.Equal(t, 3, after[0].Quantity)
	assert.Equal(t, entity.LineReported, after[1].State)
	assert.Equal(t, 7, after[1].Quantity)

	purchase, err := w.store.repos().Operations.GetPendingPurchaseForTransfer(op.ID)
	require.NoError(t, err)
	require.NotNil(t, purchase)
	assert.Equal(t, entity.OperationPurchase, purchase.Kind)
	assert.Equal(t, entity.StatusPending, purchase.Status)
	purchaseLines := w.linesOf(t, purchase.ID)
	require.Len(t, purchaseLines, 1)
	assert.Equal(t, 7, purchaseLines[0].Quantity)
	assert.Equal(t, variant, purchaseLines[0].VariantID)
}

// Pedir más de lo físicamente disponible en origen falla.
func TestConfirmarTraslado_StockInsuficiente(t *testing.T) {
	w := newWorld()
	source := w.addWarehouse("Central")
	target := w.addWarehouse("Norte")
	_, variant := w.addVariant("CAM-001-M")
	w.seedAvailable(variant, source, 3)
	op := w.newTransfer(t, source, target, variant, 5)
	lines := w.linesOf(t, op.ID)

	err := w.lifecycle.Confirm(context.Background(), op.ID, []stock.Edit{
		edit(lines[0].ID, 5, entity.LineValidated),
	}, actor)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Confirm es exclusivo de traslados.
func TestConfirmarRecepcion_Rechazada(t *testing.T) {
	w := newWorld()
	wh := w.addWarehouse("Central")
	_, variant := w.addVariant("CAM-001-M")
	op := w.newReception(t, wh, variant, 1)
	lines := w.linesOf(t, op.ID)

	err := w.lifecycle.Confirm(context.Background(), op.ID, []stock.Edit{
		edit(lines[0].ID, 1, entity.LineValidated),
	}, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de traslados (despacho) y adopción en destino
// ──────────────────────────────────────────────────────────────────────────────

// confirmAll deja el traslado CONFIRMED con toda la cantidad recogida.
func confirmAll(t *testing.T, w *world, op *entity.StockOperation, qty int) {
	t.Helper()
	lines := w.linesOf(t, op.ID)
	require.NoError(t, w.lifecycle.Confirm(context.Background(), op.ID, []stock.Edit{
		edit(lines[0].ID, qty, entity.LineValidated),
	}, actor))
	require.Equal(t, entity.StatusConfirmed, op.Status)
}

// Validar un traslado confirmado despacha los ítems al tránsito, sintetiza la
// recepción TRANSFERT en destino y encola la nota de despacho.
func TestValidarTraslado_DespachaYSintetizaRecepcion(t *testing.T) {
	w := newWorld()
	source := w.addWarehouse("Central")
	target := w.addWarehouse("Norte")
	_, variant := w.addVariant("CAM-001-M")
	w.seedAvailable(variant, source, 5)
	op := w.newTransfer(t, source, target, variant, 5)
	confirmAll(t, w, op, 5)

	lines := w.linesOf(t, op.ID)
	err := w.lifecycle.Validate(context.Background(), op.ID, []stock.Edit{
		edit(lines[0].ID, 5, entity.LineValidated),
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusValidated, op.Status)
	assert.Equal(t, 5, w.itemsInState(variant, entity.StateInTransit))
	assert.Equal(t, 5, w.store.varSnaps[variant].InTransit)
	assert.Zero(t, w.store.varSnaps[variant].Reserved)

	reception := w.findOperation(func(o *entity.StockOperation) bool {
		return o.Subtype == entity.ReceptionTransfert
	})
	require.NotNil(t, reception)
	assert.Equal(t, entity.StatusPending, reception.Status)
	require.NotNil(t, reception.WarehouseID)
	assert.Equal(t, target, *reception.WarehouseID)
	require.NotNil(t, reception.TransferID)
	assert.Equal(t, op.ID, *reception.TransferID)
	recLines := w.linesOf(t, reception.ID)
	require.Len(t, recLines, 1)
	assert.Equal(t, 5, recLines[0].Quantity)
	assert.Equal(t, entity.LinePending, recLines[0].State)

	require.Len(t, w.notifier.notes, 1)
	note := w.notifier.notes[0]
	assert.Equal(t, op.Reference, note.TransferReference)
	assert.Equal(t, reception.Reference, note.ReceptionReference)
	assert.Equal(t, "Central", note.SourceWarehouse)
	assert.Equal(t, "Norte", note.TargetWarehouse)
	assert.Equal(t, 5, note.Units)
}

// El despacho parcial devuelve el remanente al stock del origen y lo difiere a
// un traslado hijo.
func TestValidarTraslado_ParcialDevuelveYDifiere(t *testing.T) {
	w := newWorld()
	source := w.addWarehouse("Central")
	target := w.addWarehouse("Norte")
	_, variant := w.addVariant("CAM-001-M")
	w.seedAvailable(variant, source, 5)
	op := w.newTransfer(t, source, target, variant, 5)
	confirmAll(t, w, op, 5)

	lines := w.linesOf(t, op.ID)
	err := w.lifecycle.Validate(context.Background(), op.ID, []stock.Edit{
		edit(lines[0].ID, 3, entity.LineValidated),
		edit(lines[0].ID, 2, entity.LineReported),
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, 3, w.itemsInState(variant, entity.StateInTransit))
	assert.Equal(t, 2, w.itemsInState(variant, entity.StateAvailable))
	assert.Equal(t, 2, w.store.varSnaps[variant].Available)

	require.NotNil(t, op.ChildID)
	child := w.store.operations[*op.ChildID]
	require.NotNil(t, child)
	assert.Equal(t, entity.OperationTransfer, child.Kind)
	childLines := w.linesOf(t, child.ID)
	require.Len(t, childLines, 1)
	assert.Equal(t, 2, childLines[0].Quantity)
}

// La validación de la recepción TRANSFERT adopta los ítems en tránsito: no
// materializa unidades nuevas.
func TestRecepcionTransfert_AdoptaItems(t *testing.T) {
	w := newWorld()
	source := w.addWarehouse("Central")
	target := w.addWarehouse("Norte")
	_, variant := w.addVariant("CAM-001-M")
	w.seedAvailable(variant, source, 5)
	op := w.newTransfer(t, source, target, variant, 5)
	confirmAll(t, w, op, 5)
	lines := w.linesOf(t, op.ID)
	require.NoError(t, w.lifecycle.Validate(context.Background(), op.ID, []stock.Edit{
		edit(lines[0].ID, 5, entity.LineValidated),
	}, actor))

	reception := w.findOperation(func(o *entity.StockOperation) bool {
		return o.Subtype == entity.ReceptionTransfert
	})
	require.NotNil(t, reception)
	recLines := w.linesOf(t, reception.ID)

	before := len(w.store.items)
	err := w.lifecycle.Validate(context.Background(), reception.ID, []stock.Edit{
		edit(recLines[0].ID, 5, entity.LineValidated),
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusValidated, reception.Status)
	assert.Equal(t, before, len(w.store.items), "la adopción no crea ítems nuevos")
	assert.Equal(t, 5, w.itemsInState(variant, entity.StateAvailable))
	assert.Zero(t, w.store.varSnaps[variant].InTransit)
	assert.Equal(t, 5, w.store.varSnaps[variant].Available)

	// Los ítems quedan vinculados a la recepción y ubicados en destino.
	loc, err := w.store.repos().Locations.GetDefault(target, entity.LocationTypeReception)
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, 5, loc.TotalItems)
	for _, it := range w.store.items {
		assert.Equal(t, reception.ID, it.OperationID)
		require.NotNil(t, it.LocationID)
		assert.Equal(t, loc.ID, *it.LocationID)
	}
}

// Las unidades perdidas en tránsito se cancelan en destino: salen del
// inventario definitivamente.
func TestRecepcionTransfert_CancelaUnidadesPerdidas(t *testing.T) {
	w := newWorld()
	source := w.addWarehouse("Central")
	target := w.addWarehouse("Norte")
	_, variant := w.addVariant("CAM-001-M")
	w.seedAvailable(variant, source, 4)
	op := w.newTransfer(t, source, target, variant, 4)
	confirmAll(t, w, op, 4)
	lines := w.linesOf(t, op.ID)
	require.NoError(t, w.lifecycle.Validate(context.Background(), op.ID, []stock.Edit{
		edit(lines[0].ID, 4, entity.LineValidated),
	}, actor))

	reception := w.findOperation(func(o *entity.StockOperation) bool {
		return o.Subtype == entity.ReceptionTransfert
	})
	recLines := w.linesOf(t, reception.ID)
	err := w.lifecycle.Validate(context.Background(), reception.ID, []stock.Edit{
		edit(recLines[0].ID, 3, entity.LineValidated),
		edit(recLines[0].ID, 1, entity.LineCanceled),
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, 3, w.itemsInState(variant, entity.StateAvailable))
	assert.Equal(t, 1, w.itemsInState(variant, entity.StateRetired))
	snap := w.store.varSnaps[variant]
	assert.Equal(t, 3, snap.Available)
	assert.Zero(t, snap.InTransit)
	assert.Equal(t, 3, snap.Total(), "la unidad retirada ya no cuenta en ningún bucket")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación
// ──────────────────────────────────────────────────────────────────────────────

// Cancelar un traslado confirmado devuelve la mercancía recogida por la vía de
// una recepción CANCEL_TRANSFERT en origen; validarla la readmite.
func TestCancelarTrasladoConfirmado_ReversaCompleta(t *testing.T) {
	w := newWorld()
	source := w.addWarehouse("Central")
	target := w.addWarehouse("Norte")
	_, variant := w.addVariant("CAM-001-M")
	w.seedAvailable(variant, source, 5)
	op := w.newTransfer(t, source, target, variant, 5)
	confirmAll(t, w, op, 5)

	require.NoError(t, w.lifecycle.Cancel(context.Background(), op.ID, actor))
	assert.Equal(t, entity.StatusCanceled, op.Status)
	require.NotNil(t, op.CanceledBy)
	assert.Equal(t, actor, *op.CanceledBy)
	assert.Equal(t, 5, w.itemsInState(variant, entity.StatePendingReception))
	assert.Equal(t, 5, w.store.varSnaps[variant].PendingReception)

	reversal := w.findOperation(func(o *entity.StockOperation) bool {
		return o.Subtype == entity.ReceptionCancelTransfert
	})
	require.NotNil(t, reversal)
	assert.Equal(t, entity.StatusPending, reversal.Status)
	require.NotNil(t, reversal.WarehouseID)
	assert.Equal(t, source, *reversal.WarehouseID)
	require.NotNil(t, reversal.TransferID)
	assert.Equal(t, op.ID, *reversal.TransferID)

	// Recibir la reversa adopta los ítems de vuelta al stock disponible.
	revLines := w.linesOf(t, reversal.ID)
	require.Len(t, revLines, 1)
	require.NoError(t, w.lifecycle.Validate(context.Background(), reversal.ID, []stock.Edit{
		edit(revLines[0].ID, 5, entity.LineValidated),
	}, actor))
	assert.Equal(t, 5, w.itemsInState(variant, entity.StateAvailable))
	assert.Equal(t, 5, w.store.varSnaps[variant].Available)
	assert.Zero(t, w.store.varSnaps[variant].PendingReception)
}

// Cancelar una recepción PENDING ligada a una orden la devuelve a preparación.
func TestCancelarRecepcionPendiente_ReiniciaOrden(t *testing.T) {
	w := newWorld()
	wh := w.addWarehouse("Central")
	_, variant := w.addVariant("CAM-001-M")
	orderID := uuid.New().String()
	w.store.orders[orderID] = &entity.Order{
		ID: orderID, Reference: "ORD-002", WarehouseID: wh,
		Status: entity.OrderStatusOpen, Step: entity.OrderStepToPrepare,
	}
	op, err := w.create.CreateReception(context.Background(), stockops.CreateReceptionInput{
		Subtype:     entity.ReceptionOrder,
		WarehouseID: wh,
		OrderID:     &orderID,
		Lines:       []stockops.LineInput{{VariantID: variant, Quantity: 2, UnitCost: decimal.NewFromInt(15)}},
	}, actor)
	require.NoError(t, err)

	require.NoError(t, w.lifecycle.Cancel(context.Background(), op.ID, actor))
	assert.Equal(t, entity.StatusCanceled, op.Status)
	for _, l := range w.linesOf(t, op.ID) {
		assert.Equal(t, entity.LineCanceled, l.State)
	}
	assert.Equal(t, entity.OrderStepToPrepare, w.store.orders[orderID].Step)
	assert.Empty(t, w.store.items)
}

// Una operación validada ya es terminal.
func TestCancelarOperacionValidada_Rechazada(t *testing.T) {
	w := newWorld()
	wh := w.addWarehouse("Central")
	_, variant := w.addVariant("CAM-001-M")
	op := w.newReception(t, wh, variant, 1)
	lines := w.linesOf(t, op.ID)
	require.NoError(t, w.lifecycle.Validate(context.Background(), op.ID, []stock.Edit{
		edit(lines[0].ID, 1, entity.LineValidated),
	}, actor))

	err := w.lifecycle.Cancel(context.Background(), op.ID, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Un traslado AWAITING_PURCHASE debe resolverse con su compra, no cancelarse.
func TestCancelarTrasladoConCompraPendiente_Rechazado(t *testing.T) {
	w := newWorld()
	source := w.addWarehouse("Central")
	target := w.addWarehouse("Norte")
	_, variant := w.addVariant("CAM-001-M")
	op := w.newTransfer(t, source, target, variant, 5)
	lines := w.linesOf(t, op.ID)
	require.NoError(t, w.lifecycle.Confirm(context.Background(), op.ID, []stock.Edit{
		edit(lines[0].ID, 5, entity.LineReported),
	}, actor))
	require.Equal(t, entity.StatusAwaitingPurchase, op.Status)

	err := w.lifecycle.Cancel(context.Background(), op.ID, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconfirmación tras la llegada de la compra
// ──────────────────────────────────────────────────────────────────────────────

// El ciclo completo del faltante: la compra llega, se valida, y la
// reconfirmación del traslado recoge el remanente REPORTED.
func TestReconfirmarTraslado_TrasLlegadaDeCompra(t *testing.T) {
	w := newWorld()
	source := w.addWarehouse("Central")
	target := w.addWarehouse("Norte")
	_, variant := w.addVariant("CAM-001-M")
	w.seedAvailable(variant, source, 3)
	op := w.newTransfer(t, source, target, variant, 10)
	lines := w.linesOf(t, op.ID)
	require.NoError(t, w.lifecycle.Confirm(context.Background(), op.ID, []stock.Edit{
		edit(lines[0].ID, 3, entity.LineValidated),
		edit(lines[0].ID, 7, entity.LineReported),
	}, actor))

	purchase, err := w.store.repos().Operations.GetPendingPurchaseForTransfer(op.ID)
	require.NoError(t, err)
	require.NotNil(t, purchase)
	purchaseLines := w.linesOf(t, purchase.ID)
	require.NoError(t, w.lifecycle.Validate(context.Background(), purchase.ID, []stock.Edit{
		edit(purchaseLines[0].ID, 7, entity.LineValidated),
	}, actor))
	assert.Equal(t, 7, w.store.varSnaps[variant].Available)

	// Reconfirmar reconcilia las líneas REPORTED contra el stock recién llegado.
	after := w.linesOf(t, op.ID)
	reported := after[len(after)-1]
	require.Equal(t, entity.LineReported, reported.State)
	require.NoError(t, w.lifecycle.Confirm(context.Background(), op.ID, []stock.Edit{
		edit(reported.ID, 7, entity.LineValidated),
	}, actor))

	assert.Equal(t, entity.StatusConfirmed, op.Status)
	assert.Equal(t, 10, w.itemsInState(variant, entity.StateReserved))
	assert.Zero(t, w.store.varSnaps[variant].Available)
	assert.Equal(t, 10, w.store.varSnaps[variant].Reserved)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes manuales
// ──────────────────────────────────────────────────────────────────────────────

// El ciclo de un descubierto: registrado en el bucket discovered, confirmado a
// disponible.
func TestAjusteDescubiertos_RegistroYConfirmacion(t *testing.T) {
	w := newWorld()
	wh := w.addWarehouse("Central")
	_, variant := w.addVariant("CAM-001-M")

	items, err := w.adjust.RegisterDiscovered(context.Background(), stockops.DiscoveredInput{
		VariantID:   variant,
		WarehouseID: wh,
		Quantity:    2,
		UnitCost:    decimal.NewFromInt(8),
	}, actor)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, w.store.varSnaps[variant].Discovered)
	assert.Equal(t, 2, w.itemsInState(variant, entity.StateDiscovered))

	// Los movimientos de ajuste llevan disparador MANUAL y causa INVENTORY.
	movs, err := w.store.repos().Movements.ListByItem(items[0].ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.TriggerManual, movs[0].Trigger)
	assert.Equal(t, entity.CauseInventory, movs[0].Cause)

	require.NoError(t, w.adjust.ConfirmDiscovered(context.Background(), items[0].ID, actor))
	assert.Equal(t, 1, w.store.varSnaps[variant].Discovered)
	assert.Equal(t, 1, w.store.varSnaps[variant].Available)

	// Confirmar dos veces el mismo ítem falla.
	err = w.adjust.ConfirmDiscovered(context.Background(), items[0].ID, actor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
