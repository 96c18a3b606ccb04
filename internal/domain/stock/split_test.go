package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/stock"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func line(id string, pos, qty int) *entity.OperationLine {
	return &entity.OperationLine{
		ID:       id,
		Position: pos,
		Quantity: qty,
		State:    entity.LinePending,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Particiones válidas
// ──────────────────────────────────────────────────────────────────────────────

// Todo validado tal cual se pidió.
func TestSplitEdits_TodoValidado(t *testing.T) {
	lines := []*entity.OperationLine{line("l1", 1, 5)}
	splits, err := stock.SplitEdits(lines, []stock.Edit{
		{LineID: "l1", Quantity: 5, State: entity.LineValidated},
	})
	require.NoError(t, err)
	require.Len(t, splits, 1)
	assert.Equal(t, 5, splits[0].Validated)
	assert.Zero(t, splits[0].Reported)
	assert.Zero(t, splits[0].Canceled)
}

// Una línea de 10 partida 7 validadas / 3 diferidas.
func TestSplitEdits_ParticionValidadoMasDiferido(t *testing.T) {
	lines := []*entity.OperationLine{line("l1", 1, 10)}
	splits, err := stock.SplitEdits(lines, []stock.Edit{
		{LineID: "l1", Quantity: 7, State: entity.LineValidated},
		{LineID: "l1", Quantity: 3, State: entity.LineReported},
	})
	require.NoError(t, err)
	require.Len(t, splits, 1)
	assert.Equal(t, 7, splits[0].Validated)
	assert.Equal(t, 3, splits[0].Reported)
}

// Partición a tres destinos sobre la misma línea.
func TestSplitEdits_TresDestinos(t *testing.T) {
	lines := []*entity.OperationLine{line("l1", 1, 10)}
	splits, err := stock.SplitEdits(lines, []stock.Edit{
		{LineID: "l1", Quantity: 5, State: entity.LineValidated},
		{LineID: "l1", Quantity: 3, State: entity.LineReported},
		{LineID: "l1", Quantity: 2, State: entity.LineCanceled},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, splits[0].Validated)
	assert.Equal(t, 3, splits[0].Reported)
	assert.Equal(t, 2, splits[0].Canceled)
}

// El resultado sale ordenado por posición de línea, no por orden de edición.
func TestSplitEdits_OrdenadoPorPosicion(t *testing.T) {
	lines := []*entity.OperationLine{line("l2", 2, 1), line("l1", 1, 1)}
	splits, err := stock.SplitEdits(lines, []stock.Edit{
		{LineID: "l2", Quantity: 1, State: entity.LineValidated},
		{LineID: "l1", Quantity: 1, State: entity.LineValidated},
	})
	require.NoError(t, err)
	require.Len(t, splits, 2)
	assert.Equal(t, "l1", splits[0].Line.ID)
	assert.Equal(t, "l2", splits[1].Line.ID)
}

// Cancelar una línea completa es legal mientras otra quede viva.
func TestSplitEdits_CancelarUnaLineaConOtraViva(t *testing.T) {
	lines := []*entity.OperationLine{line("l1", 1, 4), line("l2", 2, 6)}
	splits, err := stock.SplitEdits(lines, []stock.Edit{
		{LineID: "l1", Quantity: 4, State: entity.LineCanceled},
		{LineID: "l2", Quantity: 6, State: entity.LineValidated},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, splits[0].Canceled)
	assert.Equal(t, 6, splits[1].Validated)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazos
// ──────────────────────────────────────────────────────────────────────────────

func TestSplitEdits_LoteVacio(t *testing.T) {
	_, err := stock.SplitEdits([]*entity.OperationLine{line("l1", 1, 5)}, nil)
	assert.ErrorIs(t, err, domain.ErrQuantityMismatch)
}

// Las cantidades editadas deben sumar exactamente lo solicitado.
func TestSplitEdits_CantidadNoCuadra(t *testing.T) {
	lines := []*entity.OperationLine{line("l1", 1, 10)}
	_, err := stock.SplitEdits(lines, []stock.Edit{
		{LineID: "l1", Quantity: 7, State: entity.LineValidated},
	})
	assert.ErrorIs(t, err, domain.ErrQuantityMismatch)

	_, err = stock.SplitEdits(lines, []stock.Edit{
		{LineID: "l1", Quantity: 12, State: entity.LineValidated},
	})
	assert.ErrorIs(t, err, domain.ErrQuantityMismatch)
}

// Toda línea reconciliable debe estar cubierta por alguna edición.
func TestSplitEdits_LineaSinEdicion(t *testing.T) {
	lines := []*entity.OperationLine{line("l1", 1, 5), line("l2", 2, 3)}
	_, err := stock.SplitEdits(lines, []stock.Edit{
		{LineID: "l1", Quantity: 5, State: entity.LineValidated},
	})
	assert.ErrorIs(t, err, domain.ErrQuantityMismatch)
}

// Cancelar todo el lote no es una reconciliación: existe Cancel para eso.
func TestSplitEdits_TodoCancelado(t *testing.T) {
	lines := []*entity.OperationLine{line("l1", 1, 5), line("l2", 2, 3)}
	_, err := stock.SplitEdits(lines, []stock.Edit{
		{LineID: "l1", Quantity: 5, State: entity.LineCanceled},
		{LineID: "l2", Quantity: 3, State: entity.LineCanceled},
	})
	assert.ErrorIs(t, err, domain.ErrAllLinesCanceled)
}

// Una edición sobre una línea ajena a la operación.
func TestSplitEdits_LineaAjena(t *testing.T) {
	lines := []*entity.OperationLine{line("l1", 1, 5)}
	_, err := stock.SplitEdits(lines, []stock.Edit{
		{LineID: "otra", Quantity: 5, State: entity.LineValidated},
	})
	assert.ErrorIs(t, err, domain.ErrInconsistentReference)
}

// PENDING no es un resultado de reconciliación.
func TestSplitEdits_EstadoPendingRechazado(t *testing.T) {
	lines := []*entity.OperationLine{line("l1", 1, 5)}
	_, err := stock.SplitEdits(lines, []stock.Edit{
		{LineID: "l1", Quantity: 5, State: entity.LinePending},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Cantidad cero solo es legal emparejada con CANCELED.
func TestSplitEdits_CantidadCero(t *testing.T) {
	lines := []*entity.OperationLine{line("l1", 1, 5)}
	_, err := stock.SplitEdits(lines, []stock.Edit{
		{LineID: "l1", Quantity: 0, State: entity.LineValidated},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = stock.SplitEdits(lines, []stock.Edit{
		{LineID: "l1", Quantity: 0, State: entity.LineReported},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// CANCELED con cero acompañando al resto validado sí pasa.
	splits, err := stock.SplitEdits(lines, []stock.Edit{
		{LineID: "l1", Quantity: 0, State: entity.LineCanceled},
		{LineID: "l1", Quantity: 5, State: entity.LineValidated},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, splits[0].Validated)
}

func TestSplitEdits_EstadoDesconocido(t *testing.T) {
	lines := []*entity.OperationLine{line("l1", 1, 5)}
	_, err := stock.SplitEdits(lines, []stock.Edit{
		{LineID: "l1", Quantity: 5, State: "PERDIDO"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
