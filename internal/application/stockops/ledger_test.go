package stockops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/stockops"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Todo ajuste de variante se replica al snapshot agregado del producto.
func TestLedger_PartidaDobleVarianteProducto(t *testing.T) {
	w := newWorld()
	product, variant := w.addVariant("CAM-001-M")
	ledger := stockops.NewLedger(w.store.repos())

	require.NoError(t, ledger.Adjust(variant, entity.BucketAvailable, 3))

	snap := w.store.varSnaps[variant]
	require.NotNil(t, snap)
	assert.Equal(t, 3, snap.Available)
	prod := w.store.prodSnaps[product]
	require.NotNil(t, prod)
	assert.Equal(t, 3, prod.Available)
}

// Move conserva el total: lo que sale de un bucket entra al otro.
func TestLedger_MoveConservaTotal(t *testing.T) {
	w := newWorld()
	_, variant := w.addVariant("CAM-001-M")
	ledger := stockops.NewLedger(w.store.repos())
	require.NoError(t, ledger.Adjust(variant, entity.BucketAvailable, 5))

	require.NoError(t, ledger.Move(variant, entity.BucketAvailable, entity.BucketReserved, 2))

	snap := w.store.varSnaps[variant]
	assert.Equal(t, 3, snap.Available)
	assert.Equal(t, 2, snap.Reserved)
	assert.Equal(t, 5, snap.Total())
}

// Un bucket jamás queda negativo: el ajuste aborta con ErrNegativeBalance.
func TestLedger_SaldoNegativoAborta(t *testing.T) {
	w := newWorld()
	_, variant := w.addVariant("CAM-001-M")
	ledger := stockops.NewLedger(w.store.repos())
	require.NoError(t, ledger.Adjust(variant, entity.BucketAvailable, 1))

	err := ledger.Adjust(variant, entity.BucketAvailable, -2)
	assert.ErrorIs(t, err, domain.ErrNegativeBalance)

	err = ledger.Move(variant, entity.BucketReserved, entity.BucketAvailable, 1)
	assert.ErrorIs(t, err, domain.ErrNegativeBalance)
}

// Ajustar una variante inexistente falla en vez de crear contadores huérfanos.
func TestLedger_VarianteInexistente(t *testing.T) {
	w := newWorld()
	ledger := stockops.NewLedger(w.store.repos())

	err := ledger.Adjust("no-existe", entity.BucketAvailable, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
