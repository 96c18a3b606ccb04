package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/stock"
)

// Una recepción SUPPLY (sin orden) deja los ítems disponibles en RECEPTION.
func TestPlacementFor_RecepcionSupply(t *testing.T) {
	p := stock.PlacementFor(entity.OperationReception, entity.ReceptionSupply, false)
	assert.Equal(t, entity.ItemToStore, p.ItemStatus)
	assert.Equal(t, entity.StateAvailable, p.ItemState)
	assert.Equal(t, entity.BucketAvailable, p.Bucket)
	assert.Equal(t, entity.LocationTypeReception, p.LocationType)
}

// Una recepción ligada a una orden reserva los ítems en PREPARATION.
func TestPlacementFor_RecepcionConOrden(t *testing.T) {
	p := stock.PlacementFor(entity.OperationReception, entity.ReceptionOrder, true)
	assert.Equal(t, entity.ItemToPickPack, p.ItemStatus)
	assert.Equal(t, entity.StateReserved, p.ItemState)
	assert.Equal(t, entity.BucketReserved, p.Bucket)
	assert.Equal(t, entity.LocationTypePreparation, p.LocationType)
}

// Una compra se comporta como una recepción sin orden.
func TestPlacementFor_Compra(t *testing.T) {
	p := stock.PlacementFor(entity.OperationPurchase, "", false)
	assert.Equal(t, entity.StateAvailable, p.ItemState)
	assert.Equal(t, entity.BucketAvailable, p.Bucket)
	assert.Equal(t, entity.LocationTypeReception, p.LocationType)
}
