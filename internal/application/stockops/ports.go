// Package stockops implementa el motor de operaciones de stock: el libro de
// cantidades, el rastreador de ubicaciones, el materializador de ítems, el
// motor de reconciliación de líneas y la máquina de estados del ciclo de vida
// (confirmar / validar / cancelar). Toda transición corre como una unidad de
// trabajo atómica a través del TxRunner.
package stockops

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción. El motor
// solo toca persistencia a través de este paquete de puertos.
type TxRepos struct {
	Operations repository.OperationRepository
	Items      repository.ItemRepository
	Snapshots  repository.SnapshotRepository
	Locations  repository.LocationRepository
	Movements  repository.MovementRepository
	Products   repository.ProductRepository
	Warehouses repository.WarehouseRepository
	Orders     repository.OrderRepository
	Refs       ReferenceProvider
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor: o se
// aplican todas las mutaciones de la transición o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}

// ReferenceProvider entrega referencias legibles únicas y códigos de barras
// para operaciones, ítems y ubicaciones. El motor lo trata como una
// dependencia síncrona opaca.
type ReferenceProvider interface {
	NextOperationReference(kind string) (string, error)
	NextItemReference() (ref string, barcode int64, err error)
	NextLocationReference(defaultType string) (ref string, barcode int64, err error)
}

// TransferDispatchedNote es el mensaje estructurado que se encola al validar
// un traslado: la bodega destino tiene mercancía en camino.
type TransferDispatchedNote struct {
	TransferReference  string
	ReceptionReference string
	SourceWarehouse    string
	TargetWarehouse    string
	Units              int
}

// Notifier despacha notificaciones best-effort, desacopladas de la
// transacción: se encolan después del commit y su fallo jamás revierte el
// inventario.
type Notifier interface {
	TransferDispatched(note TransferDispatchedNote)
}
