package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// SupplierCost es el último costo conocido de una variante con su proveedor,
// leído del historial de líneas de compra. Alimenta el generador de compras
// por faltante.
type SupplierCost struct {
	SupplierID *string
	UnitCost   decimal.Decimal
}

// OperationFilter filtros para listados de operaciones.
type OperationFilter struct {
	Kind        string
	Status      string
	WarehouseID string
}

// OperationRepository define el puerto de persistencia para operaciones de
// stock, sus líneas y sus comentarios (un agregado).
type OperationRepository interface {
	Create(op *entity.StockOperation) error
	GetByID(id string) (*entity.StockOperation, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE): es la guarda
	// compare-and-swap de las transiciones concurrentes.
	GetByIDForUpdate(id string) (*entity.StockOperation, error)
	// GetPendingPurchaseForTransfer devuelve la compra PENDING generada por
	// el faltante de un traslado, si existe (idempotencia del spawner).
	GetPendingPurchaseForTransfer(transferID string) (*entity.StockOperation, error)
	Update(op *entity.StockOperation) error
	List(filter OperationFilter, limit, offset int) ([]*entity.StockOperation, error)

	CreateLine(line *entity.OperationLine) error
	GetLines(operationID string) ([]*entity.OperationLine, error)
	UpdateLine(line *entity.OperationLine) error
	// LatestSupplierCost devuelve el costo y proveedor más recientes de la
	// variante según el historial de líneas, o nil si no hay historial.
	LatestSupplierCost(variantID string) (*SupplierCost, error)

	CreateComment(comment *entity.OperationComment) error
	ListComments(operationID string) ([]*entity.OperationComment, error)
}
