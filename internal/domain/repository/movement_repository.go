package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// MovementRepository define el puerto del registro de movimientos de stock.
// Es append-only a propósito: no existen métodos de actualización ni borrado,
// y el estado actual nunca se reconstruye desde aquí.
type MovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByItem(itemID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByOperation(operationID string, limit, offset int) ([]*entity.StockMovement, error)
}
