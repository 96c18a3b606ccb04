package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// OrderRepository define el puerto hacia las órdenes de cliente. El motor de
// stock no gobierna su ciclo de vida: solo lee la orden vinculada y actualiza
// estado/paso como efecto lateral de validar o cancelar una recepción.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	UpdateStatusStep(id, status, step string) error
}
