package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// SnapshotRepository define el puerto para los contadores agregados de
// cantidades, por variante y por producto. GetVariantForUpdate /
// GetProductForUpdate bloquean la fila: todo ajuste sucede bajo candado
// dentro de la transacción de la transición.
type SnapshotRepository interface {
	GetVariant(variantID string) (*entity.QuantitySnapshot, error)
	GetVariantForUpdate(variantID string) (*entity.QuantitySnapshot, error)
	UpsertVariant(snapshot *entity.QuantitySnapshot) error

	GetProduct(productID string) (*entity.QuantitySnapshot, error)
	GetProductForUpdate(productID string) (*entity.QuantitySnapshot, error)
	UpsertProduct(snapshot *entity.QuantitySnapshot) error
}
