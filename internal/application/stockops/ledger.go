package stockops

import (
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Ledger aplica ajustes a los contadores de cantidades, siempre por partida
// doble variante+producto y bajo el candado de fila de la transacción en
// curso. Si un bucket quedara negativo devuelve domain.ErrNegativeBalance:
// eso indica un bug de reconciliación aguas arriba y aborta la transacción
// completa, nunca se recorta el saldo en silencio.
type Ledger struct {
	r TxRepos
}

// NewLedger construye el libro de cantidades sobre los repos de la tx.
func NewLedger(r TxRepos) *Ledger {
	return &Ledger{r: r}
}

// Adjust aplica delta (±1, ocasionalmente mayor) a un bucket de la variante y
// al mismo bucket del producto padre, en la misma transacción.
func (l *Ledger) Adjust(variantID string, bucket entity.Bucket, delta int) error {
	variant, err := l.r.Products.GetVariantByID(variantID)
	if err != nil {
		return err
	}
	if variant == nil {
		return fmt.Errorf("%w: variante %s", domain.ErrNotFound, variantID)
	}

	now := time.Now()

	snap, err := l.r.Snapshots.GetVariantForUpdate(variantID)
	if err != nil {
		return err
	}
	if snap == nil {
		snap = &entity.QuantitySnapshot{VariantID: variantID, ProductID: variant.ProductID}
	}
	snap.Apply(bucket, delta)
	if snap.Get(bucket) < 0 {
		return fmt.Errorf("%w: variante %s, bucket %s", domain.ErrNegativeBalance, variantID, bucket)
	}
	snap.UpdatedAt = now
	if err := l.r.Snapshots.UpsertVariant(snap); err != nil {
		return err
	}

	prod, err := l.r.Snapshots.GetProductForUpdate(variant.ProductID)
	if err != nil {
		return err
	}
	if prod == nil {
		prod = &entity.QuantitySnapshot{ProductID: variant.ProductID}
	}
	prod.Apply(bucket, delta)
	if prod.Get(bucket) < 0 {
		return fmt.Errorf("%w: producto %s, bucket %s", domain.ErrNegativeBalance, variant.ProductID, bucket)
	}
	prod.UpdatedAt = now
	return l.r.Snapshots.UpsertProduct(prod)
}

// Move traslada n unidades de un bucket a otro de la misma variante:
// decrementa el bucket origen e incrementa el destino, sin ganancia ni
// pérdida neta de unidades.
func (l *Ledger) Move(variantID string, from, to entity.Bucket, n int) error {
	if n == 0 || from == to {
		return nil
	}
	if err := l.Adjust(variantID, from, -n); err != nil {
		return err
	}
	return l.Adjust(variantID, to, n)
}
