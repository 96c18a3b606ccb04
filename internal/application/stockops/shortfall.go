package stockops

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// shortfallNeed es una cantidad faltante de una variante detectada al
// confirmar un traslado, con el costo y proveedor de la línea que la originó.
type shortfallNeed struct {
	VariantID  string
	Quantity   int
	SupplierID *string
	UnitCost   decimal.Decimal
}

// spawnShortfallPurchase crea (o reutiliza) la compra PENDING vinculada al
// traslado y le agrega una línea por faltante. El vínculo TransferID es la
// clave de idempotencia: reconfirmar el mismo traslado acumula líneas sobre
// la misma compra en vez de crear otra. El costo de cada línea viene de la
// línea del traslado o, en su defecto, del último costo conocido de la
// variante en el historial de compras.
func spawnShortfallPurchase(r TxRepos, transfer *entity.StockOperation, needs []shortfallNeed, actor string, now time.Time) (*entity.StockOperation, error) {
	purchase, err := r.Operations.GetPendingPurchaseForTransfer(transfer.ID)
	if err != nil {
		return nil, err
	}
	nextPos := 1
	if purchase == nil {
		ref, err := r.Refs.NextOperationReference(entity.OperationPurchase)
		if err != nil {
			return nil, fmt.Errorf("generar referencia de compra por faltante: %w", err)
		}
		transferID := transfer.ID
		purchase = &entity.StockOperation{
			ID:          uuid.New().String(),
			Reference:   ref,
			Kind:        entity.OperationPurchase,
			Status:      entity.StatusPending,
			WarehouseID: transfer.SourceWarehouseID,
			TransferID:  &transferID,
			CreatedBy:   actor,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Operations.Create(purchase); err != nil {
			return nil, err
		}
	} else {
		existing, err := r.Operations.GetLines(purchase.ID)
		if err != nil {
			return nil, err
		}
		nextPos = len(existing) + 1
	}

	for _, need := range needs {
		cost := need.UnitCost
		supplier := need.SupplierID
		if cost.IsZero() || supplier == nil {
			latest, err := r.Operations.LatestSupplierCost(need.VariantID)
			if err != nil {
				return nil, err
			}
			if latest != nil {
				if cost.IsZero() {
					cost = latest.UnitCost
				}
				if supplier == nil {
					supplier = latest.SupplierID
				}
			}
		}
		line := &entity.OperationLine{
			ID:          uuid.New().String(),
			OperationID: purchase.ID,
			Position:    nextPos,
			VariantID:   need.VariantID,
			Quantity:    need.Quantity,
			UnitCost:    cost,
			SupplierID:  supplier,
			State:       entity.LinePending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		nextPos++
		if err := r.Operations.CreateLine(line); err != nil {
			return nil, err
		}
	}
	return purchase, nil
}
