package stockops

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// DiscoveredInput parámetros de un ajuste manual por conteo físico: unidades
// halladas en bodega que el sistema no tenía registradas.
type DiscoveredInput struct {
	VariantID   string
	WarehouseID string
	Quantity    int
	UnitCost    decimal.Decimal
}

// AdjustmentUseCase cubre los ajustes manuales de inventario, el único camino
// que toca stock fuera del ciclo de vida de una operación. Sus movimientos se
// registran con disparador MANUAL y causa INVENTORY.
type AdjustmentUseCase struct {
	tx TxRunner
}

// NewAdjustmentUseCase construye el caso de uso de ajustes.
func NewAdjustmentUseCase(tx TxRunner) *AdjustmentUseCase {
	return &AdjustmentUseCase{tx: tx}
}

// RegisterDiscovered materializa qty unidades DESCUBIERTAS de la variante en
// la ubicación RECEPTION por defecto de la bodega. Quedan en el bucket
// discovered hasta que ConfirmDiscovered las pase a disponibles.
func (uc *AdjustmentUseCase) RegisterDiscovered(ctx context.Context, in DiscoveredInput, actor string) ([]*entity.PhysicalItem, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad descubierta debe ser positiva", domain.ErrInvalidInput)
	}
	var created []*entity.PhysicalItem
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		variant, err := r.Products.GetVariantByID(in.VariantID)
		if err != nil {
			return err
		}
		if variant == nil {
			return fmt.Errorf("%w: variante %s", domain.ErrNotFound, in.VariantID)
		}
		if err := requireWarehouse(r, in.WarehouseID); err != nil {
			return err
		}

		ledger := NewLedger(r)
		tracker := NewLocationTracker(r)
		loc, err := tracker.EnsureDefaultLocation(in.WarehouseID, entity.LocationTypeReception)
		if err != nil {
			return err
		}

		now := time.Now()
		for i := 0; i < in.Quantity; i++ {
			ref, barcode, err := r.Refs.NextItemReference()
			if err != nil {
				return fmt.Errorf("generar referencia de ítem: %w", err)
			}
			item := &entity.PhysicalItem{
				ID:        uuid.New().String(),
				Reference: ref,
				Barcode:   barcode,
				VariantID: in.VariantID,
				Status:    entity.ItemToStore,
				State:     entity.StateDiscovered,
				UnitCost:  in.UnitCost,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tracker.Relocate(item, loc); err != nil {
				return err
			}
			if err := r.Items.Create(item); err != nil {
				return err
			}
			if err := ledger.Adjust(in.VariantID, entity.BucketDiscovered, 1); err != nil {
				return err
			}
			locID := loc.ID
			if err := r.Movements.Create(&entity.StockMovement{
				ID:         uuid.New().String(),
				Direction:  entity.MovementIn,
				Trigger:    entity.TriggerManual,
				Cause:      entity.CauseInventory,
				SourceType: entity.EndpointNone,
				TargetType: entity.EndpointLocation,
				TargetID:   &locID,
				ItemID:     item.ID,
				CreatedBy:  actor,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
			created = append(created, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ConfirmDiscovered confirma un ítem descubierto como stock disponible:
// discovered → available, con su movimiento de auditoría.
func (uc *AdjustmentUseCase) ConfirmDiscovered(ctx context.Context, itemID, actor string) error {
	return uc.tx.Run(ctx, func(r TxRepos) error {
		item, err := r.Items.GetByID(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
		}
		if item.State != entity.StateDiscovered {
			return fmt.Errorf("%w: el ítem %s no está descubierto", domain.ErrInvalidTransition, item.Reference)
		}
		ledger := NewLedger(r)
		if err := ledger.Move(item.VariantID, entity.BucketDiscovered, entity.BucketAvailable, 1); err != nil {
			return err
		}
		now := time.Now()
		item.State = entity.StateAvailable
		item.UpdatedAt = now
		if err := r.Items.Update(item); err != nil {
			return err
		}
		locType := entity.EndpointNone
		var locID *string
		if item.LocationID != nil {
			locType = entity.EndpointLocation
			id := *item.LocationID
			locID = &id
		}
		return r.Movements.Create(&entity.StockMovement{
			ID:         uuid.New().String(),
			Direction:  entity.MovementIn,
			Trigger:    entity.TriggerManual,
			Cause:      entity.CauseInventory,
			SourceType: locType,
			SourceID:   locID,
			TargetType: locType,
			TargetID:   locID,
			ItemID:     item.ID,
			CreatedBy:  actor,
			CreatedAt:  now,
		})
	})
}
