package stockops

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// OperationSlip es el contenido del comprobante imprimible de una operación:
// cabecera, bodegas legibles y líneas con nombre de producto.
type OperationSlip struct {
	Reference       string
	Kind            string
	Subtype         string
	Status          string
	Warehouse       string
	SourceWarehouse string
	TargetWarehouse string
	CreatedBy       string
	CreatedAt       time.Time
	Lines           []SlipLine
	TotalUnits      int
	TotalCost       decimal.Decimal
}

// SlipLine es una línea del comprobante.
type SlipLine struct {
	Position int
	Product  string
	Variant  string
	SKU      string
	Quantity int
	UnitCost decimal.Decimal
	State    string
}

// SlipRenderer convierte el comprobante en un documento PDF.
type SlipRenderer interface {
	Render(slip OperationSlip) ([]byte, error)
}

// SlipUseCase arma y renderiza el comprobante PDF de una operación.
type SlipUseCase struct {
	operations repository.OperationRepository
	warehouses repository.WarehouseRepository
	products   repository.ProductRepository
	renderer   SlipRenderer
}

// NewSlipUseCase construye el caso de uso del comprobante.
func NewSlipUseCase(
	operations repository.OperationRepository,
	warehouses repository.WarehouseRepository,
	products repository.ProductRepository,
	renderer SlipRenderer,
) *SlipUseCase {
	return &SlipUseCase{operations: operations, warehouses: warehouses, products: products, renderer: renderer}
}

// Generate arma el comprobante de la operación y lo devuelve como PDF.
func (uc *SlipUseCase) Generate(operationID string) ([]byte, error) {
	op, err := uc.operations.GetByID(operationID)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, fmt.Errorf("%w: operación %s", domain.ErrNotFound, operationID)
	}
	lines, err := uc.operations.GetLines(op.ID)
	if err != nil {
		return nil, err
	}

	slip := OperationSlip{
		Reference: op.Reference,
		Kind:      op.Kind,
		Subtype:   op.Subtype,
		Status:    op.Status,
		CreatedBy: op.CreatedBy,
		CreatedAt: op.CreatedAt,
	}
	if slip.Warehouse, err = uc.warehouseName(op.WarehouseID); err != nil {
		return nil, err
	}
	if slip.SourceWarehouse, err = uc.warehouseName(op.SourceWarehouseID); err != nil {
		return nil, err
	}
	if slip.TargetWarehouse, err = uc.warehouseName(op.TargetWarehouseID); err != nil {
		return nil, err
	}

	for _, line := range lines {
		sl := SlipLine{
			Position: line.Position,
			Quantity: line.Quantity,
			UnitCost: line.UnitCost,
			State:    line.State,
		}
		variant, err := uc.products.GetVariantByID(line.VariantID)
		if err != nil {
			return nil, err
		}
		if variant != nil {
			sl.Variant = variant.Name
			sl.SKU = variant.Reference
			product, err := uc.products.GetByID(variant.ProductID)
			if err != nil {
				return nil, err
			}
			if product != nil {
				sl.Product = product.Name
			}
		}
		if line.State != entity.LineCanceled {
			slip.TotalUnits += line.Quantity
			slip.TotalCost = slip.TotalCost.Add(line.UnitCost.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		slip.Lines = append(slip.Lines, sl)
	}

	return uc.renderer.Render(slip)
}

func (uc *SlipUseCase) warehouseName(id *string) (string, error) {
	if id == nil {
		return "", nil
	}
	wh, err := uc.warehouses.GetByID(*id)
	if err != nil {
		return "", err
	}
	if wh == nil {
		return "", nil
	}
	return wh.Name, nil
}
