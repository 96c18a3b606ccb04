package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/stockops"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/stock"
)

// LineRequest línea solicitada al crear una operación.
type LineRequest struct {
	VariantID  string          `json:"variant_id" validate:"required"`
	Quantity   int             `json:"quantity" validate:"required,min=1"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	SupplierID *string         `json:"supplier_id,omitempty"`
}

// CreateReceptionRequest alta de recepción (SUPPLY u ORDER).
type CreateReceptionRequest struct {
	Subtype     string        `json:"subtype" validate:"required"`
	WarehouseID string        `json:"warehouse_id" validate:"required"`
	OrderID     *string       `json:"order_id,omitempty"`
	Lines       []LineRequest `json:"lines" validate:"required,min=1"`
}

// CreateTransferRequest alta de traslado entre bodegas.
type CreateTransferRequest struct {
	SourceWarehouseID string        `json:"source_warehouse_id" validate:"required"`
	TargetWarehouseID string        `json:"target_warehouse_id" validate:"required"`
	Lines             []LineRequest `json:"lines" validate:"required,min=1"`
}

// CreatePurchaseRequest alta de compra a proveedor.
type CreatePurchaseRequest struct {
	WarehouseID string        `json:"warehouse_id" validate:"required"`
	Lines       []LineRequest `json:"lines" validate:"required,min=1"`
}

// EditRequest una edición de reconciliación sobre una línea.
type EditRequest struct {
	LineID   string `json:"line_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=0"`
	State    string `json:"state" validate:"required"` // VALIDATED, REPORTED, CANCELED
}

// ReconcileRequest lote de ediciones para Confirm o Validate.
type ReconcileRequest struct {
	Edits []EditRequest `json:"edits" validate:"required,min=1"`
}

// CommentRequest comentario sobre una operación.
type CommentRequest struct {
	Body string `json:"body" validate:"required"`
}

// OperationLineResponse línea serializada.
type OperationLineResponse struct {
	ID         string          `json:"id"`
	Position   int             `json:"position"`
	VariantID  string          `json:"variant_id"`
	Quantity   int             `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	SupplierID *string         `json:"supplier_id,omitempty"`
	State      string          `json:"state"`
}

// OperationResponse cabecera de operación serializada.
type OperationResponse struct {
	ID                string     `json:"id"`
	Reference         string     `json:"reference"`
	Kind              string     `json:"kind"`
	Subtype           string     `json:"subtype,omitempty"`
	Status            string     `json:"status"`
	ParentID          *string    `json:"parent_id,omitempty"`
	ChildID           *string    `json:"child_id,omitempty"`
	WarehouseID       *string    `json:"warehouse_id,omitempty"`
	SourceWarehouseID *string    `json:"source_warehouse_id,omitempty"`
	TargetWarehouseID *string    `json:"target_warehouse_id,omitempty"`
	OrderID           *string    `json:"order_id,omitempty"`
	TransferID        *string    `json:"transfer_id,omitempty"`
	CreatedBy         string     `json:"created_by"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	ValidatedBy       *string    `json:"validated_by,omitempty"`
	ValidatedAt       *time.Time `json:"validated_at,omitempty"`
	CanceledBy        *string    `json:"canceled_by,omitempty"`
	CanceledAt        *time.Time `json:"canceled_at,omitempty"`
}

// CommentResponse comentario serializado.
type CommentResponse struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// OperationDetailResponse detalle completo de una operación.
type OperationDetailResponse struct {
	Operation OperationResponse       `json:"operation"`
	Lines     []OperationLineResponse `json:"lines"`
	Comments  []CommentResponse       `json:"comments"`
	Parent    *OperationResponse      `json:"parent,omitempty"`
	Child     *OperationResponse      `json:"child,omitempty"`
}

// ToOperationResponse mapea la entidad a su DTO.
func ToOperationResponse(op *entity.StockOperation) OperationResponse {
	return OperationResponse{
		ID:                op.ID,
		Reference:         op.Reference,
		Kind:              op.Kind,
		Subtype:           op.Subtype,
		Status:            op.Status,
		ParentID:          op.ParentID,
		ChildID:           op.ChildID,
		WarehouseID:       op.WarehouseID,
		SourceWarehouseID: op.SourceWarehouseID,
		TargetWarehouseID: op.TargetWarehouseID,
		OrderID:           op.OrderID,
		TransferID:        op.TransferID,
		CreatedBy:         op.CreatedBy,
		CreatedAt:         op.CreatedAt,
		UpdatedAt:         op.UpdatedAt,
		ValidatedBy:       op.ValidatedBy,
		ValidatedAt:       op.ValidatedAt,
		CanceledBy:        op.CanceledBy,
		CanceledAt:        op.CanceledAt,
	}
}

// ToOperationLineResponse mapea una línea a su DTO.
func ToOperationLineResponse(l *entity.OperationLine) OperationLineResponse {
	return OperationLineResponse{
		ID:         l.ID,
		Position:   l.Position,
		VariantID:  l.VariantID,
		Quantity:   l.Quantity,
		UnitCost:   l.UnitCost,
		SupplierID: l.SupplierID,
		State:      l.State,
	}
}

// ToOperationDetailResponse mapea el detalle completo.
func ToOperationDetailResponse(d *stockops.OperationDetail) OperationDetailResponse {
	out := OperationDetailResponse{
		Operation: ToOperationResponse(d.Operation),
		Lines:     make([]OperationLineResponse, 0, len(d.Lines)),
		Comments:  make([]CommentResponse, 0, len(d.Comments)),
	}
	for _, l := range d.Lines {
		out.Lines = append(out.Lines, ToOperationLineResponse(l))
	}
	for _, c := range d.Comments {
		out.Comments = append(out.Comments, CommentResponse{
			ID: c.ID, Body: c.Body, CreatedBy: c.CreatedBy, CreatedAt: c.CreatedAt,
		})
	}
	if d.Parent != nil {
		p := ToOperationResponse(d.Parent)
		out.Parent = &p
	}
	if d.Child != nil {
		ch := ToOperationResponse(d.Child)
		out.Child = &ch
	}
	return out
}

// ToEdits mapea las ediciones del request al motor de reconciliación.
func ToEdits(edits []EditRequest) []stock.Edit {
	out := make([]stock.Edit, 0, len(edits))
	for _, e := range edits {
		out = append(out, stock.Edit{
			LineID:   e.LineID,
			Quantity: e.Quantity,
			State:    e.State,
		})
	}
	return out
}

// ToLineInputs mapea las líneas del request al caso de uso.
func ToLineInputs(lines []LineRequest) []stockops.LineInput {
	out := make([]stockops.LineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, stockops.LineInput{
			VariantID:  l.VariantID,
			Quantity:   l.Quantity,
			UnitCost:   l.UnitCost,
			SupplierID: l.SupplierID,
		})
	}
	return out
}
