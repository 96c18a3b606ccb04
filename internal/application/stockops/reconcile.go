package stockops

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/stock"
)

// childSpawner crea perezosamente la operación hija que carga las cantidades
// diferidas (REPORTED) de una reconciliación. Se crea una sola hija por
// reconciliación, reutilizada por todas las ediciones REPORTED del lote; el
// puntero ChildID de la madre se fija al persistirla.
type childSpawner struct {
	r       TxRepos
	parent  *entity.StockOperation
	actor   string
	child   *entity.StockOperation
	nextPos int
}

func newChildSpawner(r TxRepos, parent *entity.StockOperation, actor string) *childSpawner {
	return &childSpawner{r: r, parent: parent, actor: actor, nextPos: 1}
}

// ensure devuelve la hija, creándola la primera vez: mismo tipo y bodegas que
// la madre, estado PENDING, hereda los vínculos a documentos de negocio.
func (s *childSpawner) ensure() (*entity.StockOperation, error) {
	if s.child != nil {
		return s.child, nil
	}
	ref, err := s.r.Refs.NextOperationReference(s.parent.Kind)
	if err != nil {
		return nil, fmt.Errorf("generar referencia de operación hija: %w", err)
	}
	now := time.Now()
	parentID := s.parent.ID
	child := &entity.StockOperation{
		ID:                uuid.New().String(),
		Reference:         ref,
		Kind:              s.parent.Kind,
		Subtype:           s.parent.Subtype,
		Status:            entity.StatusPending,
		ParentID:          &parentID,
		WarehouseID:       s.parent.WarehouseID,
		SourceWarehouseID: s.parent.SourceWarehouseID,
		TargetWarehouseID: s.parent.TargetWarehouseID,
		OrderID:           s.parent.OrderID,
		TransferID:        s.parent.TransferID,
		CreatedBy:         s.actor,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.r.Operations.Create(child); err != nil {
		return nil, err
	}
	childID := child.ID
	s.parent.ChildID = &childID
	s.child = child
	return child, nil
}

// deferQuantity crea en la hija una línea PENDING con la cantidad diferida,
// misma variante, costo y proveedor que la línea original.
func (s *childSpawner) deferQuantity(line *entity.OperationLine, qty int) error {
	child, err := s.ensure()
	if err != nil {
		return err
	}
	now := time.Now()
	childLine := &entity.OperationLine{
		ID:          uuid.New().String(),
		OperationID: child.ID,
		Position:    s.nextPos,
		VariantID:   line.VariantID,
		Quantity:    qty,
		UnitCost:    line.UnitCost,
		SupplierID:  line.SupplierID,
		State:       entity.LinePending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextPos++
	return s.r.Operations.CreateLine(childLine)
}

// applyLineOutcome deja la línea original en su estado terminal según la
// partición: validada (con la cantidad validada), diferida por completo, o
// cancelada.
func applyLineOutcome(r TxRepos, split stock.LineSplit, now time.Time) error {
	line := split.Line
	switch {
	case split.Validated > 0:
		line.Quantity = split.Validated
		line.State = entity.LineValidated
	case split.Reported > 0:
		line.Quantity = split.Reported
		line.State = entity.LineReported
	default:
		line.State = entity.LineCanceled
	}
	line.UpdatedAt = now
	return r.Operations.UpdateLine(line)
}

// recordMovement persiste una fila de auditoría para una transición física.
func recordMovement(r TxRepos, itemID, direction, cause, srcType string, srcID *string, tgtType string, tgtID *string, operationID, actor string, now time.Time) error {
	opID := operationID
	return r.Movements.Create(&entity.StockMovement{
		ID:          uuid.New().String(),
		Direction:   direction,
		Trigger:     entity.TriggerAuto,
		Cause:       cause,
		SourceType:  srcType,
		SourceID:    srcID,
		TargetType:  tgtType,
		TargetID:    tgtID,
		ItemID:      itemID,
		OperationID: &opID,
		CreatedBy:   actor,
		CreatedAt:   now,
	})
}

// linesInState filtra las líneas de una operación por estado.
func linesInState(lines []*entity.OperationLine, state string) []*entity.OperationLine {
	out := make([]*entity.OperationLine, 0, len(lines))
	for _, l := range lines {
		if l.State == state {
			out = append(out, l)
		}
	}
	return out
}
