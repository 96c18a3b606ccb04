package stock

import (
	"fmt"
	"sort"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Edit es una edición de confirmación sobre una línea original: cuánta
// cantidad de esa línea termina en qué estado.
type Edit struct {
	LineID   string
	Quantity int
	State    string // VALIDATED, REPORTED, CANCELED
}

// LineSplit es el resultado de partir una línea original entre los tres
// destinos posibles. Validated+Reported+Canceled == Line.Quantity siempre.
type LineSplit struct {
	Line      *entity.OperationLine
	Validated int
	Reported  int
	Canceled  int
}

// SplitEdits valida el lote de ediciones contra las líneas reconciliables de
// la operación y devuelve la partición por línea, ordenada por posición. El
// caller decide qué líneas participan (las PENDING al validar una recepción;
// las VALIDATED-recogidas al validar un traslado). Es una función pura: no
// muta nada, y si devuelve error el caller no debe haber tocado ningún
// ledger todavía.
//
// Precondiciones que aplica (todas antes de cualquier mutación):
//
//  1. toda línea reconciliable debe estar cubierta por al menos una edición;
//  2. por línea, la suma de cantidades editadas debe ser exactamente la
//     cantidad solicitada (ni más ni menos);
//  3. al menos una edición del lote debe no ser CANCELED;
//  4. ninguna edición puede llevar estado PENDING, y la cantidad debe ser un
//     entero positivo (cero solo es legal emparejado con CANCELED).
func SplitEdits(lines []*entity.OperationLine, edits []Edit) ([]LineSplit, error) {
	if len(edits) == 0 {
		return nil, fmt.Errorf("%w: lote de ediciones vacío", domain.ErrQuantityMismatch)
	}

	byID := make(map[string]*LineSplit, len(lines))
	for _, l := range lines {
		byID[l.ID] = &LineSplit{Line: l}
	}

	covered := make(map[string]bool, len(byID))
	allCanceled := true

	for _, e := range edits {
		split, ok := byID[e.LineID]
		if !ok {
			return nil, fmt.Errorf("%w: línea %s", domain.ErrInconsistentReference, e.LineID)
		}
		switch e.State {
		case entity.LineValidated:
			if e.Quantity <= 0 {
				return nil, fmt.Errorf("%w: línea %s: cantidad validada debe ser positiva", domain.ErrInvalidInput, e.LineID)
			}
			split.Validated += e.Quantity
			allCanceled = false
		case entity.LineReported:
			if e.Quantity <= 0 {
				return nil, fmt.Errorf("%w: línea %s: cantidad diferida debe ser positiva", domain.ErrInvalidInput, e.LineID)
			}
			split.Reported += e.Quantity
			allCanceled = false
		case entity.LineCanceled:
			if e.Quantity < 0 {
				return nil, fmt.Errorf("%w: línea %s: cantidad negativa", domain.ErrInvalidInput, e.LineID)
			}
			split.Canceled += e.Quantity
		case entity.LinePending:
			return nil, fmt.Errorf("%w: línea %s: PENDING no es un resultado de reconciliación", domain.ErrInvalidInput, e.LineID)
		default:
			return nil, fmt.Errorf("%w: línea %s: estado %q desconocido", domain.ErrInvalidInput, e.LineID, e.State)
		}
		covered[e.LineID] = true
	}

	if allCanceled {
		return nil, domain.ErrAllLinesCanceled
	}

	splits := make([]LineSplit, 0, len(byID))
	for id, split := range byID {
		if !covered[id] {
			return nil, fmt.Errorf("%w: línea %s sin edición", domain.ErrQuantityMismatch, id)
		}
		total := split.Validated + split.Reported + split.Canceled
		if total != split.Line.Quantity {
			return nil, fmt.Errorf("%w: línea %s: editado %d, solicitado %d",
				domain.ErrQuantityMismatch, id, total, split.Line.Quantity)
		}
		splits = append(splits, *split)
	}

	sort.Slice(splits, func(i, j int) bool {
		return splits[i].Line.Position < splits[j].Line.Position
	})
	return splits, nil
}
