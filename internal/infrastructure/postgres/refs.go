package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/application/stockops"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

var _ stockops.ReferenceProvider = (*ReferenceProvider)(nil)

// ReferenceProvider genera referencias legibles y códigos de barras desde
// secuencias de PostgreSQL. Dentro de una transacción las referencias ya
// consumidas no se devuelven al hacer rollback; los huecos en la numeración
// son aceptables.
type ReferenceProvider struct {
	q Querier
}

// NewReferenceProvider construye el generador. Pasar pool o tx (Querier).
func NewReferenceProvider(q Querier) *ReferenceProvider {
	return &ReferenceProvider{q: q}
}

// Bases de los códigos de barras: ítems y ubicaciones viven en rangos
// disjuntos para que un escaneo nunca sea ambiguo.
const (
	itemBarcodeBase     int64 = 2_000_000_000
	locationBarcodeBase int64 = 1_000_000_000
)

// NextOperationReference devuelve la siguiente referencia de operación,
// prefijada por tipo: REC-000001, TRA-000001, PUR-000001.
func (p *ReferenceProvider) NextOperationReference(kind string) (string, error) {
	var prefix string
	switch kind {
	case entity.OperationReception:
		prefix = "REC"
	case entity.OperationTransfer:
		prefix = "TRA"
	case entity.OperationPurchase:
		prefix = "PUR"
	default:
		return "", fmt.Errorf("tipo de operación desconocido: %q", kind)
	}
	var n int64
	err := p.q.QueryRow(context.Background(), `SELECT nextval('operation_ref_seq')`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("nextval operation_ref_seq: %w", err)
	}
	return fmt.Sprintf("%s-%06d", prefix, n), nil
}

// NextItemReference devuelve referencia y código de barras frescos para un
// ítem físico.
func (p *ReferenceProvider) NextItemReference() (string, int64, error) {
	var n int64
	err := p.q.QueryRow(context.Background(), `SELECT nextval('item_ref_seq')`).Scan(&n)
	if err != nil {
		return "", 0, fmt.Errorf("nextval item_ref_seq: %w", err)
	}
	return fmt.Sprintf("ITM-%08d", n), itemBarcodeBase + n, nil
}

// NextLocationReference devuelve referencia y código de barras para una
// ubicación nueva, prefijada por su tipo por defecto.
func (p *ReferenceProvider) NextLocationReference(defaultType string) (string, int64, error) {
	var n int64
	err := p.q.QueryRow(context.Background(), `SELECT nextval('location_ref_seq')`).Scan(&n)
	if err != nil {
		return "", 0, fmt.Errorf("nextval location_ref_seq: %w", err)
	}
	prefix := "UBI"
	switch defaultType {
	case entity.LocationTypeReception:
		prefix = "UBI-REC"
	case entity.LocationTypePreparation:
		prefix = "UBI-PRE"
	}
	return fmt.Sprintf("%s-%05d", prefix, n), locationBarcodeBase + n, nil
}
