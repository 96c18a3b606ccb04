package entity

import "time"

// Bucket identifica uno de los cinco contadores de un QuantitySnapshot.
type Bucket string

// Buckets del snapshot de cantidades.
const (
	BucketAvailable        Bucket = "available"
	BucketReserved         Bucket = "reserved"
	BucketInTransit        Bucket = "in_transit"
	BucketPendingReception Bucket = "pending_reception"
	BucketDiscovered       Bucket = "discovered"
)

// BucketForState devuelve el bucket que cuenta los ítems en un estado de
// disponibilidad dado. La invariante central del libro de cantidades: cada
// mutación de estado de un ítem va emparejada, en la misma transacción, con
// un -1 al bucket del estado anterior y un +1 al del nuevo.
func BucketForState(state string) Bucket {
	switch state {
	case StateAvailable:
		return BucketAvailable
	case StateReserved:
		return BucketReserved
	case StateInTransit:
		return BucketInTransit
	case StatePendingReception:
		return BucketPendingReception
	case StateDiscovered:
		return BucketDiscovered
	default:
		return BucketDiscovered
	}
}

// QuantitySnapshot mantiene los contadores agregados de una variante (o de un
// producto, sumando sus variantes). La suma de los buckets debe ser igual al
// número de PhysicalItems "en inventario" de esa variante.
type QuantitySnapshot struct {
	VariantID        string // vacío en la fila agregada por producto
	ProductID        string
	Available        int
	Reserved         int
	InTransit        int
	PendingReception int
	Discovered       int
	UpdatedAt        time.Time
}

// Get devuelve el valor del bucket indicado.
func (s *QuantitySnapshot) Get(b Bucket) int {
	switch b {
	case BucketAvailable:
		return s.Available
	case BucketReserved:
		return s.Reserved
	case BucketInTransit:
		return s.InTransit
	case BucketPendingReception:
		return s.PendingReception
	case BucketDiscovered:
		return s.Discovered
	}
	return 0
}

// Apply suma delta al bucket indicado. No valida signo: la regla de saldo no
// negativo vive en el Ledger, que es quien decide abortar la transacción.
func (s *QuantitySnapshot) Apply(b Bucket, delta int) {
	switch b {
	case BucketAvailable:
		s.Available += delta
	case BucketReserved:
		s.Reserved += delta
	case BucketInTransit:
		s.InTransit += delta
	case BucketPendingReception:
		s.PendingReception += delta
	case BucketDiscovered:
		s.Discovered += delta
	}
}

// Total devuelve la suma de los cinco buckets.
func (s *QuantitySnapshot) Total() int {
	return s.Available + s.Reserved + s.InTransit + s.PendingReception + s.Discovered
}
