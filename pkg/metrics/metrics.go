// Package metrics expone los contadores Prometheus del motor de operaciones.
// Se registran en el registry por defecto y se sirven en /metrics.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/almacen-api/internal/domain"
)

var (
	// OperationsValidated operaciones validadas, por tipo.
	OperationsValidated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "almacen_operations_validated_total",
		Help: "Operaciones de stock validadas, por tipo.",
	}, []string{"kind"})

	// OperationsConfirmed traslados confirmados.
	OperationsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almacen_transfers_confirmed_total",
		Help: "Traslados confirmados (incluye los que quedan esperando compra).",
	})

	// OperationsCanceled operaciones canceladas, por tipo.
	OperationsCanceled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "almacen_operations_canceled_total",
		Help: "Operaciones de stock canceladas, por tipo.",
	}, []string{"kind"})

	// ItemsMaterialized ítems físicos creados por el materializador.
	ItemsMaterialized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almacen_items_materialized_total",
		Help: "Ítems físicos materializados a partir de líneas validadas.",
	})

	// ReconcileRejections transiciones rechazadas, por razón.
	ReconcileRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "almacen_reconcile_rejections_total",
		Help: "Transiciones de operación rechazadas, por razón.",
	}, []string{"reason"})
)

// RejectReason mapea un error de transición a la etiqueta del contador.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrQuantityMismatch):
		return "quantity_mismatch"
	case errors.Is(err, domain.ErrAllLinesCanceled):
		return "all_lines_canceled"
	case errors.Is(err, domain.ErrNegativeBalance):
		return "negative_balance"
	case errors.Is(err, domain.ErrInconsistentReference):
		return "inconsistent_reference"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}

// Handler devuelve el handler HTTP estándar de Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
