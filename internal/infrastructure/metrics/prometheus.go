// Package metrics expone las métricas del libro de stock en formato Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/Stock-api/internal/application/ports"
)

var _ ports.LedgerMetrics = (*Prometheus)(nil)

// Prometheus implementa ports.LedgerMetrics con CounterVec/HistogramVec.
type Prometheus struct {
	adjustments *prometheus.CounterVec
	units       *prometheus.CounterVec
	operations  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewPrometheus registra los collectors en reg (prometheus.DefaultRegisterer en el binario,
// un registry propio en tests).
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	m := &Prometheus{
		adjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ledger", Name: "adjustments_total",
			Help: "Ajustes de stock aplicados, por dirección (in/out).",
		}, []string{"direction"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ledger", Name: "adjusted_units_total",
			Help: "Unidades sumadas o restadas del stock, por dirección.",
		}, []string{"direction"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "operations", Name: "total",
			Help: "Operaciones de inventario por resultado.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "operations", Name: "duration_seconds",
			Help:    "Duración de las operaciones de inventario.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
	}
	for _, c := range []prometheus.Collector{m.adjustments, m.units, m.operations, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveAdjustment cuenta un ajuste de stock; quantity siempre positiva.
func (m *Prometheus) ObserveAdjustment(direction string, quantity int) {
	m.adjustments.WithLabelValues(direction).Inc()
	m.units.WithLabelValues(direction).Add(float64(quantity))
}

// ObserveOperation cuenta la operación por resultado y registra su duración.
func (m *Prometheus) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
