package builder

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records builder activity.
type Metrics interface {
	// RecordSet records one Set call for entity and whether it was accepted.
	RecordSet(entity string, ok bool)
	// RecordSnapshot records one Entity call and whether it produced an entity.
	RecordSnapshot(entity string, ok bool)
}

// NoOpMetrics discards all measurements. It is the default.
type NoOpMetrics struct{}

// NewNoOpMetrics creates a new NoOpMetrics instance.
func NewNoOpMetrics() *NoOpMetrics {
	return &NoOpMetrics{}
}

// RecordSet is a no-op implementation.
func (m *NoOpMetrics) RecordSet(entity string, ok bool) {}

// RecordSnapshot is a no-op implementation.
func (m *NoOpMetrics) RecordSnapshot(entity string, ok bool) {}

// PrometheusMetrics implements Metrics on a private Prometheus registry.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	// setsTotal counts Set calls.
	// Labels: entity, result ("ok" or "rejected")
	setsTotal *prometheus.CounterVec

	// snapshotsTotal counts Entity calls.
	// Labels: entity, result ("ok" or "failed")
	snapshotsTotal *prometheus.CounterVec
}

// NewPrometheusMetrics creates a PrometheusMetrics with its own registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	setsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitymaker_builder_sets_total",
			Help: "Total builder field assignments by entity and result",
		},
		[]string{"entity", "result"},
	)

	snapshotsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitymaker_builder_snapshots_total",
			Help: "Total builder snapshot reads by entity and result",
		},
		[]string{"entity", "result"},
	)

	registry.MustRegister(setsTotal, snapshotsTotal)

	return &PrometheusMetrics{
		registry:       registry,
		setsTotal:      setsTotal,
		snapshotsTotal: snapshotsTotal,
	}
}

// Registry returns the registry holding the builder metrics.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordSet increments entitymaker_builder_sets_total.
func (m *PrometheusMetrics) RecordSet(entity string, ok bool) {
	result := "ok"
	if !ok {
		result = "rejected"
	}
	m.setsTotal.WithLabelValues(entity, result).Inc()
}

// RecordSnapshot increments entitymaker_builder_snapshots_total.
func (m *PrometheusMetrics) RecordSnapshot(entity string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.snapshotsTotal.WithLabelValues(entity, result).Inc()
}
