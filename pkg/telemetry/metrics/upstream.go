package metrics

import (
	"mercator-hq/ollamagw/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics tracks failures talking to the Ollama daemon.
//
// Metrics:
//   - <ns>_<sub>_upstream_errors_total: error count by endpoint and kind
type UpstreamMetrics struct {
	errors *prometheus.CounterVec
}

// NewUpstreamMetrics creates and registers upstream metrics with the provided registry.
func NewUpstreamMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_errors_total",
				Help:      "Total number of upstream failures by kind",
			},
			[]string{"endpoint", "kind"},
		),
	}

	registry.MustRegister(um.errors)

	return um
}

// RecordError records an upstream failure.
//
// Kinds:
//   - "http": the daemon answered with a status >= 400
//   - "unreachable": connect or DNS failure
//   - "timeout": the daemon did not answer in time
//   - "invalid_json": a success status carried an undecodable body
func (um *UpstreamMetrics) RecordError(endpoint, kind string) {
	um.errors.WithLabelValues(endpoint, kind).Inc()
}
