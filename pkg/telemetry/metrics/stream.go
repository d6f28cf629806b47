package metrics

import (
	"mercator-hq/ollamagw/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// StreamMetrics tracks relayed NDJSON streams.
//
// Metrics:
//   - <ns>_<sub>_stream_chunks_total: chunks relayed by endpoint
//   - <ns>_<sub>_stream_bytes_total: bytes relayed by endpoint
//   - <ns>_<sub>_active_streams: streams currently open
//   - <ns>_<sub>_client_disconnects_total: streams the caller abandoned
type StreamMetrics struct {
	chunks      *prometheus.CounterVec
	bytes       *prometheus.CounterVec
	active      prometheus.Gauge
	disconnects *prometheus.CounterVec
}

// NewStreamMetrics creates and registers stream metrics with the provided registry.
func NewStreamMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *StreamMetrics {
	sm := &StreamMetrics{
		chunks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "stream_chunks_total",
				Help:      "Total number of stream chunks relayed to callers",
			},
			[]string{"endpoint"},
		),

		bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "stream_bytes_total",
				Help:      "Total number of stream bytes relayed to callers",
			},
			[]string{"endpoint"},
		),

		active: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "active_streams",
				Help:      "Number of streams currently being relayed",
			},
		),

		disconnects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "client_disconnects_total",
				Help:      "Total number of streams abandoned by the caller",
			},
			[]string{"endpoint"},
		),
	}

	registry.MustRegister(
		sm.chunks,
		sm.bytes,
		sm.active,
		sm.disconnects,
	)

	return sm
}

// RecordTotals adds one stream's chunk and byte counts.
func (sm *StreamMetrics) RecordTotals(endpoint string, chunks, bytes int64) {
	if chunks > 0 {
		sm.chunks.WithLabelValues(endpoint).Add(float64(chunks))
	}
	if bytes > 0 {
		sm.bytes.WithLabelValues(endpoint).Add(float64(bytes))
	}
}
