package metrics

import (
	"time"

	"mercator-hq/ollamagw/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks gateway requests.
//
// Metrics:
//   - <ns>_<sub>_requests_total: request count by endpoint, mode, status
//   - <ns>_<sub>_request_duration_seconds: request duration histogram
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of relay requests handled",
			},
			[]string{"endpoint", "mode", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of relay requests in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"endpoint", "mode"},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
	)

	return rm
}

// RecordRequest increments the request counter and observes the duration.
func (rm *RequestMetrics) RecordRequest(endpoint, mode, status string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(endpoint, mode, status).Inc()
	rm.requestDuration.WithLabelValues(endpoint, mode).Observe(duration.Seconds())
}
