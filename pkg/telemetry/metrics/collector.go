package metrics

import (
	"strconv"
	"time"

	"mercator-hq/ollamagw/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Relay modes used as the "mode" label.
const (
	ModeBuffered = "buffered"
	ModeStream   = "stream"
)

// Upstream error kinds used as the "kind" label.
const (
	KindHTTP        = "http"
	KindUnreachable = "unreachable"
	KindTimeout     = "timeout"
	KindInvalidJSON = "invalid_json"
)

// Collector owns every Prometheus metric the gateway exports.
//
// A nil *Collector is valid and records nothing, so components can be built
// without metrics in tests. Collector is safe for concurrent use.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics  *RequestMetrics
	upstreamMetrics *UpstreamMetrics
	streamMetrics   *StreamMetrics
}

// NewCollector creates a collector and registers its metrics with registry.
// If registry is nil a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "mercator",
//		Subsystem: "ollamagw",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = append([]float64(nil), config.DefaultRequestDurationBuckets...)
	}

	return &Collector{
		config:          cfg,
		registry:        registry,
		requestMetrics:  NewRequestMetrics(cfg, registry),
		upstreamMetrics: NewUpstreamMetrics(cfg, registry),
		streamMetrics:   NewStreamMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordRequest records a completed gateway request.
//
// Parameters:
//   - endpoint: gateway route name (e.g. "chat", "pull")
//   - mode: ModeBuffered or ModeStream
//   - status: HTTP status sent to the caller
//   - duration: time from request start to the last byte written
func (c *Collector) RecordRequest(endpoint, mode string, status int, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.requestMetrics.RecordRequest(endpoint, mode, strconv.Itoa(status), duration)
}

// RecordUpstreamError records a failed upstream call of the given kind.
func (c *Collector) RecordUpstreamError(endpoint, kind string) {
	if !c.enabled() {
		return
	}
	c.upstreamMetrics.RecordError(endpoint, kind)
}

// StreamStarted increments the active stream gauge. Every call must be
// paired with StreamFinished.
func (c *Collector) StreamStarted() {
	if !c.enabled() {
		return
	}
	c.streamMetrics.active.Inc()
}

// StreamFinished decrements the active stream gauge and records the totals
// relayed for one stream.
func (c *Collector) StreamFinished(endpoint string, chunks, bytes int64) {
	if !c.enabled() {
		return
	}
	c.streamMetrics.active.Dec()
	c.streamMetrics.RecordTotals(endpoint, chunks, bytes)
}

// RecordClientDisconnect records a stream abandoned by the caller.
func (c *Collector) RecordClientDisconnect(endpoint string) {
	if !c.enabled() {
		return
	}
	c.streamMetrics.disconnects.WithLabelValues(endpoint).Inc()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
