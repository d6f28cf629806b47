package tracing

import (
	"fmt"
	"net/http"

	"mercator-hq/ollamagw/pkg/config"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Values of telemetry.tracing.sampler.
const (
	SamplerAlways = "always"
	SamplerNever  = "never"
	SamplerRatio  = "ratio"
)

// NewSampler builds the gateway's sampler from cfg. The configured strategy
// only decides for root spans; a span with a parent follows the parent's
// decision. Root server spans for any of quietPaths (the probe and scrape
// endpoints, hit every few seconds) are always dropped.
func NewSampler(cfg *config.TracingConfig, quietPaths ...string) (sdktrace.Sampler, error) {
	var root sdktrace.Sampler
	switch cfg.Sampler {
	case SamplerAlways:
		root = sdktrace.AlwaysSample()
	case SamplerNever:
		root = sdktrace.NeverSample()
	case SamplerRatio:
		if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
			return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %g", cfg.SampleRatio)
		}
		root = sdktrace.TraceIDRatioBased(cfg.SampleRatio)
	default:
		return nil, fmt.Errorf("unknown sampler %q (valid: always, never, ratio)", cfg.Sampler)
	}

	sampler := sdktrace.ParentBased(root)
	if len(quietPaths) == 0 {
		return sampler, nil
	}

	quiet := make(map[string]struct{}, len(quietPaths))
	for _, p := range quietPaths {
		if p != "" {
			quiet[http.MethodGet+" "+p] = struct{}{}
		}
	}
	return &quietSampler{next: sampler, spans: quiet}, nil
}

// quietSampler drops root spans whose name is in spans. Span names come
// from HTTPMiddleware as "METHOD path".
type quietSampler struct {
	next  sdktrace.Sampler
	spans map[string]struct{}
}

func (s *quietSampler) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	parent := trace.SpanContextFromContext(p.ParentContext)
	if !parent.IsValid() {
		if _, ok := s.spans[p.Name]; ok {
			return sdktrace.SamplingResult{Decision: sdktrace.Drop, Tracestate: parent.TraceState()}
		}
	}
	return s.next.ShouldSample(p)
}

func (s *quietSampler) Description() string {
	return fmt.Sprintf("Quiet{%d paths,%s}", len(s.spans), s.next.Description())
}
