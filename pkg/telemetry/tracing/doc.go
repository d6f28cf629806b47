// Package tracing provides OpenTelemetry distributed tracing for the gateway.
//
// Incoming requests carry W3C trace context (traceparent/tracestate), which
// HTTPMiddleware extracts into a server span. Every upstream Ollama call runs
// in a client span and the context is injected into the outgoing request, so
// a trace follows a prompt from the caller through the gateway to the daemon.
//
// Spans are exported over OTLP/gRPC. Sampling is parent based with an
// always, never or ratio root sampler:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: "localhost:4317"
//	    sampler: ratio
//	    sample_ratio: 0.1
//
// When tracing is disabled a noop tracer is used.
package tracing
