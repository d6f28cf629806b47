package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys recorded on upstream spans.
const (
	AttrUpstreamMethod = "ollama.method"
	AttrUpstreamPath   = "ollama.path"
	AttrUpstreamStatus = "ollama.status_code"
	AttrRelayMode      = "ollama.mode"
	AttrStreamChunks   = "ollama.stream.chunks"
	AttrStreamBytes    = "ollama.stream.bytes"
	AttrRequestID      = "ollamagw.request_id"
)

// SetUpstreamAttributes records the upstream call on the span.
func SetUpstreamAttributes(span trace.Span, method, path, mode string) {
	span.SetAttributes(
		attribute.String(AttrUpstreamMethod, method),
		attribute.String(AttrUpstreamPath, path),
		attribute.String(AttrRelayMode, mode),
	)
}

// SetStatusCode records the upstream response status.
func SetStatusCode(span trace.Span, status int) {
	span.SetAttributes(attribute.Int(AttrUpstreamStatus, status))
}

// SetStreamTotals records how much of a stream was relayed.
func SetStreamTotals(span trace.Span, chunks, bytes int64) {
	span.SetAttributes(
		attribute.Int64(AttrStreamChunks, chunks),
		attribute.Int64(AttrStreamBytes, bytes),
	)
}
