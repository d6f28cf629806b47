// Package metrics provides Prometheus metrics for the Ollama gateway.
//
// # Metrics
//
// Every name is prefixed with the configured namespace and subsystem
// (mercator_ollamagw_ by default):
//
//	requests_total{endpoint,mode,status}
//	request_duration_seconds{endpoint,mode}
//	upstream_errors_total{endpoint,kind}
//	stream_chunks_total{endpoint}
//	stream_bytes_total{endpoint}
//	active_streams
//	client_disconnects_total{endpoint}
//
// Label values come from a fixed set (route names, two modes, HTTP status
// codes and four error kinds), so cardinality is bounded without a limiter.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordRequest("chat", metrics.ModeBuffered, 200, time.Second)
//
//	collector.StreamStarted()
//	defer collector.StreamFinished("chat_stream", chunks, bytes)
//
//	mux.Handle("GET /metrics", collector.Handler())
//
// A nil *Collector records nothing.
package metrics
