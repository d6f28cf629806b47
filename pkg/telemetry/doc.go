// Package telemetry groups the gateway's observability.
//
// # Components
//
//   - logging: slog based structured logging with request context and
//     credential redaction
//   - metrics: Prometheus counters and histograms for relay requests,
//     upstream errors and streams
//   - tracing: OpenTelemetry spans for inbound requests and upstream calls,
//     exported over OTLP gRPC
//   - health: liveness, readiness and version endpoints; readiness pings
//     the Ollama daemon
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	defer tracer.Shutdown(context.Background())
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordRequest("chat", metrics.ModeBuffered, 200, elapsed)
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("ollama", health.OllamaCheck(relay))
package telemetry
