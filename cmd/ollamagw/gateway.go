package main

import (
	"context"
	"fmt"
	"log/slog"

	"mercator-hq/ollamagw/pkg/config"
	"mercator-hq/ollamagw/pkg/ollama"
	"mercator-hq/ollamagw/pkg/proxy"
	"mercator-hq/ollamagw/pkg/security/auth"
	"mercator-hq/ollamagw/pkg/telemetry/health"
	"mercator-hq/ollamagw/pkg/telemetry/logging"
	"mercator-hq/ollamagw/pkg/telemetry/metrics"
	"mercator-hq/ollamagw/pkg/telemetry/tracing"
)

// gateway holds the components shared by the commands that talk to Ollama.
type gateway struct {
	logger  *slog.Logger
	tracer  *tracing.Tracer
	relay   *proxy.Relay
	metrics *metrics.Collector
	guard   *auth.Guard
	checker *health.Checker
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	logCfg := logging.FromConfig(cfg.Telemetry.Logging)
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// newUpstream builds the tracer, upstream client and relay. ping and models
// stop here; run continues with buildGateway.
func newUpstream(cfg *config.Config, logger *slog.Logger) (*gateway, error) {
	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version,
		cfg.Telemetry.Health.LivenessPath,
		cfg.Telemetry.Health.ReadinessPath,
		cfg.Telemetry.Metrics.Path,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	client, err := ollama.NewClient(cfg.Upstream,
		ollama.WithTracer(tracer),
		ollama.WithLogger(logger),
	)
	if err != nil {
		_ = tracer.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create upstream client: %w", err)
	}

	return &gateway{
		logger: logger,
		tracer: tracer,
		relay:  proxy.NewRelay(client, logger),
	}, nil
}

// buildGateway wires every component the server needs.
func buildGateway(cfg *config.Config, logger *slog.Logger) (*gateway, error) {
	gw, err := newUpstream(cfg, logger)
	if err != nil {
		return nil, err
	}

	gw.metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	gw.guard, err = auth.NewGuard(&cfg.Security.Auth, logger)
	if err != nil {
		gw.Close()
		return nil, fmt.Errorf("failed to initialize authentication: %w", err)
	}

	gw.checker = health.New(cfg.Telemetry.Health.CheckTimeout)
	gw.checker.RegisterCheck("ollama", health.OllamaCheck(gw.relay))

	return gw, nil
}

// Close releases the key file watcher and flushes pending spans.
func (g *gateway) Close() {
	if err := g.guard.Close(); err != nil {
		g.logger.Warn("failed to stop key file watcher", "error", err)
	}
	if err := g.tracer.Shutdown(context.Background()); err != nil {
		g.logger.Warn("failed to flush traces", "error", err)
	}
}
