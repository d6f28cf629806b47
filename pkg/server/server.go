package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"

	"mercator-hq/ollamagw/pkg/config"
	"mercator-hq/ollamagw/pkg/proxy"
	"mercator-hq/ollamagw/pkg/proxy/handlers"
	"mercator-hq/ollamagw/pkg/proxy/middleware"
	"mercator-hq/ollamagw/pkg/security/auth"
	gwtls "mercator-hq/ollamagw/pkg/security/tls"
	"mercator-hq/ollamagw/pkg/telemetry/health"
	"mercator-hq/ollamagw/pkg/telemetry/metrics"
	"mercator-hq/ollamagw/pkg/telemetry/tracing"
)

// Dependencies are the components the server routes to. Relay is
// required; everything else may be nil.
type Dependencies struct {
	Relay   *proxy.Relay
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Guard   *auth.Guard
	Checker *health.Checker
	Version health.VersionInfo
	Logger  *slog.Logger
}

// Server is the gateway's HTTP server.
type Server struct {
	config       *config.Config
	deps         Dependencies
	logger       *slog.Logger
	httpServer   *http.Server
	listener     net.Listener
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a server. It does not listen until Start.
func New(cfg *config.Config, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:       cfg,
		deps:         deps,
		logger:       logger,
		shutdownChan: make(chan struct{}),
	}
}

// Start listens on proxy.listen_address and serves until ctx is done, Stop
// is called or the listener fails. It then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return errors.New("server is already running")
	}

	proxyCfg := &s.config.Proxy
	s.httpServer = &http.Server{
		Addr:           proxyCfg.ListenAddress,
		Handler:        s.Handler(),
		ReadTimeout:    proxyCfg.ReadTimeout,
		WriteTimeout:   proxyCfg.WriteTimeout,
		IdleTimeout:    proxyCfg.IdleTimeout,
		MaxHeaderBytes: proxyCfg.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	tlsCfg := &s.config.Security.TLS
	if tlsCfg.Enabled {
		tlsConfig, err := gwtls.ServerConfig(ctx, tlsCfg, s.logger)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
		s.httpServer.TLSConfig = tlsConfig
	}

	listener, err := net.Listen("tcp", proxyCfg.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", proxyCfg.ListenAddress, err)
	}
	s.listener = listener
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting gateway server",
			"address", listener.Addr().String(),
			"prefix", s.prefix(),
			"upstream", s.deps.Relay.Client().BaseURL(),
			"tls_enabled", tlsCfg.Enabled,
			"auth_enabled", s.deps.Guard.Enabled(),
		)

		var err error
		if tlsCfg.Enabled {
			// Certificates are already in TLSConfig.
			err = s.httpServer.ServeTLS(listener, "", "")
		} else {
			err = s.httpServer.Serve(listener)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
	case err := <-errChan:
		s.markStopped()
		return err
	}
	return s.Shutdown(context.Background())
}

// Stop asks a running Start to shut down.
func (s *Server) Stop() {
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// Shutdown gracefully shuts down the server, waiting up to
// proxy.shutdown_timeout for open requests. Streams still running when the
// timeout expires are cut.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if !s.IsRunning() {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.Proxy.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Proxy.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			_ = s.httpServer.Close()
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.markStopped()
		s.logger.Info("gateway server stopped")
	})

	return shutdownErr
}

func (s *Server) markStopped() {
	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler builds the routed handler with the full middleware chain:
//
//	Recovery(Logging(RequestID(Tracing(CORS(BodyLimit(mux))))))
//
// Relay routes are wrapped with the auth guard, and buffered relay routes
// with a request deadline. Probes and metrics are never guarded.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	prefix := s.prefix()

	relay := handlers.New(s.deps.Relay, handlers.Options{
		MaxBodyBytes: s.config.Proxy.MaxBodyBytes,
		Metrics:      s.deps.Metrics,
		Logger:       s.logger,
	})
	bufferedTimeout := middleware.TimeoutMiddleware(s.config.Upstream.RequestTimeout)

	for _, route := range relay.Routes() {
		var h http.Handler = route.Handler
		if route.Buffered {
			h = bufferedTimeout(h)
		}
		h = s.deps.Guard.Wrap(h)
		mux.Handle(route.Method+" "+prefix+route.Path, h)
	}

	if s.deps.Checker != nil {
		health.Register(mux, &s.config.Telemetry.Health, s.deps.Checker, s.deps.Version)
	}

	metricsCfg := &s.config.Telemetry.Metrics
	if metricsCfg.Enabled && s.deps.Metrics != nil {
		mux.Handle(http.MethodGet+" "+metricsCfg.Path, s.deps.Metrics.Handler())
	}

	var handler http.Handler = mux
	handler = middleware.BodyLimitMiddleware(s.config.Proxy.MaxBodyBytes)(handler)
	handler = middleware.CORSMiddleware(&s.config.Proxy.CORS)(handler)
	if s.deps.Tracer.Enabled() {
		handler = tracing.HTTPMiddleware(s.deps.Tracer, handler)
	}
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

func (s *Server) prefix() string {
	prefix := strings.TrimRight(s.config.Proxy.PathPrefix, "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}
