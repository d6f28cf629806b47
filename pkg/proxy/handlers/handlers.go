package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"mercator-hq/ollamagw/pkg/proxy"
	"mercator-hq/ollamagw/pkg/proxy/middleware"
	"mercator-hq/ollamagw/pkg/proxy/types"
	"mercator-hq/ollamagw/pkg/telemetry/logging"
	"mercator-hq/ollamagw/pkg/telemetry/metrics"
)

// Endpoint names used in logs and metric labels.
const (
	EndpointChat           = "chat"
	EndpointChatStream     = "chat_stream"
	EndpointGenerate       = "generate"
	EndpointGenerateStream = "generate_stream"
	EndpointModels         = "models"
	EndpointPull           = "pull"
	EndpointRemoveModel    = "remove_model"
	EndpointHealth         = "health"
)

// Route describes one relay route relative to the gateway path prefix.
type Route struct {
	Name    string
	Method  string
	Path    string
	Handler http.HandlerFunc

	// Buffered routes never stream and may be bounded by a request
	// deadline. Pull can stream, so it is not marked buffered.
	Buffered bool
}

// Options configures a Handler.
type Options struct {
	// MaxBodyBytes bounds inbound request bodies. <= 0 uses
	// proxy.MaxRequestBodySize.
	MaxBodyBytes int64

	// Metrics may be nil.
	Metrics *metrics.Collector

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Handler serves the relay endpoints. Each endpoint validates the inbound
// body, builds the upstream payload and hands it to the Relay; nothing
// about the upstream response is interpreted beyond its status.
type Handler struct {
	relay        *proxy.Relay
	metrics      *metrics.Collector
	logger       *slog.Logger
	maxBodyBytes int64
}

// New creates a Handler on top of relay.
func New(relay *proxy.Relay, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		relay:        relay,
		metrics:      opts.Metrics,
		logger:       logger,
		maxBodyBytes: opts.MaxBodyBytes,
	}
}

// Routes returns every relay route in registration order.
func (h *Handler) Routes() []Route {
	return []Route{
		{Name: EndpointChat, Method: http.MethodPost, Path: "/chat", Handler: h.Chat, Buffered: true},
		{Name: EndpointChatStream, Method: http.MethodPost, Path: "/chat/stream", Handler: h.ChatStream},
		{Name: EndpointGenerate, Method: http.MethodPost, Path: "/generate", Handler: h.Generate, Buffered: true},
		{Name: EndpointGenerateStream, Method: http.MethodPost, Path: "/generate/stream", Handler: h.GenerateStream},
		{Name: EndpointModels, Method: http.MethodGet, Path: "/models", Handler: h.Models, Buffered: true},
		{Name: EndpointPull, Method: http.MethodPost, Path: "/pull", Handler: h.Pull},
		{Name: EndpointRemoveModel, Method: http.MethodDelete, Path: "/models/{model...}", Handler: h.RemoveModel, Buffered: true},
		{Name: EndpointHealth, Method: http.MethodGet, Path: "/health", Handler: h.Health, Buffered: true},
	}
}

// parse decodes the request body into dst. On failure the error response
// has already been written and false is returned.
func (h *Handler) parse(w http.ResponseWriter, r *http.Request, endpoint, mode string, start time.Time, dst types.UpstreamRequest) bool {
	if err := proxy.ParseRequest(r, dst, h.maxBodyBytes); err != nil {
		h.logger.WarnContext(r.Context(), "rejected request",
			"endpoint", endpoint,
			"error", err,
		)
		h.fail(w, r, endpoint, mode, start, err)
		return false
	}
	return true
}

// buffered relays one upstream call and writes its JSON body with status 200.
func (h *Handler) buffered(w http.ResponseWriter, r *http.Request, endpoint string, start time.Time, call func(ctx context.Context) (json.RawMessage, error)) {
	ctx := r.Context()

	body, err := call(ctx)
	if err != nil {
		h.fail(w, r, endpoint, metrics.ModeBuffered, start, err)
		return
	}

	if err := proxy.WriteJSON(w, http.StatusOK, body); err != nil {
		h.logger.WarnContext(ctx, "failed to write response",
			"endpoint", endpoint,
			"error", err,
		)
	}
	h.metrics.RecordRequest(endpoint, metrics.ModeBuffered, http.StatusOK, time.Since(start))
}

// stream opens an upstream stream and pipes it to w. Errors before the
// first chunk are reported with a normal error response; after that the
// stream can only be cut short.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request, endpoint, method, path string, start time.Time, payload any) {
	ctx := r.Context()

	upstream, err := h.relay.Open(ctx, method, path, payload)
	if err != nil {
		h.fail(w, r, endpoint, metrics.ModeStream, start, err)
		return
	}

	h.metrics.StreamStarted()
	stats, err := h.relay.Pipe(ctx, w, upstream)
	h.metrics.StreamFinished(endpoint, stats.Chunks, stats.Bytes)
	h.metrics.RecordRequest(endpoint, metrics.ModeStream, http.StatusOK, time.Since(start))

	switch {
	case stats.Disconnected:
		h.metrics.RecordClientDisconnect(endpoint)
		h.logger.InfoContext(ctx, "client disconnected during stream",
			"endpoint", endpoint,
			"chunks", stats.Chunks,
			"bytes", stats.Bytes,
			"error", err,
		)
	case err != nil:
		h.logger.WarnContext(ctx, "stream ended early",
			"endpoint", endpoint,
			"chunks", stats.Chunks,
			"bytes", stats.Bytes,
			"error", err,
		)
	default:
		h.logger.DebugContext(ctx, "stream completed",
			"endpoint", endpoint,
			"chunks", stats.Chunks,
			"bytes", stats.Bytes,
			"duration_ms", stats.Duration.Milliseconds(),
		)
	}
}

// fail writes the error response for err and records it.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, endpoint, mode string, start time.Time, err error) {
	ctx := r.Context()

	if kind := proxy.ErrorKind(err); kind != "" {
		h.metrics.RecordUpstreamError(endpoint, kind)
		h.logger.ErrorContext(ctx, "upstream request failed",
			"endpoint", endpoint,
			"kind", kind,
			"error", err,
		)
	}

	status, writeErr := proxy.WriteError(w, err)
	if writeErr != nil {
		h.logger.WarnContext(ctx, "failed to write error response", "error", writeErr)
	}
	h.metrics.RecordRequest(endpoint, mode, status, time.Since(start))
}

// startOf returns when the request entered the middleware chain, so the
// duration metric covers auth and body checks too.
func startOf(r *http.Request) time.Time {
	if start := middleware.GetStartTime(r.Context()); !start.IsZero() {
		return start
	}
	return time.Now()
}

// withModel tags the request context so log records carry the model.
func withModel(r *http.Request, model string) *http.Request {
	return r.WithContext(logging.WithModel(r.Context(), model))
}
