package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"mercator-hq/ollamagw/pkg/ollama"
	"mercator-hq/ollamagw/pkg/proxy"
	"mercator-hq/ollamagw/pkg/proxy/types"
	"mercator-hq/ollamagw/pkg/telemetry/metrics"
)

// Generate relays POST {prefix}/generate to /api/generate, buffered.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	start := startOf(r)

	var req types.GenerateRequest
	if !h.parse(w, r, EndpointGenerate, metrics.ModeBuffered, start, &req) {
		return
	}
	r = withModel(r, req.Model)

	h.logger.InfoContext(r.Context(), "relaying generate request")

	payload := proxy.BuildPayload(&req, false)
	h.buffered(w, r, EndpointGenerate, start, func(ctx context.Context) (json.RawMessage, error) {
		return h.relay.Buffered(ctx, http.MethodPost, ollama.PathGenerate, payload)
	})
}

// GenerateStream relays POST {prefix}/generate/stream to /api/generate as
// an NDJSON stream.
func (h *Handler) GenerateStream(w http.ResponseWriter, r *http.Request) {
	start := startOf(r)

	var req types.GenerateRequest
	if !h.parse(w, r, EndpointGenerateStream, metrics.ModeStream, start, &req) {
		return
	}
	r = withModel(r, req.Model)

	h.logger.InfoContext(r.Context(), "relaying streamed generate request")

	h.stream(w, r, EndpointGenerateStream, http.MethodPost, ollama.PathGenerate, start, proxy.BuildPayload(&req, true))
}
