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

// Chat relays POST {prefix}/chat to /api/chat with stream forced to false
// and returns the daemon's single JSON reply.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	start := startOf(r)

	var req types.ChatRequest
	if !h.parse(w, r, EndpointChat, metrics.ModeBuffered, start, &req) {
		return
	}
	r = withModel(r, req.Model)

	h.logger.InfoContext(r.Context(), "relaying chat request",
		"messages", len(req.Messages),
	)

	payload := proxy.BuildPayload(&req, false)
	h.buffered(w, r, EndpointChat, start, func(ctx context.Context) (json.RawMessage, error) {
		return h.relay.Buffered(ctx, http.MethodPost, ollama.PathChat, payload)
	})
}

// ChatStream relays POST {prefix}/chat/stream to /api/chat with stream
// forced to true and pipes the NDJSON chunks back unchanged.
func (h *Handler) ChatStream(w http.ResponseWriter, r *http.Request) {
	start := startOf(r)

	var req types.ChatRequest
	if !h.parse(w, r, EndpointChatStream, metrics.ModeStream, start, &req) {
		return
	}
	r = withModel(r, req.Model)

	h.logger.InfoContext(r.Context(), "relaying streamed chat request",
		"messages", len(req.Messages),
	)

	h.stream(w, r, EndpointChatStream, http.MethodPost, ollama.PathChat, start, proxy.BuildPayload(&req, true))
}
