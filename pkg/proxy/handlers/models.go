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

// Models relays GET {prefix}/models to /api/tags.
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	h.buffered(w, r, EndpointModels, startOf(r), func(ctx context.Context) (json.RawMessage, error) {
		return h.relay.Buffered(ctx, http.MethodGet, ollama.PathTags, nil)
	})
}

// Pull relays POST {prefix}/pull to /api/pull. The caller's stream flag
// picks the mode and is forwarded as given; unset means streamed.
func (h *Handler) Pull(w http.ResponseWriter, r *http.Request) {
	start := startOf(r)

	var req types.PullRequest
	if !h.parse(w, r, EndpointPull, metrics.ModeStream, start, &req) {
		return
	}
	r = withModel(r, req.Model)

	payload, stream := proxy.PullPayload(&req)

	h.logger.InfoContext(r.Context(), "relaying pull request", "stream", stream)

	if stream {
		h.stream(w, r, EndpointPull, http.MethodPost, ollama.PathPull, start, payload)
		return
	}
	h.buffered(w, r, EndpointPull, start, func(ctx context.Context) (json.RawMessage, error) {
		return h.relay.Buffered(ctx, http.MethodPost, ollama.PathPull, payload)
	})
}

// RemoveModel relays DELETE {prefix}/models/{model} to DELETE /api/models
// with body {"model": <model>}. Namespaced names such as "library/llama3"
// are accepted.
func (h *Handler) RemoveModel(w http.ResponseWriter, r *http.Request) {
	start := startOf(r)

	model := r.PathValue("model")
	if model == "" {
		h.fail(w, r, EndpointRemoveModel, metrics.ModeBuffered, start, &proxy.RequestError{
			Status:  http.StatusUnprocessableEntity,
			Message: (&types.ValidationError{Field: "model", Message: "model is required"}).Error(),
			Param:   "model",
		})
		return
	}
	r = withModel(r, model)

	h.logger.InfoContext(r.Context(), "relaying model removal")

	payload := proxy.RemovePayload(model)
	h.buffered(w, r, EndpointRemoveModel, start, func(ctx context.Context) (json.RawMessage, error) {
		return h.relay.Buffered(ctx, http.MethodDelete, ollama.PathModels, payload)
	})
}
