package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

// Health relays GET {prefix}/health to the daemon root. Ollama answers
// with plain text such as "Ollama is running", which is returned as
// {"status": "<text>"}.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.buffered(w, r, EndpointHealth, startOf(r), func(ctx context.Context) (json.RawMessage, error) {
		return h.relay.Health(ctx)
	})
}
