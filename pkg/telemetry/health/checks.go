package health

import (
	"context"
	"encoding/json"
)

// UpstreamPinger calls the Ollama daemon root, as the relay's Health does.
type UpstreamPinger interface {
	Health(ctx context.Context) (json.RawMessage, error)
}

// OllamaCheck reports the daemon unhealthy when its root cannot be reached
// or answers with an error status.
func OllamaCheck(p UpstreamPinger) CheckFunc {
	return func(ctx context.Context) error {
		_, err := p.Health(ctx)
		return err
	}
}
