package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"mercator-hq/ollamagw/pkg/proxy/types"
	"mercator-hq/ollamagw/pkg/telemetry/logging"
)

// APIKeySource defines where to extract API keys from.
type APIKeySource struct {
	Type   string // header, query
	Name   string // Header name or query param
	Scheme string // "Bearer", etc. (optional)
}

// APIKeyMiddleware is HTTP middleware for API key authentication.
type APIKeyMiddleware struct {
	store   APIKeyStore
	sources []APIKeySource
}

// NewAPIKeyMiddleware creates a new API key authentication middleware.
func NewAPIKeyMiddleware(store APIKeyStore, sources []APIKeySource) *APIKeyMiddleware {
	return &APIKeyMiddleware{
		store:   store,
		sources: sources,
	}
}

// Handle wraps an HTTP handler with API key authentication. Requests
// without a valid key get 401 with {"detail": "Invalid or missing API key"}
// and never reach next.
func (m *APIKeyMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		apiKey := m.extractAPIKey(r)
		keyInfo, err := m.store.Validate(apiKey)
		if err != nil {
			slog.WarnContext(ctx, "rejected request",
				"error", err,
				"key", logging.RedactAPIKey(apiKey),
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			writeUnauthorized(w, m.challenge())
			return
		}

		slog.DebugContext(ctx, "API key authenticated",
			"key_id", keyInfo.ID,
			"source", keyInfo.Source,
			"path", r.URL.Path,
		)

		ctx = context.WithValue(ctx, apiKeyInfoKey, keyInfo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractAPIKey extracts the API key from the request using configured sources.
func (m *APIKeyMiddleware) extractAPIKey(r *http.Request) string {
	for _, source := range m.sources {
		switch source.Type {
		case "header":
			value := strings.TrimSpace(r.Header.Get(source.Name))
			if value == "" {
				continue
			}
			if source.Scheme == "" {
				return value
			}
			scheme, token, ok := strings.Cut(value, " ")
			if ok && strings.EqualFold(scheme, source.Scheme) {
				return strings.TrimSpace(token)
			}

		case "query":
			if value := r.URL.Query().Get(source.Name); value != "" {
				return value
			}
		}
	}

	return ""
}

// challenge is the WWW-Authenticate value for the first header source
// with a scheme.
func (m *APIKeyMiddleware) challenge() string {
	for _, source := range m.sources {
		if source.Type == "header" && source.Scheme != "" {
			return source.Scheme
		}
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter, challenge string) {
	if challenge != "" {
		w.Header().Set("WWW-Authenticate", challenge)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(types.NewErrorResponse(types.DetailUnauthorized))
}

// Context key for API key info
type contextKey string

// #nosec G101 - This is a context key constant, not a credential
const apiKeyInfoKey contextKey = "api_key_info"

// GetAPIKeyInfo retrieves API key info from request context.
func GetAPIKeyInfo(ctx context.Context) (*APIKeyInfo, bool) {
	info, ok := ctx.Value(apiKeyInfoKey).(*APIKeyInfo)
	return info, ok
}
