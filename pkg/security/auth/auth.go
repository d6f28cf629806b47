package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"mercator-hq/ollamagw/pkg/config"
)

// Guard is the authentication check in front of the relay routes. It is
// built from security.auth and owns the keys file watcher, if any.
type Guard struct {
	enabled    bool
	validator  *APIKeyValidator
	middleware *APIKeyMiddleware
	watcher    *KeyFileWatcher
}

// NewGuard builds a Guard from configuration. A disabled config yields a
// Guard whose Wrap is the identity.
func NewGuard(cfg *config.AuthConfig, logger *slog.Logger) (*Guard, error) {
	if !cfg.Enabled {
		return &Guard{}, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	now := time.Now()
	static := make([]*APIKeyInfo, 0, len(cfg.Keys))
	for i, key := range cfg.Keys {
		static = append(static, &APIKeyInfo{
			Key:      key,
			ID:       fmt.Sprintf("%s:%d", SourceConfig, i+1),
			Source:   SourceConfig,
			Enabled:  true,
			LoadedAt: now,
		})
	}
	validator := NewAPIKeyValidator(static)

	g := &Guard{
		enabled:   true,
		validator: validator,
		middleware: NewAPIKeyMiddleware(validator, []APIKeySource{
			{Type: "header", Name: cfg.Header, Scheme: cfg.Scheme},
		}),
	}

	if cfg.KeysFile != "" {
		keys, err := LoadKeysFile(cfg.KeysFile)
		if err != nil {
			return nil, err
		}
		validator.ReplaceSource(SourceFile, keys)

		if cfg.Watch {
			watcher, err := NewKeyFileWatcher(cfg.KeysFile, validator, logger)
			if err != nil {
				return nil, err
			}
			g.watcher = watcher
		}
	}

	logger.Info("API key authentication enabled",
		"config_keys", validator.Count(SourceConfig),
		"file_keys", validator.Count(SourceFile),
		"watch", g.watcher != nil,
	)

	return g, nil
}

// Enabled reports whether requests are checked.
func (g *Guard) Enabled() bool {
	return g != nil && g.enabled
}

// Wrap guards next.
func (g *Guard) Wrap(next http.Handler) http.Handler {
	if !g.Enabled() {
		return next
	}
	return g.middleware.Handle(next)
}

// Validator returns the key store, or nil when disabled.
func (g *Guard) Validator() *APIKeyValidator {
	if g == nil {
		return nil
	}
	return g.validator
}

// Reload swaps the inline keys for cfg.Keys and re-reads the keys file. It
// returns the number of keys now accepted. Turning authentication on or off,
// or changing the header, still needs a restart.
func (g *Guard) Reload(cfg *config.AuthConfig) (int, error) {
	if !g.Enabled() {
		return 0, nil
	}

	var fileKeys []string
	if cfg.KeysFile != "" {
		keys, err := LoadKeysFile(cfg.KeysFile)
		if err != nil {
			return g.validator.Count(""), err
		}
		fileKeys = keys
	}

	// A key that moved between sources must not be dropped by the second
	// replacement, so the inline keys are cleared first.
	g.validator.ReplaceSource(SourceConfig, nil)
	g.validator.ReplaceSource(SourceFile, fileKeys)
	g.validator.ReplaceSource(SourceConfig, cfg.Keys)

	return g.validator.Count(""), nil
}

// Close stops the keys file watcher.
func (g *Guard) Close() error {
	if g == nil || g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}
