package config

import (
	"fmt"
	"sync"
)

// The gateway's effective configuration. The run command installs it once
// flag overrides are applied and replaces it on every successful reload.
var (
	active   *Config
	activeMu sync.RWMutex
)

// Active returns the installed configuration, or nil before Install.
func Active() *Config {
	activeMu.RLock()
	defer activeMu.RUnlock()
	return active
}

// Install makes cfg the active configuration.
func Install(cfg *Config) {
	activeMu.Lock()
	defer activeMu.Unlock()
	active = cfg
}

// Reload reads path again with environment overrides, lets mutate re-apply
// command line overrides, and validates the result. The new configuration
// is installed only when every step succeeds; otherwise the active one is
// left as it was.
func Reload(path string, mutate func(*Config)) (*Config, error) {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload configuration: %w", err)
	}

	if mutate != nil {
		mutate(cfg)
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("reloaded configuration is invalid: %w", err)
		}
	}

	Install(cfg)
	return cfg, nil
}
