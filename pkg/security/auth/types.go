package auth

import (
	"errors"
	"time"
)

// Key sources.
const (
	SourceConfig = "config"
	SourceFile   = "file"
)

// APIKeyInfo describes one accepted API key.
type APIKeyInfo struct {
	Key string

	// ID names the key in logs without revealing it, e.g. "file:3".
	ID string

	// Source is SourceConfig or SourceFile.
	Source string

	Enabled  bool
	LoadedAt time.Time
}

// APIKeyStore stores and validates API keys.
type APIKeyStore interface {
	Validate(key string) (*APIKeyInfo, error)
	List() []*APIKeyInfo
}

var (
	// ErrMissingKey is returned when the request carries no API key.
	ErrMissingKey = errors.New("no API key found")

	// ErrInvalidKey is returned for unknown keys.
	ErrInvalidKey = errors.New("invalid API key")

	// ErrKeyDisabled is returned for known but disabled keys.
	ErrKeyDisabled = errors.New("API key disabled")
)
