package auth

import (
	"crypto/subtle"
	"fmt"
	"sync"
	"time"
)

// APIKeyValidator validates API keys against a configured set of keys. Keys
// from the config file and from the keys file are tracked separately so the
// keys file can be reloaded without touching the static ones.
type APIKeyValidator struct {
	mu   sync.RWMutex
	keys map[string]*APIKeyInfo
}

// NewAPIKeyValidator creates a new API key validator with the given keys.
func NewAPIKeyValidator(keys []*APIKeyInfo) *APIKeyValidator {
	keyMap := make(map[string]*APIKeyInfo, len(keys))
	for _, key := range keys {
		keyMap[key.Key] = key
	}

	return &APIKeyValidator{
		keys: keyMap,
	}
}

// Validate checks if the given API key is valid and returns its info.
func (v *APIKeyValidator) Validate(key string) (*APIKeyInfo, error) {
	if key == "" {
		return nil, ErrMissingKey
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	info, ok := v.keys[key]
	if !ok || subtle.ConstantTimeCompare([]byte(info.Key), []byte(key)) != 1 {
		return nil, ErrInvalidKey
	}

	if !info.Enabled {
		return nil, ErrKeyDisabled
	}

	return info, nil
}

// List returns all configured API keys.
func (v *APIKeyValidator) List() []*APIKeyInfo {
	v.mu.RLock()
	defer v.mu.RUnlock()

	keys := make([]*APIKeyInfo, 0, len(v.keys))
	for _, key := range v.keys {
		keys = append(keys, key)
	}
	return keys
}

// Add adds a new API key to the validator.
func (v *APIKeyValidator) Add(info *APIKeyInfo) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys[info.Key] = info
}

// Remove removes an API key from the validator.
func (v *APIKeyValidator) Remove(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.keys, key)
}

// ReplaceSource atomically swaps every key of the given source for keys.
// A key already present from another source keeps that source.
func (v *APIKeyValidator) ReplaceSource(source string, keys []string) int {
	now := time.Now()

	v.mu.Lock()
	defer v.mu.Unlock()

	for k, info := range v.keys {
		if info.Source == source {
			delete(v.keys, k)
		}
	}

	added := 0
	for i, key := range keys {
		if _, exists := v.keys[key]; exists {
			continue
		}
		v.keys[key] = &APIKeyInfo{
			Key:      key,
			ID:       fmt.Sprintf("%s:%d", source, i+1),
			Source:   source,
			Enabled:  true,
			LoadedAt: now,
		}
		added++
	}
	return added
}

// Count returns the number of keys of the given source, or of every source
// when source is empty.
func (v *APIKeyValidator) Count(source string) int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if source == "" {
		return len(v.keys)
	}
	n := 0
	for _, info := range v.keys {
		if info.Source == source {
			n++
		}
	}
	return n
}
