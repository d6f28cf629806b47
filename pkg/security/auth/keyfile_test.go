package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/ollamagw/pkg/config"
)

func writeKeys(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadKeysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys")
	writeKeys(t, path, "# team keys\nsk-alice\n\n  sk-bob  \n#sk-disabled\n")

	keys, err := LoadKeysFile(path)
	if err != nil {
		t.Fatalf("LoadKeysFile() error = %v", err)
	}
	if len(keys) != 2 || keys[0] != "sk-alice" || keys[1] != "sk-bob" {
		t.Errorf("keys = %q", keys)
	}

	if _, err := LoadKeysFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestKeyFileWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys")
	writeKeys(t, path, "sk-old\n")

	validator := NewAPIKeyValidator(nil)
	validator.ReplaceSource(SourceFile, []string{"sk-old"})

	watcher, err := NewKeyFileWatcher(path, validator, nil)
	if err != nil {
		t.Fatalf("NewKeyFileWatcher() error = %v", err)
	}
	defer watcher.Close()

	writeKeys(t, path, "sk-new\n")

	deadline := time.After(3 * time.Second)
	for {
		select {
		case err := <-watcher.reloaded:
			if err != nil {
				continue
			}
			if _, err := validator.Validate("sk-new"); err == nil {
				if _, err := validator.Validate("sk-old"); !errors.Is(err, ErrInvalidKey) {
					t.Errorf("old key after reload: error = %v", err)
				}
				return
			}
		case <-deadline:
			t.Fatal("keys file change was not picked up")
		}
	}
}

func TestKeyFileWatcher_CloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys")
	writeKeys(t, path, "sk-a\n")

	watcher, err := NewKeyFileWatcher(path, NewAPIKeyValidator(nil), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := watcher.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := watcher.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestNewGuard(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		guard, err := NewGuard(&config.AuthConfig{Enabled: false, Keys: []string{"sk-a"}}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if guard.Enabled() || guard.Validator() != nil {
			t.Error("disabled guard should not check keys")
		}
		if err := guard.Close(); err != nil {
			t.Error(err)
		}
	})

	t.Run("config and file keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keys")
		writeKeys(t, path, "sk-file\n")

		guard, err := NewGuard(&config.AuthConfig{
			Enabled:  true,
			Header:   "Authorization",
			Scheme:   "Bearer",
			Keys:     []string{"sk-config"},
			KeysFile: path,
			Watch:    true,
		}, nil)
		if err != nil {
			t.Fatalf("NewGuard() error = %v", err)
		}
		defer guard.Close()

		for _, key := range []string{"sk-config", "sk-file"} {
			if _, err := guard.Validator().Validate(key); err != nil {
				t.Errorf("Validate(%q) error = %v", key, err)
			}
		}
	})

	t.Run("missing keys file", func(t *testing.T) {
		_, err := NewGuard(&config.AuthConfig{
			Enabled:  true,
			KeysFile: filepath.Join(t.TempDir(), "missing"),
		}, nil)
		if err == nil {
			t.Error("expected error for missing keys file")
		}
	})
}

func TestGuard_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys")
	writeKeys(t, path, "sk-file\n")

	cfg := &config.AuthConfig{
		Enabled:  true,
		Header:   "Authorization",
		Scheme:   "Bearer",
		Keys:     []string{"sk-old", "sk-moving"},
		KeysFile: path,
	}
	guard, err := NewGuard(cfg, nil)
	if err != nil {
		t.Fatalf("NewGuard() error = %v", err)
	}
	defer guard.Close()

	writeKeys(t, path, "sk-file\nsk-moving\n")
	n, err := guard.Reload(&config.AuthConfig{
		Enabled:  true,
		Keys:     []string{"sk-new"},
		KeysFile: path,
	})
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Reload() = %d keys, want 3", n)
	}

	tests := []struct {
		key  string
		want error
	}{
		{"sk-new", nil},
		{"sk-file", nil},
		{"sk-moving", nil},
		{"sk-old", ErrInvalidKey},
	}
	for _, tt := range tests {
		if _, err := guard.Validator().Validate(tt.key); !errors.Is(err, tt.want) {
			t.Errorf("Validate(%q) error = %v, want %v", tt.key, err, tt.want)
		}
	}

	t.Run("unreadable file keeps keys", func(t *testing.T) {
		_, err := guard.Reload(&config.AuthConfig{
			Enabled:  true,
			Keys:     []string{"sk-other"},
			KeysFile: filepath.Join(t.TempDir(), "missing"),
		})
		if err == nil {
			t.Fatal("expected error for missing keys file")
		}
		if _, err := guard.Validator().Validate("sk-new"); err != nil {
			t.Errorf("existing key rejected after failed reload: %v", err)
		}
	})

	t.Run("disabled guard", func(t *testing.T) {
		disabled, _ := NewGuard(&config.AuthConfig{}, nil)
		if n, err := disabled.Reload(&config.AuthConfig{Keys: []string{"x"}}); n != 0 || err != nil {
			t.Errorf("Reload() = %d, %v", n, err)
		}
	})
}
