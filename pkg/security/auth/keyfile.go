package auth

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// LoadKeysFile reads API keys from path, one per line. Blank lines and
// lines starting with '#' are ignored; surrounding whitespace is trimmed.
func LoadKeysFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keys file: %w", err)
	}
	defer f.Close()

	var keys []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keys = append(keys, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keys file: %w", err)
	}
	return keys, nil
}

// KeyFileWatcher reloads the file-sourced keys of a validator whenever the
// keys file is written or replaced. The parent directory is watched so
// that editors and secret mounts that swap the file by rename are seen.
type KeyFileWatcher struct {
	path      string
	validator *APIKeyValidator
	watcher   *fsnotify.Watcher
	logger    *slog.Logger
	stopCh    chan struct{}
	done      chan struct{}

	// reloaded receives after every reload attempt; used by tests.
	reloaded chan error
}

// NewKeyFileWatcher starts watching path. Close stops it.
func NewKeyFileWatcher(path string, validator *APIKeyValidator, logger *slog.Logger) (*KeyFileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve keys file path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch keys file directory: %w", err)
	}

	w := &KeyFileWatcher{
		path:      abs,
		validator: validator,
		watcher:   watcher,
		logger:    logger,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
		reloaded:  make(chan error, 8),
	}
	go w.watchLoop()

	return w, nil
}

// Reload re-reads the keys file and swaps the file-sourced keys. On error
// the previous keys stay active.
func (w *KeyFileWatcher) Reload() error {
	keys, err := LoadKeysFile(w.path)
	if err != nil {
		return err
	}
	n := w.validator.ReplaceSource(SourceFile, keys)
	w.logger.Info("reloaded API keys", "file", filepath.Base(w.path), "keys", n)
	return nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *KeyFileWatcher) Close() error {
	select {
	case <-w.stopCh:
		return nil
	default:
	}
	close(w.stopCh)
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *KeyFileWatcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			w.logger.Debug("keys file change detected", "op", event.Op.String())

			err := w.Reload()
			if err != nil {
				w.logger.Error("failed to reload API keys", "error", err)
			}
			select {
			case w.reloaded <- err:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("keys file watcher error", "error", err)

		case <-w.stopCh:
			return
		}
	}
}
