package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"mercator-hq/ollamagw/pkg/ollama"
)

// Relay forwards gateway requests to Ollama and relays the responses back,
// either as one buffered JSON document or as a live NDJSON byte stream.
//
// A Relay is safe for concurrent use.
type Relay struct {
	client *ollama.Client
	logger *slog.Logger
}

// RelayStats summarises one relayed stream.
type RelayStats struct {
	Chunks   int64
	Bytes    int64
	Duration time.Duration

	// Disconnected is set when the caller went away before the upstream
	// stream ended.
	Disconnected bool
}

// NewRelay creates a Relay on top of client.
func NewRelay(client *ollama.Client, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{client: client, logger: logger}
}

// Client returns the underlying upstream client.
func (r *Relay) Client() *ollama.Client {
	return r.client
}

// Buffered performs a buffered upstream call and returns its JSON body
// unchanged. Error statuses become *ollama.HTTPError and an undecodable
// success body becomes *ollama.InvalidJSONError.
func (r *Relay) Buffered(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	resp, err := r.client.Do(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}

	if err := ollama.CheckStatus(resp.StatusCode, resp.Body); err != nil {
		return nil, err
	}

	return ollama.DecodeJSON(resp.Body)
}

// Health calls the daemon root. Ollama answers it with plain text, which is
// wrapped as {"status": <text>}; an empty body reports "ok".
func (r *Relay) Health(ctx context.Context) (json.RawMessage, error) {
	resp, err := r.client.Do(ctx, http.MethodGet, ollama.PathRoot, nil)
	if err != nil {
		return nil, err
	}

	if err := ollama.CheckStatus(resp.StatusCode, resp.Body); err != nil {
		return nil, err
	}

	if body, err := ollama.DecodeJSON(resp.Body); err == nil {
		return body, nil
	}

	status := string(resp.Body)
	if status == "" {
		status = "ok"
	}
	return json.Marshal(map[string]string{"status": status})
}

// Open starts a streamed upstream call. When the daemon answers with an
// error status the body is read, the stream closed and *ollama.HTTPError
// returned, so nothing has been relayed yet. On success the caller owns the
// stream and must pass it to Pipe or Close it.
func (r *Relay) Open(ctx context.Context, method, path string, payload any) (*ollama.Stream, error) {
	stream, err := r.client.Stream(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}

	if stream.StatusCode >= http.StatusBadRequest {
		defer stream.Close()
		body, readErr := stream.ReadAll()
		if readErr != nil {
			r.logger.WarnContext(ctx, "failed to read upstream error body",
				"path", path,
				"status", stream.StatusCode,
				"error", readErr,
			)
		}
		return nil, ollama.CheckStatus(stream.StatusCode, body)
	}

	return stream, nil
}

// Pipe relays stream to w as NDJSON. Each upstream chunk is written and
// flushed as soon as it arrives, in order, byte for byte. Pipe always closes
// the stream. It stops at the end of the upstream body, when ctx is done, or
// when a write to w fails; in the last two cases the upstream read is
// aborted and stats.Disconnected is set.
//
// The response status and headers are committed before the first chunk, so
// errors returned by Pipe can only be logged, not sent to the caller.
func (r *Relay) Pipe(ctx context.Context, w http.ResponseWriter, stream *ollama.Stream) (RelayStats, error) {
	start := time.Now()
	defer stream.Close()

	SetNDJSONHeaders(w)
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return r.finish(stream, start, true), fmt.Errorf("failed to flush stream headers: %w", err)
	}

	for {
		chunk, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return r.finish(stream, start, false), nil
			}
			if ctx.Err() != nil {
				return r.finish(stream, start, true), ctx.Err()
			}
			return r.finish(stream, start, false), fmt.Errorf("upstream stream interrupted: %w", err)
		}

		if _, err := w.Write(chunk); err != nil {
			return r.finish(stream, start, true), fmt.Errorf("failed to write stream chunk: %w", err)
		}
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return r.finish(stream, start, true), fmt.Errorf("failed to flush stream chunk: %w", err)
		}

		if ctx.Err() != nil {
			return r.finish(stream, start, true), ctx.Err()
		}
	}
}

func (r *Relay) finish(stream *ollama.Stream, start time.Time, disconnected bool) RelayStats {
	stream.Close()
	chunks, bytes := stream.Totals()
	return RelayStats{
		Chunks:       chunks,
		Bytes:        bytes,
		Duration:     time.Since(start),
		Disconnected: disconnected,
	}
}
