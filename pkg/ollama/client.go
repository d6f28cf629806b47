package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mercator-hq/ollamagw/pkg/config"
	"mercator-hq/ollamagw/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/trace"
)

// Upstream API paths.
const (
	PathChat     = "/api/chat"
	PathGenerate = "/api/generate"
	PathTags     = "/api/tags"
	PathPull     = "/api/pull"
	PathModels   = "/api/models"
	PathRoot     = "/"
)

// Response is a fully buffered upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client talks to a single Ollama daemon. It has two modes: Do waits for
// the complete body under a total deadline, Stream returns as soon as
// headers arrive and reads the body without a deadline. No request is ever
// retried.
//
// A Client is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	buffered   *http.Client
	streaming  *http.Client
	bufferSize int
	tracer     *tracing.Tracer
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTracer records a client span per upstream call.
func WithTracer(t *tracing.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithLogger sets the logger used for upstream diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client from upstream configuration. Both modes share
// one connection pool.
func NewClient(cfg config.UpstreamConfig, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid ollama base URL %q: scheme and host are required", cfg.BaseURL)
	}

	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		ResponseHeaderTimeout: cfg.StreamHeaderTimeout,
		// NDJSON chunks must reach the caller as the daemon emits them.
		DisableCompression: true,
	}

	bufferSize := cfg.StreamBufferSize
	if bufferSize <= 0 {
		bufferSize = config.DefaultUpstreamStreamBufferSize
	}

	c := &Client{
		baseURL: base,
		buffered: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		streaming: &http.Client{
			Transport: transport,
		},
		bufferSize: bufferSize,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the daemon root URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Do performs a buffered call and returns the complete response. The status
// is not interpreted; see CheckStatus.
func (c *Client) Do(ctx context.Context, method, path string, payload any) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "ollama.request", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	tracing.SetUpstreamAttributes(span, method, path, "buffered")

	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		tracing.SetError(span, err)
		return nil, err
	}

	start := time.Now()
	resp, err := c.buffered.Do(req)
	if err != nil {
		err = classify(ctx, method, path, err)
		tracing.SetError(span, err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = classify(ctx, method, path, err)
		tracing.SetError(span, err)
		return nil, err
	}

	tracing.SetStatusCode(span, resp.StatusCode)
	c.logger.DebugContext(ctx, "ollama response",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Stream performs a streamed call. It returns once the status line and
// headers are available; the caller must Close the returned Stream.
// Cancelling ctx aborts the read in progress.
func (c *Client) Stream(ctx context.Context, method, path string, payload any) (*Stream, error) {
	ctx, span := c.tracer.Start(ctx, "ollama.stream", trace.WithSpanKind(trace.SpanKindClient))
	tracing.SetUpstreamAttributes(span, method, path, "stream")

	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		tracing.SetError(span, err)
		span.End()
		return nil, err
	}

	resp, err := c.streaming.Do(req)
	if err != nil {
		err = classify(ctx, method, path, err)
		tracing.SetError(span, err)
		span.End()
		return nil, err
	}

	tracing.SetStatusCode(span, resp.StatusCode)
	c.logger.DebugContext(ctx, "ollama stream opened",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
	)

	return newStream(ctx, method, path, resp, make([]byte, c.bufferSize), span), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode ollama request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, application/x-ndjson")
	tracing.Inject(ctx, req.Header)

	return req, nil
}

// resolve joins path onto the base URL, keeping any base path prefix.
func (c *Client) resolve(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u.String()
}

// classify converts transport failures into *UnreachableError. A caller
// cancellation is returned as the context error so it is not mistaken for
// an unreachable daemon.
func classify(ctx context.Context, method, path string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("ollama %s %s: %w", method, path, context.Canceled)
	}

	timeout := errors.Is(err, context.DeadlineExceeded)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		timeout = true
	}

	return &UnreachableError{
		Method:  method,
		Path:    path,
		Timeout: timeout,
		Cause:   err,
	}
}
