// Package ollamatest provides a scriptable fake Ollama daemon for tests.
package ollamatest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// Response defines a scripted upstream response.
type Response struct {
	// StatusCode defaults to 200.
	StatusCode int

	// Body is written as-is for string and []byte values and JSON encoded
	// otherwise.
	Body any

	// Headers are set before the status is written.
	Headers map[string]string

	// Delay is applied before the status line is written.
	Delay time.Duration

	// Chunks are written one at a time with a flush after each. When set,
	// Body is ignored and Content-Type defaults to application/x-ndjson.
	Chunks []string

	// ChunkDelay is applied between chunks.
	ChunkDelay time.Duration

	// Hold keeps the stream open after the chunks until the client goes
	// away.
	Hold bool
}

// Request is a recorded upstream request.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into a generic map.
func (r Request) JSON() map[string]any {
	var m map[string]any
	_ = json.Unmarshal(r.Body, &m)
	return m
}

// Server is a fake Ollama daemon backed by httptest.
type Server struct {
	server    *httptest.Server
	mu        sync.Mutex
	responses map[string]Response
	requests  []Request

	// released receives one value each time a held stream observes its
	// client disconnecting.
	released chan struct{}
}

// NewServer starts a fake daemon. Unscripted routes answer 404 with an
// Ollama style error body.
func NewServer() *Server {
	s := &Server{
		responses: make(map[string]Response),
		released:  make(chan struct{}, 16),
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL returns the fake daemon's base URL.
func (s *Server) URL() string {
	return s.server.URL
}

// Close shuts the server down.
func (s *Server) Close() {
	s.server.CloseClientConnections()
	s.server.Close()
}

// Handle scripts the response for a method and path, e.g.
// Handle(http.MethodPost, "/api/chat", Response{...}).
func (s *Server) Handle(method, path string, resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[method+" "+path] = resp
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request, or false if none arrived.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Released is signalled when a held stream sees its client disconnect.
func (s *Server) Released() <-chan struct{} {
	return s.released
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	resp, ok := s.responses[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"404 page not found"}`))
		return
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	if len(resp.Chunks) > 0 || resp.Hold {
		s.stream(w, r, status, resp)
		return
	}

	switch v := resp.Body.(type) {
	case nil:
		w.WriteHeader(status)
	case string:
		w.WriteHeader(status)
		_, _ = w.Write([]byte(v))
	case []byte:
		w.WriteHeader(status)
		_, _ = w.Write(v)
	default:
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (s *Server) stream(w http.ResponseWriter, r *http.Request, status int, resp Response) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/x-ndjson")
	}
	w.WriteHeader(status)

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for i, chunk := range resp.Chunks {
		if i > 0 && resp.ChunkDelay > 0 {
			select {
			case <-time.After(resp.ChunkDelay):
			case <-r.Context().Done():
				s.released <- struct{}{}
				return
			}
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	if resp.Hold {
		<-r.Context().Done()
		s.released <- struct{}{}
	}
}

// Line encodes v as one NDJSON line.
func Line(v any) string {
	data, _ := json.Marshal(v)
	return string(data) + "\n"
}
