package ollama

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"mercator-hq/ollamagw/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/trace"
)

// Stream is an open streamed upstream response.
//
// Next returns the body in the pieces the network delivers them, never
// merged or split beyond the read buffer size. Close releases the
// connection and must be called on every path; it is idempotent.
type Stream struct {
	StatusCode int
	Header     http.Header

	ctx    context.Context
	method string
	path   string
	body   io.ReadCloser
	buf    []byte
	span   trace.Span
	err    error

	chunks int64
	bytes  int64

	closeOnce sync.Once
}

func newStream(ctx context.Context, method, path string, resp *http.Response, buf []byte, span trace.Span) *Stream {
	return &Stream{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		ctx:        ctx,
		method:     method,
		path:       path,
		body:       resp.Body,
		buf:        buf,
		span:       span,
	}
}

// Next returns the next chunk of the body. The slice is only valid until
// the following call. At the end of the body it returns io.EOF.
func (s *Stream) Next() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}

	for {
		n, err := s.body.Read(s.buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.err = io.EOF
			} else {
				s.err = classify(s.ctx, s.method, s.path, err)
			}
		}
		if n > 0 {
			s.chunks++
			s.bytes += int64(n)
			return s.buf[:n], nil
		}
		if s.err != nil {
			return nil, s.err
		}
	}
}

// ReadAll drains the rest of the body. It is used to capture error
// bodies before the stream is discarded.
func (s *Stream) ReadAll() ([]byte, error) {
	body, err := io.ReadAll(s.body)
	if err != nil {
		return body, classify(s.ctx, s.method, s.path, err)
	}
	return body, nil
}

// Totals reports the chunks and bytes returned by Next so far.
func (s *Stream) Totals() (chunks, bytes int64) {
	return s.chunks, s.bytes
}

// Close releases the upstream connection and ends the trace span.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.body.Close()
		tracing.SetStreamTotals(s.span, s.chunks, s.bytes)
		if s.err != nil && !errors.Is(s.err, io.EOF) {
			tracing.SetError(s.span, s.err)
		}
		s.span.End()
	})
	return err
}
