package proxy

import (
	"context"
	"errors"
	"net/http"

	"mercator-hq/ollamagw/pkg/ollama"
	"mercator-hq/ollamagw/pkg/proxy/types"
	"mercator-hq/ollamagw/pkg/telemetry/metrics"
)

// HandleError maps an error to the status and body sent to the caller.
//
//   - *RequestError: its own status (422 for validation failures)
//   - *ollama.HTTPError: the upstream status and extracted detail
//   - *ollama.InvalidJSONError: 500 "Invalid JSON response from Ollama"
//   - *ollama.UnreachableError: 502, or 504 when the daemon timed out
//   - context.DeadlineExceeded: 504
//   - anything else: 500
//
// Example usage:
//
//	if err != nil {
//	    status, body := HandleError(err)
//	    WriteJSON(w, status, body)
//	    return
//	}
func HandleError(err error) (int, *types.ErrorResponse) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status, reqErr.ToErrorResponse()
	}

	var httpErr *ollama.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, types.NewErrorResponse(httpErr.Message)
	}

	var invalidErr *ollama.InvalidJSONError
	if errors.As(err, &invalidErr) {
		return http.StatusInternalServerError, types.NewErrorResponse(ollama.InvalidJSONMessage)
	}

	var unreachableErr *ollama.UnreachableError
	if errors.As(err, &unreachableErr) {
		return unreachableErr.StatusCode(), types.NewErrorResponse(unreachableErr.Message())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, types.NewErrorResponse(ollama.TimeoutMessage)
	}

	return http.StatusInternalServerError, types.NewServerError()
}

// ErrorKind classifies an upstream failure for metrics. It returns "" for
// errors that did not come from the upstream call.
func ErrorKind(err error) string {
	var httpErr *ollama.HTTPError
	if errors.As(err, &httpErr) {
		return metrics.KindHTTP
	}

	var invalidErr *ollama.InvalidJSONError
	if errors.As(err, &invalidErr) {
		return metrics.KindInvalidJSON
	}

	var unreachableErr *ollama.UnreachableError
	if errors.As(err, &unreachableErr) {
		if unreachableErr.Timeout {
			return metrics.KindTimeout
		}
		return metrics.KindUnreachable
	}

	return ""
}
