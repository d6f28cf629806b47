package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"mercator-hq/ollamagw/pkg/proxy/types"
)

const (
	// MaxRequestBodySize is the default inbound body limit (10MB).
	MaxRequestBodySize = 10 * 1024 * 1024

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"
)

// ParseRequest decodes the JSON body of r into dst and validates it.
// Bodies larger than maxBytes are rejected; maxBytes <= 0 uses
// MaxRequestBodySize. Every failure is a *RequestError.
//
// Example usage:
//
//	var req types.ChatRequest
//	if err := proxy.ParseRequest(r, &req, cfg.Proxy.MaxBodyBytes); err != nil {
//	    proxy.WriteError(w, err)
//	    return
//	}
func ParseRequest(r *http.Request, dst types.UpstreamRequest, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = MaxRequestBodySize
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &RequestError{
				Status:  http.StatusRequestEntityTooLarge,
				Message: fmt.Sprintf("%s: limit is %d bytes", types.DetailBodyTooLarge, tooLarge.Limit),
				Param:   "body",
			}
		}
		return &RequestError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("failed to read request body: %v", err),
			Param:   "body",
		}
	}

	if int64(len(body)) > maxBytes {
		return &RequestError{
			Status:  http.StatusRequestEntityTooLarge,
			Message: fmt.Sprintf("%s: limit is %d bytes", types.DetailBodyTooLarge, maxBytes),
			Param:   "body",
		}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		var valErr *types.ValidationError
		if errors.As(err, &valErr) {
			return newValidationRequestError(valErr)
		}
		return &RequestError{
			Status:  http.StatusUnprocessableEntity,
			Message: fmt.Sprintf("%s: %v", types.DetailInvalidJSON, err),
			Param:   "body",
		}
	}

	if err := dst.Validate(); err != nil {
		var valErr *types.ValidationError
		if errors.As(err, &valErr) {
			return newValidationRequestError(valErr)
		}
		return &RequestError{Status: http.StatusUnprocessableEntity, Message: err.Error()}
	}

	return nil
}

func newValidationRequestError(err *types.ValidationError) *RequestError {
	return &RequestError{
		Status:  http.StatusUnprocessableEntity,
		Message: err.Error(),
		Param:   err.Field,
	}
}

// RequestError represents a request parsing or validation error.
type RequestError struct {
	Status  int
	Message string
	Param   string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// ToErrorResponse converts a RequestError to an error body.
func (e *RequestError) ToErrorResponse() *types.ErrorResponse {
	return types.NewErrorResponse(e.Message)
}
