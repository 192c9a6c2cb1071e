package duffel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTransportTimeout marks a request that timed out waiting for the upstream
// response. It is the only failure the client retries.
var ErrTransportTimeout = errors.New("upstream response timed out")

// ValidationError reports malformed or insufficient input. It is never
// retried and is returned before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Invalid builds a ValidationError for the named field.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// UpstreamError wraps any failure talking to Duffel: status errors, malformed
// bodies, transport failures and exhausted retries.
type UpstreamError struct {
	Op       string // e.g. "create offer request"
	Attempts int
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("duffel %s failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
	}
	return fmt.Sprintf("duffel %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from Duffel.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("duffel API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("duffel API error %d: %s", e.StatusCode, e.Message)
}

// errorResponse is the JSON structure Duffel uses for errors.
type errorResponse struct {
	Errors []struct {
		Code    string `json:"code"`
		Title   string `json:"title"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (r errorResponse) toAPIError(status int) *APIError {
	apiErr := &APIError{StatusCode: status}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		if apiErr.Code == "" {
			apiErr.Code = e.Code
		}
		switch {
		case e.Message != "":
			msgs = append(msgs, e.Message)
		case e.Title != "":
			msgs = append(msgs, e.Title)
		}
	}
	apiErr.Message = strings.Join(msgs, "; ")
	return apiErr
}
