package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/usestring/find-flights-mcp/pkg/duffel"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeUpstreamError = "UPSTREAM_ERROR"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeTimeout       = "TIMEOUT"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapDuffelError converts an error from the duffel package to a coded error.
func WrapDuffelError(err error) error {
	if err == nil {
		return nil
	}

	var (
		coded   *CodedError
		valErr  *duffel.ValidationError
		apiErr  *duffel.APIError
		already *CodedError
	)
	switch {
	case errors.As(err, &already):
		return err
	case errors.As(err, &valErr):
		// Validation failures are the caller's to fix and are not logged.
		return &CodedError{Code: ErrCodeInvalidInput, Message: valErr.Error()}
	case errors.Is(err, duffel.ErrTransportTimeout), errors.Is(err, context.DeadlineExceeded):
		coded = &CodedError{Code: ErrCodeTimeout, Message: "Duffel did not respond in time", Cause: err}
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		coded = &CodedError{Code: ErrCodeNotFound, Message: apiErr.Message, Cause: err}
	case errors.As(err, &apiErr):
		coded = &CodedError{Code: ErrCodeUpstreamError, Message: apiErr.Message, Cause: err}
	default:
		coded = &CodedError{Code: ErrCodeUpstreamError, Message: "Duffel request failed", Cause: err}
	}

	slog.Warn("duffel API error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)
	return coded
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(format string, args ...any) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsNotFound reports whether err maps to ErrCodeNotFound.
func IsNotFound(err error) bool {
	var apiErr *duffel.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
