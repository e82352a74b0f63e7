package tools

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/usestring/apimatch-mcp/internal/catalog"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeEmptyCatalog = "EMPTY_CATALOG"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeTimeout      = "TIMEOUT"
	ErrCodeUpstream     = "UPSTREAM_ERROR"
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

// WrapEngineError converts an engine or executor error into a coded error.
func WrapEngineError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError

	switch {
	case errors.Is(err, catalog.ErrEmptyCatalog):
		coded = &CodedError{
			Code:    ErrCodeEmptyCatalog,
			Message: "no endpoints ingested; load a spec first",
			Cause:   err,
		}
	case isTimeout(err):
		coded = &CodedError{
			Code:    ErrCodeTimeout,
			Message: "request timed out",
			Cause:   err,
		}
	default:
		coded = &CodedError{
			Code:    ErrCodeUpstream,
			Message: err.Error(),
			Cause:   err,
		}
	}

	slog.Warn("tool error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "context deadline exceeded")
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
