package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Handlers check for this interface before falling back to a 500.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrValidation = errors.New("validation failed")
	ErrConversion = errors.New("conversion failed")
)

// ValidationError indicates a malformed or incomplete request.
// Message is returned to the client verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string   { return e.Message }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match against ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError with the given client-facing message
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ConversionError indicates the converter failed or could not be reached,
// or that staging its output through the filesystem failed.
type ConversionError struct {
	Message string // Client-facing message, e.g. "Pandoc conversion failed: ..."
	Err     error  // Underlying cause (tool stderr, I/O error)
}

func (e *ConversionError) Error() string   { return e.Message }
func (e *ConversionError) StatusCode() int { return http.StatusInternalServerError }
func (e *ConversionError) Unwrap() error   { return e.Err }

// Is allows errors.Is() to match against ErrConversion
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

// NewConversionError wraps err as a converter failure.
// The message always carries the underlying detail.
func NewConversionError(err error) *ConversionError {
	return &ConversionError{
		Message: "Pandoc conversion failed: " + err.Error(),
		Err:     err,
	}
}
