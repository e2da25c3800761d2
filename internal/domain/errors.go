package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across layers. Domain functions are total given
// well-typed inputs; these mark the boundary failures.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidTransition  = errors.New("invalid alert transition")
)

// ValidationError rejects malformed input at the boundary, before any state
// changes.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
