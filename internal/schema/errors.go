package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for schema and builder operations.
var (
	// ErrInvalidSchema indicates that a schema declaration is malformed
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrUnknownField indicates that a field name is not declared by the schema
	ErrUnknownField = errors.New("unknown field")

	// ErrTypeMismatch indicates that a value does not have the declared field type
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrMissingField indicates that a required field was never set
	ErrMissingField = errors.New("missing required field")
)

// FieldError describes a failure tied to one field of one entity.
// It wraps one of the sentinel errors above so callers can use errors.Is.
type FieldError struct {
	Entity  string
	Field   string
	Message string
	Err     error
}

// Error returns a formatted error message for the field error.
func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%s.%s: %v", e.Entity, e.Field, e.Err)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns the sentinel error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSchema, fmt.Sprintf(format, args...))
}
