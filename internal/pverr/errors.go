// Package pverr defines the error kinds shared by the configuration model and
// the plant resolver. Every validation failure wraps exactly one kind, so
// callers can branch with errors.Is regardless of which layer rejected the
// input.
package pverr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidValue marks a value of the right type but outside its domain,
	// e.g. a non-positive capacity or an unknown tilt keyword.
	ErrInvalidValue = errors.New("invalid value")
	// ErrTypeMismatch marks a value of the wrong type, e.g. an integer tilt.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrNotFound marks a lookup of a key that does not exist.
	ErrNotFound = errors.New("not found")
)

// Kind labels, stable for use in logs and metrics.
const (
	KindInvalidValue = "invalid_value"
	KindTypeMismatch = "type_mismatch"
	KindNotFound     = "not_found"
	KindOther        = "other"
)

// FieldError reports a failure tied to a single named field.
type FieldError struct {
	Field string
	Kind  error
	Msg   string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Field, e.Msg, e.Kind)
}

// Unwrap exposes the kind to errors.Is.
func (e *FieldError) Unwrap() error {
	return e.Kind
}

// Invalid returns an ErrInvalidValue field error.
func Invalid(field, format string, args ...any) error {
	return &FieldError{Field: field, Kind: ErrInvalidValue, Msg: fmt.Sprintf(format, args...)}
}

// TypeMismatch returns an ErrTypeMismatch field error.
func TypeMismatch(field, format string, args ...any) error {
	return &FieldError{Field: field, Kind: ErrTypeMismatch, Msg: fmt.Sprintf(format, args...)}
}

// NotFound returns an ErrNotFound field error.
func NotFound(field, format string, args ...any) error {
	return &FieldError{Field: field, Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// KindOf maps err onto one of the Kind labels.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTypeMismatch):
		return KindTypeMismatch
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidValue):
		return KindInvalidValue
	default:
		return KindOther
	}
}
