package dialog

import (
	"errors"
	"strings"
)

var (
	// ErrValidation is wrapped by every *ValidationError
	ErrValidation = errors.New("invalid configuration")
	// ErrLookupFailed marks a graph lookup that did not replace the placeholder list
	ErrLookupFailed = errors.New("graph lookup failed")
	// ErrClosed is returned by operations on a confirmed or cancelled dialog
	ErrClosed = errors.New("dialog already closed")
)

// FieldError is a validation failure of a single field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every field that failed validation, in form order
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Has reports whether field failed validation
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
