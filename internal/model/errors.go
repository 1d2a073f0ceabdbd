package model

import (
	"errors"
	"fmt"
)

// Parse failure kinds, matched with errors.Is
var (
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrMissingField   = errors.New("missing required field")
	ErrInvalidValue   = errors.New("invalid value")
	ErrUnknownTaxKind = errors.New("unknown tax kind")
)

// ParseError represents a document that could not be turned into an Invoice
type ParseError struct {
	Kind    error
	Field   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%v] %s: %s (%v)", e.Kind, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%v] %s: %s", e.Kind, e.Field, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the kind of this error
func (e *ParseError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// NewParseError creates a new parse error
func NewParseError(kind error, field, message string, cause error) *ParseError {
	return &ParseError{
		Kind:    kind,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// ValidationError represents invalid caller input (dates, subjects, fields)
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}

// ExtractionError represents a fatal failure while traversing the source tree
type ExtractionError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed [%s]: %s (%v)", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed [%s]: %s", e.Path, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// NewExtractionError creates a new extraction error
func NewExtractionError(path, message string, cause error) *ExtractionError {
	return &ExtractionError{
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}
