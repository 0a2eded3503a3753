package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates an edit or status transition on a record that is no longer pending.
// Callers treat it as "already handled", not as a hard failure.
var ErrInvalidState = errors.New("invalid state for requested operation")

// ErrDependencyFailure indicates that a downstream store (e.g. the ledger) rejected the operation.
var ErrDependencyFailure = errors.New("dependency failure")

// ErrForbidden indicates the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned when an unexpected error must not leak details to the caller.
var ErrInternal = errors.New("internal error")

// Wire codes reported to API clients alongside the human readable message.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidState      = "INVALID_STATE"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeDependencyFailure = "DEPENDENCY_FAILURE"
	CodeDuplicate         = "DUPLICATE"
	CodeForbidden         = "FORBIDDEN"
	CodeInternal          = "INTERNAL"
)

// Code maps an error onto its stable wire code.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrValidation):
		return CodeValidationFailed
	case errors.Is(err, ErrDependencyFailure):
		return CodeDependencyFailure
	case errors.Is(err, ErrDuplicate):
		return CodeDuplicate
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	default:
		return CodeInternal
	}
}

// FromCode is the inverse of Code, used by API clients to restore sentinel errors.
func FromCode(code string) error {
	switch code {
	case CodeNotFound:
		return ErrNotFound
	case CodeInvalidState:
		return ErrInvalidState
	case CodeValidationFailed:
		return ErrValidation
	case CodeDependencyFailure:
		return ErrDependencyFailure
	case CodeDuplicate:
		return ErrDuplicate
	case CodeForbidden:
		return ErrForbidden
	default:
		return ErrInternal
	}
}

// FieldError describes a single field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field-level validation failures. It matches ErrValidation via errors.Is.
type ValidationError struct {
	Fields []FieldError
}

// Add records a failing field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no field failed, so callers never return a typed nil.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// AppError carries an HTTP-ish status code with a wrapped cause, used by infrastructure layers.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
