// Package errors defines the failure taxonomy shared by the authoring core,
// its store and its adapters.
package errors

import (
	"fmt"
	"strings"
)

// ErrorType classifies a failure. Rule violations (NotFound, InvalidState,
// InvalidInput, Conflict) are reported to the caller verbatim; Database and
// Timeout are infrastructure failures.
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeInvalidState ErrorType = "invalid_state"
	ErrorTypeInvalidInput ErrorType = "invalid_input"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeDatabase     ErrorType = "database"
	ErrorTypeTimeout      ErrorType = "timeout"
)

func (et ErrorType) String() string {
	if et == "" {
		return "unknown"
	}
	return string(et)
}

// IsRuleViolation reports whether the type describes a rejected request
// rather than a broken dependency
func (et ErrorType) IsRuleViolation() bool {
	switch et {
	case ErrorTypeNotFound, ErrorTypeInvalidState, ErrorTypeInvalidInput, ErrorTypeConflict:
		return true
	}
	return false
}

// AppError is a classified failure. Details carries machine readable
// context such as the offending field or value.
type AppError struct {
	Type      ErrorType
	Message   string
	Code      string
	Cause     error
	Retryable bool
	Details   map[string]any
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(e.Type.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Cause)
	}
	return b.String()
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError with the same type and code
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == other.Type && e.Code == other.Code
}

// IsType checks if this error is of the specified type
func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// WithDetail attaches a key/value pair and returns the same error
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, 1)
	}
	e.Details[key] = value
	return e
}

// Detail looks up a value attached with WithDetail
func (e *AppError) Detail(key string) (any, bool) {
	v, ok := e.Details[key]
	return v, ok
}

// MarkRetryable flags the error as safe to retry by repeating the whole request
func (e *AppError) MarkRetryable() *AppError {
	e.Retryable = true
	return e
}
