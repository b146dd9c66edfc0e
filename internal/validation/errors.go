package validation

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ValidationErrorType names the rule a request field broke
type ValidationErrorType string

const (
	ErrorTypeRequired      ValidationErrorType = "required"
	ErrorTypeInvalidFormat ValidationErrorType = "invalid_format"
	ErrorTypeInvalidLength ValidationErrorType = "invalid_length"
	ErrorTypeInvalidValue  ValidationErrorType = "invalid_value"
	ErrorTypeInvalidRange  ValidationErrorType = "invalid_range"
)

// FieldError is one broken rule on one request field. Field uses the JSON
// name so HTTP clients can match it against their payload.
type FieldError struct {
	Field   string              `json:"field"`
	Type    ValidationErrorType `json:"type"`
	Message string              `json:"message"`
	Value   any                 `json:"-"`
}

func (fe *FieldError) Error() string {
	return "validation error for field '" + fe.Field + "': " + fe.Message
}

// ValidationError collects the field errors of a malformed request.
// Domain rule failures are reported as errors.AppError instead.
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError creates an empty collection
func NewValidationError() *ValidationError {
	return &ValidationError{Errors: []FieldError{}}
}

func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation error"
	}
	if len(ve.Errors) == 1 {
		return ve.Errors[0].Error()
	}
	parts := make([]string, len(ve.Errors))
	for i := range ve.Errors {
		parts[i] = ve.Errors[i].Error()
	}
	return "multiple validation errors: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stderrors.As(err, &ve)
}

// HasErrors reports whether any field failed
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// Merge appends the field errors of other
func (ve *ValidationError) Merge(other *ValidationError) {
	if other != nil {
		ve.Errors = append(ve.Errors, other.Errors...)
	}
}

// AddError records a field error with a preformatted message
func (ve *ValidationError) AddError(field string, errorType ValidationErrorType, message string, value any) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Type: errorType, Message: message, Value: value})
}

func (ve *ValidationError) addf(field string, errorType ValidationErrorType, value any, format string, args ...any) {
	ve.AddError(field, errorType, field+" "+fmt.Sprintf(format, args...), value)
}

func (ve *ValidationError) AddRequiredError(field string) {
	ve.addf(field, ErrorTypeRequired, nil, "is required")
}

func (ve *ValidationError) AddInvalidFormatError(field string, value any, expectedFormat string) {
	ve.addf(field, ErrorTypeInvalidFormat, value, "has invalid format, expected: %s", expectedFormat)
}

// AddInvalidLengthError records a length violation. A zero bound is treated
// as absent.
func (ve *ValidationError) AddInvalidLengthError(field string, value any, min, max int) {
	switch {
	case min > 0 && max > 0:
		ve.addf(field, ErrorTypeInvalidLength, value, "must be between %d and %d characters long", min, max)
	case min > 0:
		ve.addf(field, ErrorTypeInvalidLength, value, "must be at least %d characters long", min)
	case max > 0:
		ve.addf(field, ErrorTypeInvalidLength, value, "must be at most %d characters long", max)
	default:
		ve.addf(field, ErrorTypeInvalidLength, value, "has invalid length")
	}
}

func (ve *ValidationError) AddInvalidValueError(field string, value any, reason string) {
	ve.addf(field, ErrorTypeInvalidValue, value, "has invalid value: %s", reason)
}

func (ve *ValidationError) AddInvalidRangeError(field string, value any, reason string) {
	ve.addf(field, ErrorTypeInvalidRange, value, "is out of range: %s", reason)
}

// GetFieldErrors returns the errors recorded for field
func (ve *ValidationError) GetFieldErrors(field string) []FieldError {
	var out []FieldError
	for _, fe := range ve.Errors {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// GetUserFriendlyMessage renders the errors for a terminal or a response body
func (ve *ValidationError) GetUserFriendlyMessage() string {
	switch len(ve.Errors) {
	case 0:
		return "Input validation failed"
	case 1:
		return ve.Errors[0].Message
	}
	var b strings.Builder
	b.WriteString("Multiple validation errors occurred:")
	for _, fe := range ve.Errors {
		b.WriteString("\n- ")
		b.WriteString(fe.Message)
	}
	return b.String()
}
