package errors

import (
	"errors"
	"fmt"
)

func newError(t ErrorType, code, message string, cause error, details map[string]any) *AppError {
	return &AppError{Type: t, Code: code, Message: message, Cause: cause, Details: details}
}

// NewNotFoundError reports a missing course, user or task
func NewNotFoundError(resource string, identifier string) *AppError {
	return newError(ErrorTypeNotFound, "NOT_FOUND",
		fmt.Sprintf("%s not found: %s", resource, identifier), nil,
		map[string]any{"resource": resource, "identifier": identifier})
}

// NewInvalidStateError reports an operation the resource's lifecycle state forbids
func NewInvalidStateError(resource string, state string, reason string) *AppError {
	return newError(ErrorTypeInvalidState, "INVALID_STATE",
		fmt.Sprintf("%s is %s: %s", resource, state, reason), nil,
		map[string]any{"resource": resource, "state": state, "reason": reason})
}

// NewInvalidInputError reports a value that breaks a business rule
func NewInvalidInputError(field string, value any, reason string) *AppError {
	return newError(ErrorTypeInvalidInput, "INVALID_INPUT",
		fmt.Sprintf("invalid input for %s: %s", field, reason), nil,
		map[string]any{"field": field, "value": value, "reason": reason})
}

// NewConflictError reports a uniqueness violation
func NewConflictError(resource string, reason string, cause error) *AppError {
	return newError(ErrorTypeConflict, "CONFLICT",
		fmt.Sprintf("%s conflict: %s", resource, reason), cause,
		map[string]any{"resource": resource, "reason": reason})
}

// NewDatabaseError wraps a storage failure
func NewDatabaseError(operation string, cause error) *AppError {
	return newError(ErrorTypeDatabase, "DATABASE_ERROR",
		"database operation failed: "+operation, cause,
		map[string]any{"operation": operation})
}

// NewTimeoutError reports an operation that ran past its deadline. Timeouts
// are always retryable.
func NewTimeoutError(operation string, timeout any) *AppError {
	e := newError(ErrorTypeTimeout, "TIMEOUT",
		"operation timed out: "+operation, nil,
		map[string]any{"operation": operation, "timeout": timeout})
	return e.MarkRetryable()
}

// IsAppError checks if the error chain holds an AppError
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError returns the first AppError in the chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsType(errorType)
}

var genericMessages = map[ErrorType]string{
	ErrorTypeDatabase: "A database error occurred. Please try again.",
	ErrorTypeTimeout:  "The operation timed out. Please try again.",
}

// GetUserMessage returns the text shown to callers. Rule violations are
// shown as is; infrastructure failures get a generic message.
func GetUserMessage(err error) string {
	appErr, ok := AsAppError(err)
	if !ok {
		return err.Error()
	}
	if appErr.Type.IsRuleViolation() {
		return appErr.Message
	}
	if msg, ok := genericMessages[appErr.Type]; ok {
		return msg
	}
	return "An unexpected error occurred. Please try again."
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError is false for rule violations, which are the caller's mistake
func ShouldLogError(err error) bool {
	appErr, ok := AsAppError(err)
	return !ok || !appErr.Type.IsRuleViolation()
}

// IsRetryable reports whether the caller may safely repeat the whole request
func IsRetryable(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Retryable
}
