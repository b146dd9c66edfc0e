package cli

import (
	stderrors "errors"
	"fmt"

	"course-authoring/internal/errors"
	"course-authoring/internal/validation"
)

// commandError carries a terminal friendly message while keeping the cause
// available to errors.As
type commandError struct {
	msg string
	err error
}

func (e *commandError) Error() string { return e.msg }
func (e *commandError) Unwrap() error { return e.err }

// ErrorHandler turns service and validation errors into messages for the terminal
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle prefixes the user facing message with the failed operation
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}

	var ve *validation.ValidationError
	if stderrors.As(err, &ve) {
		return &commandError{msg: fmt.Sprintf("failed to %s: %s", operation, ve.GetUserFriendlyMessage()), err: err}
	}

	if _, ok := errors.AsAppError(err); ok {
		msg := errors.GetUserMessage(err)
		if errors.IsRetryable(err) {
			msg += " (retry may succeed)"
		}
		return &commandError{msg: fmt.Sprintf("failed to %s: %s", operation, msg), err: err}
	}

	return fmt.Errorf("failed to %s: %w", operation, err)
}

// ExitCode maps an error onto a process exit status: 2 for rejected input,
// 3 for storage or timeout failures, 1 otherwise.
func (eh *ErrorHandler) ExitCode(err error) int {
	var ve *validation.ValidationError
	switch {
	case err == nil:
		return 0
	case stderrors.As(err, &ve):
		return 2
	case errors.IsErrorType(err, errors.ErrorTypeDatabase), errors.IsErrorType(err, errors.ErrorTypeTimeout):
		return 3
	case errors.IsAppError(err) && !errors.ShouldLogError(err):
		return 2
	default:
		return 1
	}
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	var ve *validation.ValidationError
	if stderrors.As(err, &ve) {
		return "INVALID_REQUEST"
	}
	return errors.GetErrorCode(err)
}
