package httpapi

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"course-authoring/internal/errors"
	"course-authoring/internal/validation"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error  string                  `json:"error"`
	Code   string                  `json:"code"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

// statusFor maps an error to its HTTP status and response body
func statusFor(err error) (int, ErrorResponse) {
	var ve *validation.ValidationError
	if stderrors.As(err, &ve) {
		return http.StatusBadRequest, ErrorResponse{
			Error:  ve.GetUserFriendlyMessage(),
			Code:   "INVALID_REQUEST",
			Fields: ve.Errors,
		}
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  "INTERNAL_ERROR",
		}
	}

	resp := ErrorResponse{Error: errors.GetUserMessage(appErr), Code: appErr.Code}
	switch appErr.Type {
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound, resp
	case errors.ErrorTypeInvalidInput, errors.ErrorTypeInvalidState:
		return http.StatusBadRequest, resp
	case errors.ErrorTypeConflict:
		return http.StatusConflict, resp
	case errors.ErrorTypeTimeout:
		return http.StatusServiceUnavailable, resp
	default:
		return http.StatusInternalServerError, resp
	}
}

// abortWithError writes the mapped error and stops the handler chain
func abortWithError(c *gin.Context, err error) {
	status, resp := statusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}
