// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StatusError carries an HTTP status code alongside the message.
type StatusError struct {
	Code int
	Msg  string
}

func (e *StatusError) Error() string { return e.Msg }

// HTTPStatus converts repo/infra errors into an HTTP status + message.
// Keeps service layer clean by centralizing error mapping.
func HTTPStatus(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	var se *StatusError
	switch {
	case errors.As(err, &se):
		return se.Code, se.Msg

	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "record not found"

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"

	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request was canceled"

	default:
		// fallback → bubble up error message for debugging
		return http.StatusInternalServerError, err.Error()
	}
}

// JSON writes err as the request's JSON error response and aborts.
func JSON(c *gin.Context, err error) {
	code, msg := HTTPStatus(err)
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

// InvalidArgument creates a 400 error.
// Use this in service layer for bad input validation.
func InvalidArgument(msg string) error {
	return &StatusError{Code: http.StatusBadRequest, Msg: msg}
}

// NotFound creates a 404 error.
func NotFound(msg string) error {
	return &StatusError{Code: http.StatusNotFound, Msg: msg}
}

// Conflict creates a 409 error.
func Conflict(msg string) error {
	return &StatusError{Code: http.StatusConflict, Msg: msg}
}
