package web

import (
	"errors"
	"net/http"
)

var (
	errProjectNotFound = errors.New("project not found")
	errFileNotFound    = errors.New("file not found")
	errMissingPath     = errors.New("path parameter is required")
)

// HandlerError represents a request failure accompanied by an HTTP status code.
type HandlerError struct {
	statusCode int
	err        error
}

// Error returns the error string.
func (handlerError HandlerError) Error() string {
	return handlerError.err.Error()
}

// Unwrap exposes the wrapped error.
func (handlerError HandlerError) Unwrap() error {
	return handlerError.err
}

// StatusCode reports the associated HTTP status code.
func (handlerError HandlerError) StatusCode() int {
	return handlerError.statusCode
}

// NewHandlerError creates a new HandlerError.
func NewHandlerError(statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return HandlerError{statusCode: statusCode, err: err}
}

func statusCodeFromError(err error) int {
	var handlerError HandlerError
	if errors.As(err, &handlerError) {
		return handlerError.StatusCode()
	}
	return http.StatusInternalServerError
}
