// Package server exposes the audit over HTTP.
package server

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrValidation marks a request the caller has to fix.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrTooLarge is returned when a request body exceeds the configured limit.
type ErrTooLarge struct {
	Limit int64
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

// HTTPStatus maps an error to the status code the audit endpoint answers with.
func HTTPStatus(err error) int {
	var validation *ErrValidation
	var tooLarge *ErrTooLarge
	var maxBytes *http.MaxBytesError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
