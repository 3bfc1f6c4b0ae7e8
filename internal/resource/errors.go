package resource

import (
	"fmt"
	"net/http"
)

// StatusError is returned by Lookup or Query to answer with a specific
// status and error code instead of a 500.
type StatusError struct {
	Status int
	Code   string
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Code, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Code)
}

func (e *StatusError) Unwrap() error { return e.Err }

func NotFound(code string, err error) error {
	return &StatusError{Status: http.StatusNotFound, Code: code, Err: err}
}

func BadRequest(code string, err error) error {
	return &StatusError{Status: http.StatusBadRequest, Code: code, Err: err}
}
