package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a request-fatal failure carrying the HTTP status it maps to.
type Error struct {
	Status int
	Code   string
	Err    error
	// Raw is the offending upstream text, echoed back for diagnosis when set.
	Raw string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func WithRaw(status int, code string, err error, raw string) *Error {
	return &Error{Status: status, Code: code, Err: err, Raw: raw}
}

func BadRequest(msg string) *Error {
	return New(http.StatusBadRequest, "invalid_request", errors.New(msg))
}

// As extracts an *Error from err. Errors that are not *Error become 500s.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return New(http.StatusInternalServerError, "internal_error", err)
}
