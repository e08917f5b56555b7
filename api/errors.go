package api

import (
	"errors"
	"fmt"
)

// Error is returned by every Client call that reached the server or failed
// in transport. Validation failures carry FieldErrors.
type Error struct {
	StatusCode  int
	Message     string
	FieldErrors FieldErrors
	Err         error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FieldErrorsOf returns the field errors carried by err, if any.
func FieldErrorsOf(err error) (FieldErrors, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.FieldErrors != nil {
		return apiErr.FieldErrors, true
	}
	return nil, false
}

// MessageOf returns the human-readable message of err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
