// Package apperr defines the tagged application error carried from services
// to the HTTP boundary. An Error pairs an HTTP status with a stable
// machine-readable code; the wrapped internal cause never leaves the server
// outside development.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status   int
	Code     string
	Message  string
	Internal error
}

func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Internal }

// Is matches two Errors by code so errors.Is works against the sentinel
// constructors regardless of attached internals.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// New builds an Error with the given status, code and user-facing message.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// WithInternal returns a copy carrying the underlying cause. The original is
// left untouched so sentinel values stay shareable.
func (e *Error) WithInternal(err error) *Error {
	clone := *e
	clone.Internal = err
	return &clone
}

// WithStatus returns a copy with a different HTTP status. Some codes surface
// with different statuses depending on the endpoint.
func (e *Error) WithStatus(status int) *Error {
	clone := *e
	clone.Status = status
	return &clone
}

// From coerces any error into an *Error. Non-tagged errors become an
// internal server error with the cause attached.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// StatusOf reports the HTTP status an error maps to.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return From(err).Status
}
