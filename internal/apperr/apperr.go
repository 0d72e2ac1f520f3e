// Package apperr defines the error taxonomy returned by usecases. Each error
// carries the HTTP status it maps to, so the transport layer can render it
// without knowing which operation produced it.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindBadRequest       Kind = "bad_request"
	KindUnauthorized     Kind = "unauthorized"
	KindForbidden        Kind = "forbidden"
	KindNotFound         Kind = "not_found"
	KindMethodNotAllowed Kind = "method_not_allowed"
	KindConflict         Kind = "conflict"
	KindTooManyRequests  Kind = "too_many_requests"
	KindInternal         Kind = "internal"
)

var statusByKind = map[Kind]int{
	KindBadRequest:       http.StatusBadRequest,
	KindUnauthorized:     http.StatusUnauthorized,
	KindForbidden:        http.StatusForbidden,
	KindNotFound:         http.StatusNotFound,
	KindMethodNotAllowed: http.StatusMethodNotAllowed,
	KindConflict:         http.StatusConflict,
	KindTooManyRequests:  http.StatusTooManyRequests,
	KindInternal:         http.StatusInternalServerError,
}

// Error is a failure with a client-facing message. Err, when set, is the
// underlying cause and is never shown to the client.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithDetails returns a copy of e carrying extra detail strings.
func (e *Error) WithDetails(details ...string) *Error {
	cp := *e
	cp.Details = append(append([]string(nil), e.Details...), details...)
	return &cp
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func BadRequest(message string) *Error       { return newError(KindBadRequest, message) }
func Unauthorized(message string) *Error     { return newError(KindUnauthorized, message) }
func Forbidden(message string) *Error        { return newError(KindForbidden, message) }
func NotFound(message string) *Error         { return newError(KindNotFound, message) }
func MethodNotAllowed(message string) *Error { return newError(KindMethodNotAllowed, message) }
func Conflict(message string) *Error         { return newError(KindConflict, message) }
func TooManyRequests(message string) *Error  { return newError(KindTooManyRequests, message) }

// Internal wraps an unexpected failure of a dependency.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// As extracts an *Error from err. Errors of any other type are reported as
// internal failures with a generic message.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Something went wrong", err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
