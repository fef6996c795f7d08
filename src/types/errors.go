package types

import (
	"errors"
	"net/http"
)

type ErrorKind string

const (
	ERR_VALIDATION ErrorKind = "validation"
	ERR_NOT_FOUND  ErrorKind = "not_found"
	ERR_CONFLICT   ErrorKind = "conflict"
	ERR_AUTH       ErrorKind = "auth"
	ERR_PERMISSION ErrorKind = "permission"
	ERR_RATE_LIMIT ErrorKind = "rate_limit"
	ERR_TIMEOUT    ErrorKind = "timeout"
	ERR_INTERNAL   ErrorKind = "internal"
)

var kindStatus = map[ErrorKind]int{
	ERR_VALIDATION: http.StatusBadRequest,
	ERR_NOT_FOUND:  http.StatusNotFound,
	ERR_CONFLICT:   http.StatusConflict,
	ERR_AUTH:       http.StatusUnauthorized,
	ERR_PERMISSION: http.StatusForbidden,
	ERR_RATE_LIMIT: http.StatusTooManyRequests,
	ERR_TIMEOUT:    http.StatusGatewayTimeout,
	ERR_INTERNAL:   http.StatusInternalServerError,
}

// Error is the single error type crossing the service boundary. Message is
// safe to return to clients; Err is the underlying cause and is only logged.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Status() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Retryable is true only for kinds a caller may retry with backoff.
func (e *Error) Retryable() bool {
	return e.Kind == ERR_TIMEOUT || e.Kind == ERR_RATE_LIMIT
}

// AsError returns err as *Error, wrapping anything unknown as internal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewError(ERR_INTERNAL, "internal server error", err)
}

func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	return AsError(err).Kind
}
