package utils

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// ErrorKind classifies every failure a service can return.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalidInput
	KindConflict
	KindNotFound
	KindUnauthorized
	KindTooManyRequests
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// StatusCode is the HTTP status a kind is rendered with.
func (k ErrorKind) StatusCode() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Messages shared between services, middleware and tests.
const (
	MsgUnexpected       = "An unexpected error occurred"
	MsgNotAuthorized    = "You are not authorized!"
	MsgRoleNotAllowed   = "You are not authorized"
	MsgTokenBlacklisted = "Token is blacklisted"
	MsgInvalidToken     = "Invalid token"
	MsgUserNotFound     = "User not found"
	MsgUserExists       = "User already exists"
	MsgUserDoesNotExist = "User does not exist"
	MsgWrongPassword    = "Password is incorrect"
	MsgTooManyRequests  = "Too many requests, please try again later."
)

// AppError is the error type services hand back to controllers. It carries
// the kind, the HTTP status derived from it and a public message. Err holds
// the underlying cause, if any, and is never shown to clients. AppError does
// not implement Unwrap: once a failure is classified, the normalizer must not
// reclassify it from its cause.
type AppError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func newAppError(kind ErrorKind, message string, cause error) *AppError {
	return &AppError{
		Kind:       kind,
		StatusCode: kind.StatusCode(),
		Message:    message,
		Err:        cause,
	}
}

func NewInvalidInput(message string) *AppError {
	return newAppError(KindInvalidInput, message, nil)
}

func NewConflict(message string) *AppError {
	return newAppError(KindConflict, message, nil)
}

func NewNotFound(message string) *AppError {
	return newAppError(KindNotFound, message, nil)
}

func NewUnauthorized(message string) *AppError {
	return newAppError(KindUnauthorized, message, nil)
}

func NewTooManyRequests() *AppError {
	return newAppError(KindTooManyRequests, MsgTooManyRequests, nil)
}

// NewInternal wraps an unexpected cause. A stack trace is attached so that
// non-production responses can expose where it happened.
func NewInternal(cause error) *AppError {
	if cause != nil {
		cause = pkgerrors.WithStack(cause)
	}
	return newAppError(KindInternal, MsgUnexpected, cause)
}

// AsAppError returns err unchanged when it already is an *AppError and wraps
// anything else as Internal.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal(err)
}

// IsKind reports whether err is an *AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// CastError is returned when a path or query value cannot be converted to the
// identifier type it stands for (e.g. a non-UUID user id).
type CastError struct {
	Field string
	Value string
	Err   error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cast to %s failed for value %q", e.Field, e.Value)
}

func (e *CastError) Unwrap() error {
	return e.Err
}
