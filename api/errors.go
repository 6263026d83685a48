package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed request into the fixed client taxonomy.
type ErrorKind string

const (
	ErrNetwork      ErrorKind = "network"
	ErrUnauthorized ErrorKind = "unauthorized"
	ErrForbidden    ErrorKind = "forbidden"
	ErrNotFound     ErrorKind = "not_found"
	ErrValidation   ErrorKind = "validation"
	ErrServer       ErrorKind = "server"
	ErrUnknown      ErrorKind = "unknown"
	ErrCancelled    ErrorKind = "cancelled"
)

// Fixed user-facing messages per error kind.
var kindMessages = map[ErrorKind]string{
	ErrNetwork:      "Network error. Please check your connection.",
	ErrUnauthorized: "Unauthorized. Please log in again.",
	ErrForbidden:    "Access denied.",
	ErrNotFound:     "Resource not found.",
	ErrValidation:   "Please check your input and try again.",
	ErrServer:       "Server error. Please try again later.",
	ErrUnknown:      "An unexpected error occurred.",
	ErrCancelled:    "Request cancelled.",
}

// Error is the normalized outcome of a failed request. Callers never see a
// raw transport or protocol error, only this type.
type Error struct {
	Kind    ErrorKind
	Message string // Human-readable, safe to show in the UI
	Status  int    // HTTP status code, 0 for transport failures
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, status int) *Error {
	return &Error{Kind: kind, Message: kindMessages[kind], Status: status}
}

// kindForStatus maps a non-2xx HTTP status to an error kind.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == 401:
		return ErrUnauthorized
	case status == 403:
		return ErrForbidden
	case status == 404:
		return ErrNotFound
	case status == 400 || status == 422:
		return ErrValidation
	case status >= 500:
		return ErrServer
	default:
		return ErrUnknown
	}
}

// KindOf returns the taxonomy kind of err, or ErrUnknown for foreign errors.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ErrUnknown
}

// IsCancelled reports whether err represents a superseded (cancelled) request.
func IsCancelled(err error) bool {
	return KindOf(err) == ErrCancelled
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fmt.Sprintf("%v", err)
}
