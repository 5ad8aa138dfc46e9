package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so handlers can map it to an HTTP status and
// clients can branch on a machine-readable value.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindInvalidArgument Kind = "invalid-argument"
	KindNotFound        Kind = "not-found"
	KindOutOfDate       Kind = "out-of-date"
	KindExists          Kind = "exists"
	KindInternal        Kind = "internal"
)

// Error is the single error type crossing service boundaries. Database and
// storage failures that were not classified by a service surface as internal.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func InvalidArgument(msg string) *Error { return &Error{Kind: KindInvalidArgument, Message: msg} }
func NotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }
func OutOfDate(msg string) *Error       { return &Error{Kind: KindOutOfDate, Message: msg} }
func Exists(msg string) *Error          { return &Error{Kind: KindExists, Message: msg} }
func Internal(msg string) *Error        { return &Error{Kind: KindInternal, Message: msg} }

// From returns err as an *Error, wrapping anything unclassified as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("server error")
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// HTTPStatus maps an error kind to the status code handlers respond with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindOutOfDate:
		return http.StatusConflict
	case KindExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
