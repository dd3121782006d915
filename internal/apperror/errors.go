// Package apperror defines the error kinds the API surfaces to clients and
// their HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for clients
type Kind string

const (
	KindValidation         Kind = "ValidationError"
	KindUnauthenticated    Kind = "Unauthenticated"
	KindForbidden          Kind = "Forbidden"
	KindNotFound           Kind = "NotFound"
	KindDuplicateEmail     Kind = "DuplicateEmail"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindRoleMismatch       Kind = "RoleMismatch"
	KindUpload             Kind = "UploadError"
	KindPersistence        Kind = "PersistenceError"
)

var statusByKind = map[Kind]int{
	KindValidation:         http.StatusBadRequest,
	KindDuplicateEmail:     http.StatusBadRequest,
	KindInvalidCredentials: http.StatusBadRequest,
	KindUnauthenticated:    http.StatusUnauthorized,
	KindForbidden:          http.StatusForbidden,
	KindNotFound:           http.StatusNotFound,
	KindRoleMismatch:       http.StatusNotFound,
	KindUpload:             http.StatusInternalServerError,
	KindPersistence:        http.StatusInternalServerError,
}

// Error is an application error carrying a client-facing message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error kind
func (e *Error) Status() int {
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind that keeps cause for logging
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func Validation(message string) *Error { return New(KindValidation, message) }

func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Persistence(cause error) *Error {
	return Wrap(KindPersistence, "Database operation failed", cause)
}

// As extracts an *Error from err
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// RoleNotAllowed is returned when the acting user's role may not use a resource
func RoleNotAllowed(role string) *Error {
	return Forbidden(fmt.Sprintf("%s not allowed to access this resource.", role))
}
