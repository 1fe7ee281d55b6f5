// Package apperr defines the error kinds shared by services and HTTP handlers.
package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the stable, machine-readable error category sent to clients.
type Kind string

const (
	NotFound          Kind = "not_found"
	Forbidden         Kind = "forbidden"
	Unauthorized      Kind = "unauthorized"
	ValidationFailed  Kind = "validation_failed"
	InvalidState      Kind = "invalid_state"
	AlreadyCompleted  Kind = "already_completed"
	AttemptsExhausted Kind = "attempts_exhausted"
	Conflict          Kind = "conflict"
	Upstream          Kind = "payment_provider_error"
	Unhandled         Kind = "internal_error"
)

// Error is a business failure. Details carries data the client needs to act
// without retrying (existing certificate number, attempts used, field errors).
type Error struct {
	Kind    Kind
	Message string
	Details any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func WithDetails(kind Kind, msg string, details any) *Error {
	return &Error{Kind: kind, Message: msg, Details: details}
}

// Wrap keeps err as the cause so it can be logged, while clients only ever
// see msg.
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, cause: err}
}

func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, fmt.Sprintf(format, args...))
}

func Invalid(msg string, fields map[string]string) *Error {
	return &Error{Kind: ValidationFailed, Message: msg, Details: fields}
}

// Internal wraps an unexpected failure with context for the logs.
func Internal(err error, context string) *Error {
	return &Error{Kind: Unhandled, Message: "Something went wrong, please try again later.", cause: errors.Wrap(err, context)}
}

// KindOf returns the kind of err, or Unhandled for errors that did not come
// from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unhandled
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
