// Package shared defines the error taxonomy used across the server layers.
// Every failure the engine or the repositories surface is a *Error tagged
// with a Kind; the HTTP layer maps Kind to a status code exactly once.
package shared

import (
	"errors"
	"fmt"
)

// Kind classifies an Error into one of the response classes of the API.
type Kind int

const (
	KindValidation Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindTooManyRequests
	KindInternal
)

// Error is the single tagged error type used by the auth server.
// Callers match it with errors.As or the KindOf helper.
type Error struct {
	Kind    Kind
	Message string

	// RetryAfter holds the remaining cooldown in whole seconds for
	// KindTooManyRequests errors raised by the email cooldown guard.
	RetryAfter int

	// Field names the conflicting column for duplicate-identity errors.
	Field string

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Validation returns a 400-class error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Unauthorized returns a 401-class error. Credential failures must keep the
// same message for unknown accounts and wrong passwords.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Forbidden returns a 403-class error.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NotFound returns a 404-class error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Internal wraps an unexpected failure. The cause text is exposed to
// clients only outside production.
func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, cause: cause}
}

// Duplicate reports a uniqueness violation on the named field.
func Duplicate(field string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf("Duplicate value entered for %s field", field),
		Field:   field,
	}
}

// Cooldown reports that an email was requested again before the per-user
// cooldown window elapsed.
func Cooldown(secondsRemaining int) *Error {
	return &Error{
		Kind:       KindTooManyRequests,
		Message:    "Too many requests! Try again later",
		RetryAfter: secondsRemaining,
	}
}

// KindOf extracts the Kind of err, or KindInternal when err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
