// Package apperr is the error taxonomy shared by every service. Handlers turn
// an *Error into the response envelope through response.FromError.
package apperr

import "errors"

type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindInvalidState  Kind = "invalid_state"
	KindConflict      Kind = "conflict"
	KindLimitExceeded Kind = "limit_exceeded"
	KindNotFound      Kind = "not_found"
	KindForbidden     Kind = "forbidden"
	KindTransient     Kind = "transient"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string) *Error    { return New(KindValidation, msg) }
func Authorization(msg string) *Error { return New(KindAuthorization, msg) }
func InvalidState(msg string) *Error  { return New(KindInvalidState, msg) }
func Conflict(msg string) *Error      { return New(KindConflict, msg) }
func LimitExceeded(msg string) *Error { return New(KindLimitExceeded, msg) }
func NotFound(msg string) *Error      { return New(KindNotFound, msg) }
func Forbidden(msg string) *Error     { return New(KindForbidden, msg) }

func Transient(msg string, err error) *Error {
	return Wrap(KindTransient, msg, err)
}

// KindOf returns the kind of the first *Error in the chain, or "" for
// unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the user facing message of a classified error.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
