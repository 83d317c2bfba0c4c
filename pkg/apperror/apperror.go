package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how callers should react to it.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindNotFound
	KindBadRequest
	KindUpstream
	KindHashing
	KindSigning
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindUpstream:
		return "upstream"
	case KindHashing:
		return "hashing"
	case KindSigning:
		return "signing"
	default:
		return "internal"
	}
}

// Error is the single error type returned by the auth operations.
// Message is safe to show to clients; Err is kept for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error { return New(KindValidation, message) }
func Conflict(message string) *Error   { return New(KindConflict, message) }
func Auth(message string) *Error       { return New(KindAuth, message) }
func NotFound(message string) *Error   { return New(KindNotFound, message) }
func BadRequest(message string) *Error { return New(KindBadRequest, message) }

func Upstream(message string, err error) *Error { return Wrap(KindUpstream, message, err) }
func Hashing(err error) *Error                  { return Wrap(KindHashing, "error when hashing password", err) }
func Signing(err error) *Error                  { return Wrap(KindSigning, "error when generating token", err) }
func Internal(err error) *Error                 { return Wrap(KindInternal, "internal server error", err) }

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// PublicMessage returns the client-facing message. Internal failures and
// foreign errors collapse to a generic text.
func PublicMessage(err error) string {
	var ae *Error
	if !errors.As(err, &ae) || ae.Kind == KindInternal {
		return "internal server error"
	}
	return ae.Message
}
