package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind tags an Error with its transport-independent failure class.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindForbidden
	KindInvalid
	KindNotFound
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindInvalid:
		return "invalid_request"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream_failure"
	default:
		return "internal"
	}
}

// Status maps a Kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalid:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Details is surfaced to clients; empty unless the caller opted in via Detailed.
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status())
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int { return e.Kind.Status() }

// Detailed copies the wrapped error's message into Details.
func (e *Error) Detailed() *Error {
	if e == nil || e.Err == nil {
		return e
	}
	cp := *e
	cp.Details = e.Err.Error()
	return &cp
}

func New(kind Kind, code, message string, err error) *Error {
	if code == "" {
		code = kind.String()
	}
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, "unauthorized", message, nil)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, "forbidden", message, nil)
}

func Invalid(code, message string) *Error {
	return New(KindInvalid, code, message, nil)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message, nil)
}

func Upstream(code, message string, err error) *Error {
	return New(KindUpstream, code, message, err)
}

// As extracts an *Error from err; ok is false for untyped errors.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae, true
	}
	return nil, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}
