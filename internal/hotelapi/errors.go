package hotelapi

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed call so callers can branch without parsing text.
type ErrorKind int

const (
	// KindRequestFailed is any non-success HTTP status other than 401/403 on
	// an authenticated call.
	KindRequestFailed ErrorKind = iota
	// KindAuthenticationRequired means the server rejected the stored
	// credential; the store has already been cleared.
	KindAuthenticationRequired
	// KindValidationFailed is raised locally before any network call.
	KindValidationFailed
	// KindNetwork wraps transport failures (DNS, connection, timeout).
	// Callers treat it like KindRequestFailed.
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthenticationRequired:
		return "authentication_required"
	case KindValidationFailed:
		return "validation_failed"
	case KindNetwork:
		return "network"
	default:
		return "request_failed"
	}
}

// Error is the single error type returned by the request pipeline and the
// local form validators.
type Error struct {
	Kind    ErrorKind
	Status  int    // HTTP status, 0 when no response was received
	Message string // user-facing text
	Field   string // offending form field for KindValidationFailed
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindValidationFailed && e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	case e.Err != nil && e.Message == "":
		return e.Err.Error()
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// ErrAuthenticationRequired is matched by errors.Is for any
// KindAuthenticationRequired error.
var ErrAuthenticationRequired = &Error{Kind: KindAuthenticationRequired, Message: "Authentication required"}

// Is lets errors.Is(err, ErrAuthenticationRequired) match by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t == ErrAuthenticationRequired && e.Kind == KindAuthenticationRequired
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// KindOf returns the kind of err, or KindRequestFailed for foreign errors.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindRequestFailed
}

// ErrorMessage returns the user-facing text of err.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}

// ValidationError builds a KindValidationFailed error for field.
func ValidationError(field, message string) *Error {
	return &Error{Kind: KindValidationFailed, Field: field, Message: message}
}
