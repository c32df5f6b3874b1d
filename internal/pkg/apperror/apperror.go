package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected command so callers can map it to a user-facing message.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInvalidTransition Kind = "invalid_transition"
	KindPermissionDenied  Kind = "permission_denied"
	KindValidation        Kind = "validation_error"
)

// Error is the typed failure returned by every core command.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Sentinels for errors.Is comparisons. Only the Kind is compared.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrPermissionDenied  = &Error{Kind: KindPermissionDenied}
	ErrValidation        = &Error{Kind: KindValidation}
)

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same Kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NotFound reports a missing tenant, unit, booking, role or permission.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransition reports a state change the state machine does not allow.
func InvalidTransition(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

// PermissionDenied reports a missing permission token or an out-of-scope target.
func PermissionDenied(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPermissionDenied, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed input such as an unknown category or module.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a new typed error
func Wrap(err error, kind Kind, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsNotFound reports whether err is a NotFound error
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidTransition reports whether err is an InvalidTransition error
func IsInvalidTransition(err error) bool { return errors.Is(err, ErrInvalidTransition) }

// IsPermissionDenied reports whether err is a PermissionDenied error
func IsPermissionDenied(err error) bool { return errors.Is(err, ErrPermissionDenied) }

// IsValidation reports whether err is a Validation error
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
