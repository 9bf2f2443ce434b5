package share

import (
	"errors"
	"fmt"

	"anime.bike/mastoshare/pkg/i18n"
)

// Code classifies a failed share.
type Code string

const (
	CodeInputRequired   Code = "input-required"
	CodeInvalidFormat   Code = "invalid-format"
	CodeLookupFailed    Code = "lookup-failed"
	CodeMissingPostData Code = "missing-post-data"
)

// Error is returned by Resolve and Submit for every user-facing failure.
type Error struct {
	Code Code
	Err  error // Underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MessageKey returns the message shown to the user.
func (e *Error) MessageKey() i18n.Key {
	switch e.Code {
	case CodeInputRequired:
		return i18n.UserIDRequired
	case CodeInvalidFormat:
		return i18n.InvalidFormat
	case CodeLookupFailed:
		return i18n.LookupFailed
	case CodeMissingPostData:
		return i18n.MissingPostData
	}
	return i18n.StatusInvalid
}

// Critical reports whether retyping the identifier cannot fix the error.
func (e *Error) Critical() bool {
	return e.Code == CodeMissingPostData
}

// CodeOf returns the Code of err, or "" when err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func newError(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}
