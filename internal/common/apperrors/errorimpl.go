package apperrors

import (
	"errors"
)

type appError struct {
	msg        string
	parent     error
	wrapped    []error
	statusCode int
}

func (e *appError) Error() string {
	return e.msg
}

func (e *appError) Unwrap() error {
	return e.parent
}

func (e *appError) UnwrapAll() []error {
	return e.wrapped
}

func (e *appError) New(msg string) Error {
	return &appError{
		msg:        msg,
		parent:     e,
		statusCode: e.statusCode,
	}
}

func (e *appError) Msg(msg string) Error {
	return e.MsgErr(msg)
}

func (e *appError) MsgErr(msg string, errs ...error) Error {
	return &appError{
		msg:        msg,
		parent:     e,
		wrapped:    append([]error{e}, errs...),
		statusCode: e.statusCode,
	}
}

func (e *appError) Err(errs ...error) Error {
	return e.MsgErr(e.msg, errs...)
}

// SetStatusCode returns a shallow copy carrying the given status code.
func (e *appError) SetStatusCode(code int) Error {
	cp := *e
	cp.statusCode = code
	return &cp
}

func (e *appError) StatusCode() int {
	return e.statusCode
}

// Is matches the target against the parent chain and every wrapped error.
func (e *appError) Is(target error) bool {
	if target == nil {
		return false
	}
	if errors.Is(e.parent, target) {
		return true
	}
	for _, err := range e.wrapped {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// New creates a root error with the given message.
func New(msg string) Error {
	return &appError{msg: msg}
}

// As lets errors.As reach the wrapped errors, which Unwrap does not expose.
func (e *appError) As(target any) bool {
	for _, err := range e.wrapped {
		if errors.As(err, target) {
			return true
		}
	}
	return false
}
