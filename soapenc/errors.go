package soapenc

import (
	"errors"
	"fmt"
	"strings"
)

// An Error describes a failure to convert between a SOAP-encoded
// message and Go values. The path of the Error lists the names of
// the elements that were being processed when the failure occurred,
// outermost first.
//
// Errors that report a broken internal invariant, rather than bad
// input, return true from Internal.
type Error struct {
	msg      string
	path     []string // innermost first
	err      error
	internal bool
}

func (e *Error) Error() string {
	var buf strings.Builder
	buf.WriteString("soapenc: ")
	if len(e.path) > 0 {
		for i := len(e.path) - 1; i >= 0; i-- {
			buf.WriteString(e.path[i])
			if i > 0 {
				buf.WriteString(">")
			}
		}
		buf.WriteString(": ")
	}
	buf.WriteString(e.msg)
	if e.err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.err.Error())
	}
	return buf.String()
}

// Unwrap returns the error that caused e, if any.
func (e *Error) Unwrap() error { return e.err }

// Internal reports whether the error is the result of a broken
// invariant in the soapenc package itself.
func (e *Error) Internal() bool { return e.internal }

// Path returns the names of the elements leading to the failure,
// outermost first.
func (e *Error) Path() []string {
	path := make([]string, len(e.path))
	for i := range e.path {
		path[len(path)-1-i] = e.path[i]
	}
	return path
}

func errorf(format string, v ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, v...)}
}

func internalf(format string, v ...interface{}) *Error {
	return &Error{msg: "internal error: " + fmt.Sprintf(format, v...), internal: true}
}

func wrapf(err error, format string, v ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, v...), err: err}
}

// at records that err happened while processing the element
// named elem.
func at(elem string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		e.path = append(e.path, elem)
		return e
	}
	return &Error{msg: err.Error(), path: []string{elem}, err: err}
}
