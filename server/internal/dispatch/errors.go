package dispatch

import (
	"errors"
	"fmt"
)

// ErrorKind classifies dispatch failures.
type ErrorKind int

const (
	InternalFailure ErrorKind = iota
	MissingOperation
	AmbiguousOperation
	InvalidScalar
	InvalidArray
	InvalidString
	CollaboratorFailure
)

var kindNames = map[ErrorKind]string{
	InternalFailure:     "internal_failure",
	MissingOperation:    "missing_operation",
	AmbiguousOperation:  "ambiguous_operation",
	InvalidScalar:       "invalid_scalar",
	InvalidArray:        "invalid_array",
	InvalidString:       "invalid_string",
	CollaboratorFailure: "collaborator_failure",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Client reports whether the kind is caused by the request itself.
func (k ErrorKind) Client() bool {
	switch k {
	case MissingOperation, AmbiguousOperation, InvalidScalar, InvalidArray, InvalidString:
		return true
	}
	return false
}

// Error is a classified dispatch failure. Message is safe to show to clients;
// Err, when set, is the underlying cause.
type Error struct {
	Kind    ErrorKind
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

// KindOf returns the kind of err, or InternalFailure when err is not a
// dispatch error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return InternalFailure
}

func newError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}
