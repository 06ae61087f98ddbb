package interpreter

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an execution failure.
type ErrorKind string

const (
	ErrorUndefinedFunction     ErrorKind = "UndefinedFunction"
	ErrorUndefinedIdentifier   ErrorKind = "UndefinedIdentifier"
	ErrorDuplicateIdentifier   ErrorKind = "DuplicateIdentifier"
	ErrorImmutableAssignment   ErrorKind = "ImmutableAssignment"
	ErrorReturnOutsideFunction ErrorKind = "ReturnOutsideFunction"
	ErrorInvalidProgram        ErrorKind = "InvalidProgram"
	ErrorResourceExhausted     ErrorKind = "ResourceExhausted"
	ErrorTypeMismatch          ErrorKind = "TypeMismatch"
	ErrorArityMismatch         ErrorKind = "ArityMismatch"
	ErrorCanceled              ErrorKind = "Canceled"
)

// Sentinels for errors.Is; every *Error matches the sentinel of its kind.
var (
	ErrUndefinedFunction     = errors.New("undefined function")
	ErrUndefinedIdentifier   = errors.New("undefined identifier")
	ErrDuplicateIdentifier   = errors.New("duplicate identifier")
	ErrImmutableAssignment   = errors.New("assignment to constant")
	ErrReturnOutsideFunction = errors.New("return outside function")
	ErrInvalidProgram        = errors.New("invalid program")
	ErrResourceExhausted     = errors.New("resource exhausted")
	ErrTypeMismatch          = errors.New("type mismatch")
	ErrArityMismatch         = errors.New("arity mismatch")
	ErrCanceled              = errors.New("execution canceled")
)

var sentinels = map[ErrorKind]error{
	ErrorUndefinedFunction:     ErrUndefinedFunction,
	ErrorUndefinedIdentifier:   ErrUndefinedIdentifier,
	ErrorDuplicateIdentifier:   ErrDuplicateIdentifier,
	ErrorImmutableAssignment:   ErrImmutableAssignment,
	ErrorReturnOutsideFunction: ErrReturnOutsideFunction,
	ErrorInvalidProgram:        ErrInvalidProgram,
	ErrorResourceExhausted:     ErrResourceExhausted,
	ErrorTypeMismatch:          ErrTypeMismatch,
	ErrorArityMismatch:         ErrArityMismatch,
	ErrorCanceled:              ErrCanceled,
}

// Error is a fatal execution failure. Name is the identifier or function the
// failure concerns, when there is one.
type Error struct {
	Kind    ErrorKind
	Name    string
	Message string
	Line    int
	Err     error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d)", e.Message, e.Line)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	sentinel, ok := sentinels[e.Kind]
	return ok && target == sentinel
}

func newError(kind ErrorKind, line int, name string, format string, args ...any) *Error {
	return &Error{Kind: kind, Name: name, Message: fmt.Sprintf(format, args...), Line: line}
}

// KindOf extracts the kind of an execution error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var execErr *Error
	if errors.As(err, &execErr) {
		return execErr.Kind
	}
	return ""
}
