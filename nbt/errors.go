package nbt

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package and by package snbt
// wraps exactly one of these; test with errors.Is.
var (
	// ErrMalformed reports input that does not follow the binary or text
	// grammar.
	ErrMalformed = errors.New("malformed data")
	// ErrInvalidUse reports an operation invoked in a state or on a tag
	// that does not support it.
	ErrInvalidUse = errors.New("invalid use")
	// ErrEndOfInput reports that the input ended in the middle of a
	// fixed-size field.
	ErrEndOfInput = errors.New("unexpected end of input")
	// ErrSizeMismatch reports a caller buffer whose length differs from
	// the declared array length.
	ErrSizeMismatch = errors.New("buffer size mismatch")
)

// Error carries an error kind together with the input offset at which it
// was detected. Offset is -1 when no input position applies.
type Error struct {
	Kind   error
	Offset int64
	Msg    string
}

// Errorf builds an *Error of the given kind.
func Errorf(kind error, offset int64, format string, args ...any) *Error {
	return &Error{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("nbt: %s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("nbt: %s: %s (offset %d)", e.Kind, e.Msg, e.Offset)
}

func (e *Error) Unwrap() error { return e.Kind }

func invalidUse(format string, args ...any) error {
	return Errorf(ErrInvalidUse, -1, format, args...)
}
