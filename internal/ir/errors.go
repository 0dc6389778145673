package ir

import (
	"errors"
	"fmt"
)

// ErrCodeUnexpectedArity identifies construction or cloning with the wrong
// number of arguments. It signals a programming error in the caller.
const ErrCodeUnexpectedArity = "UNEXPECTED_ARITY"

// ArityError is returned when a term is built or cloned with an argument
// count that does not match the operator or the original node.
type ArityError struct {
	Op      Op
	Want    int
	Got     int
	AtLeast bool // Want is a lower bound
}

func (e *ArityError) Error() string {
	bound := ""
	if e.AtLeast {
		bound = "at least "
	}
	return fmt.Sprintf("%s: %s expects %s%d argument(s), got %d", ErrCodeUnexpectedArity, e.Op, bound, e.Want, e.Got)
}

// Code returns ErrCodeUnexpectedArity.
func (e *ArityError) Code() string {
	return ErrCodeUnexpectedArity
}

// IsArityError reports whether err wraps an *ArityError.
func IsArityError(err error) bool {
	var ae *ArityError
	return errors.As(err, &ae)
}

// ParseError reports a malformed s-expression.
type ParseError struct {
	Pos     int // byte offset into the input
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Pos, e.Message)
}

// IsParseError reports whether err wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
