package farkas

import (
	"errors"
	"fmt"

	"github.com/roach88/farkas/internal/ir"
)

// ErrorCode categorizes certificate errors.
type ErrorCode string

const (
	// ErrCodeMalformedCertificate indicates a proof step that does not have
	// the shape its rule requires, e.g. a multiplier that is not rational.
	ErrCodeMalformedCertificate ErrorCode = "MALFORMED_CERTIFICATE"

	// ErrCodeNotAnInequality indicates a formula handed to the combiner
	// that is not a relation under at most one negation.
	ErrCodeNotAnInequality ErrorCode = "NOT_AN_INEQUALITY"
)

// Error is returned for every certificate the core cannot process. Such
// errors point at the proof producer and are never retried.
type Error struct {
	Code    ErrorCode
	Message string

	// Index is the parameter or premise position involved, -1 if none.
	Index int

	// Term is the offending formula, if any.
	Term *ir.Term
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Detail())
}

// Detail is the message with its index and term, without the code.
func (e *Error) Detail() string {
	msg := e.Message
	if e.Index >= 0 {
		msg += fmt.Sprintf(" (index=%d)", e.Index)
	}
	if e.Term != nil {
		msg += fmt.Sprintf(" (term=%s)", e.Term)
	}
	return msg
}

// IsMalformedCertificate reports whether err wraps a MALFORMED_CERTIFICATE error.
func IsMalformedCertificate(err error) bool {
	return hasCode(err, ErrCodeMalformedCertificate)
}

// IsNotAnInequality reports whether err wraps a NOT_AN_INEQUALITY error.
func IsNotAnInequality(err error) bool {
	return hasCode(err, ErrCodeNotAnInequality)
}

// CodeOf returns the code of a wrapped *Error, or "" for anything else.
func CodeOf(err error) ErrorCode {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// MessageOf returns the detail of a wrapped *Error, which callers report
// next to CodeOf, or err.Error() for anything else.
func MessageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Detail()
	}
	return err.Error()
}

func hasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func malformed(index int, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeMalformedCertificate,
		Message: fmt.Sprintf(format, args...),
		Index:   index,
	}
}

func notAnInequality(t *ir.Term) *Error {
	return &Error{
		Code:    ErrCodeNotAnInequality,
		Message: "expected <=, <, >= or > under at most one negation",
		Index:   -1,
		Term:    t,
	}
}
