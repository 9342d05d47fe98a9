package comm

import (
	"fmt"

	"github.com/pkg/errors"
)

// Status codes carried by *Error. 0 means success.
const (
	CodeTransport = iota + 1
	CodeTruncate
	CodeAborted
	CodeFreed
	CodeInvalidArg
	CodeNoMem
	CodeOther
)

var codeNames = map[int]string{
	CodeTransport:  "transport",
	CodeTruncate:   "truncate",
	CodeAborted:    "aborted",
	CodeFreed:      "freed",
	CodeInvalidArg: "invalid argument",
	CodeNoMem:      "no memory",
	CodeOther:      "other",
}

// Error is a failure reported by a group operation.
// Error has no Cause method so that errors.Cause stops at it.
type Error struct {
	Code int
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, codeNames[e.Code])
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, codeNames[e.Code], e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code int, op string, format string, args ...interface{}) *Error {
	return &Error{Code: code, Op: op, Err: fmt.Errorf(format, args...)}
}

// Errorf creates an *Error with the given code.
func Errorf(code int, op string, format string, args ...interface{}) error {
	return newError(code, op, format, args...)
}

var (
	ErrFreed = &Error{Code: CodeFreed, Op: "comm"}
)

// Status maps err to its status code: 0 for nil, the code of the innermost
// *Error, and CodeOther for anything else.
func Status(err error) int {
	if err == nil {
		return 0
	}
	if e, ok := errors.Cause(err).(*Error); ok {
		return e.Code
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeOther
}

// IsAborted reports whether err was caused by a group abort.
func IsAborted(err error) bool {
	return Status(err) == CodeAborted
}
