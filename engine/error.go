package engine

import (
	"errors"
	"fmt"
	"regexp/syntax"

	"github.com/coregx/coregex/nfa"
)

// Status is the outcome of an engine call.
//
// The numeric values are stable and are reported to callers as error codes.
type Status int

const (
	// NoError indicates success.
	NoError Status = iota

	// InternalError indicates a compilation failure or an unexpected
	// engine fault.
	InternalError

	// BacktrackLimit indicates that a backtracking search gave up.
	BacktrackLimit

	// RecursionLimit indicates that the pattern nests too deeply.
	RecursionLimit

	// BadUTF8 indicates malformed UTF-8 in a pattern or subject compiled
	// with the UTF8 flag.
	BadUTF8

	// BadUTF8Offset indicates a start offset that is not on a code point
	// boundary.
	BadUTF8Offset
)

// String returns a human-readable status name
func (s Status) String() string {
	switch s {
	case NoError:
		return "NoError"
	case InternalError:
		return "InternalError"
	case BacktrackLimit:
		return "BacktrackLimit"
	case RecursionLimit:
		return "RecursionLimit"
	case BadUTF8:
		return "BadUTF8"
	case BadUTF8Offset:
		return "BadUTF8Offset"
	default:
		return fmt.Sprintf("UnknownStatus(%d)", int(s))
	}
}

// Error is returned by every failing engine call.
type Error struct {
	Status Status
	Op     string // "compile", "match" or "match-all"
	Err    error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine: %s: %s: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("engine: %s: %s", e.Op, e.Status)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusOf extracts the status from an error returned by this package.
// A nil error is NoError; errors of other origin are InternalError.
func StatusOf(err error) Status {
	if err == nil {
		return NoError
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return InternalError
}

// compileStatus classifies a backend compilation error.
func compileStatus(err error) Status {
	if errors.Is(err, nfa.ErrTooComplex) {
		return RecursionLimit
	}
	var se *syntax.Error
	if errors.As(err, &se) && se.Code == syntax.ErrNestingDepth {
		return RecursionLimit
	}
	return InternalError
}
