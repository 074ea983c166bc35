package pcre

import (
	"errors"
	"fmt"

	"github.com/coregx/pcre/engine"
)

// Error codes reported by EngineError.Code.
const (
	NoError        = int(engine.NoError)
	InternalError  = int(engine.InternalError)
	BacktrackLimit = int(engine.BacktrackLimit)
	RecursionLimit = int(engine.RecursionLimit)
	BadUTF8        = int(engine.BadUTF8)
	BadUTF8Offset  = int(engine.BadUTF8Offset)
)

var errorMessages = map[int]string{
	NoError:        "No errors",
	InternalError:  "Internal PCRE error",
	BacktrackLimit: "Backtrack limit was exhausted",
	RecursionLimit: "Recursion limit was exhausted",
	BadUTF8:        "Malformed UTF-8 data",
	BadUTF8Offset:  "The offset didn't correspond to the beginning of a valid UTF-8 code point",
}

// ErrorMessage returns the message for an engine error code.
// Unrecognized codes yield "Unknown error".
func ErrorMessage(code int) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}

// EngineError reports a non-success status from the regex engine.
//
// errors.Is matches two EngineErrors with the same Code, so callers can test
// against the exported sentinels:
//
//	if errors.Is(err, pcre.ErrBacktrackLimit) { ... }
type EngineError struct {
	Code    int
	Message string
	Cause   error // Optional underlying engine error
}

// Sentinels for errors.Is comparisons.
var (
	ErrInternal       = &EngineError{Code: InternalError, Message: ErrorMessage(InternalError)}
	ErrBacktrackLimit = &EngineError{Code: BacktrackLimit, Message: ErrorMessage(BacktrackLimit)}
	ErrRecursionLimit = &EngineError{Code: RecursionLimit, Message: ErrorMessage(RecursionLimit)}
	ErrBadUTF8        = &EngineError{Code: BadUTF8, Message: ErrorMessage(BadUTF8)}
	ErrBadUTF8Offset  = &EngineError{Code: BadUTF8Offset, Message: ErrorMessage(BadUTF8Offset)}
)

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pcre: %s (%d): %v", e.Message, e.Code, e.Cause)
	}
	return fmt.Sprintf("pcre: %s (%d)", e.Message, e.Code)
}

// Unwrap returns the underlying error (for errors.Is/As)
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for errors.Is
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// checkError translates an engine error into an *EngineError.
// It returns nil for a nil error or a NoError status.
func checkError(err error) error {
	if err == nil {
		return nil
	}
	code := int(engine.StatusOf(err))
	if code == NoError {
		return nil
	}
	return &EngineError{
		Code:    code,
		Message: ErrorMessage(code),
		Cause:   err,
	}
}

// UnexpectedResultError reports an engine result of the wrong shape
// returned without an engine error.
type UnexpectedResultError struct {
	Op     string
	Reason string
}

// Error implements the error interface
func (e *UnexpectedResultError) Error() string {
	return "pcre: " + e.Op + ": unexpected engine result: " + e.Reason
}

// ErrNoGroup indicates access to a capture group that did not participate in
// the match or does not exist.
var ErrNoGroup = errors.New("pcre: no such capture group")

// GroupError reports access to an absent capture group.
type GroupError struct {
	Index int
	Name  string // set for lookups by name
}

// Error implements the error interface
func (e *GroupError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("pcre: capture group %q is not set", e.Name)
	}
	return fmt.Sprintf("pcre: capture group %d is not set", e.Index)
}

// Unwrap returns ErrNoGroup
func (e *GroupError) Unwrap() error {
	return ErrNoGroup
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "pcre: invalid config: " + e.Field + ": " + e.Message
}
