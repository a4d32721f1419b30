package grading

import (
	"errors"
	"fmt"
)

// Kind classifies a grading failure.
type Kind int

const (
	// KindFailed covers every failure that is not a token or rate limit.
	KindFailed Kind = iota
	// KindTokenLimit means the input was too large for the model.
	KindTokenLimit
	// KindRateLimited means the backend throttled the request.
	KindRateLimited
)

// String returns the coarse error type tag shown to the user.
func (k Kind) String() string {
	switch k {
	case KindTokenLimit:
		return "token_limit_exceeded"
	case KindRateLimited:
		return "rate_limit"
	default:
		return "general"
	}
}

// Op names the operation that failed.
type Op string

const (
	OpGenerate Op = "generate"
	OpEvaluate Op = "evaluate"
)

const (
	msgTokenLimit  = "Input exceeds token limit"
	msgRateLimited = "Rate limit exceeded, please try again later"
	msgGenerate    = "Failed to generate flashcards"
	msgEvaluate    = "Failed to evaluate answer"
)

// Error is returned by every Grader method on failure.
type Error struct {
	Op      Op
	Kind    Kind
	Status  int    // HTTP status, 0 when no response was received
	Message string // human-readable message, never empty
	Err     error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// newError fills in the default message for kind and op when msg is blank.
func newError(op Op, kind Kind, status int, msg string, cause error) *Error {
	if msg == "" {
		msg = defaultMessage(op, kind)
	}
	return &Error{Op: op, Kind: kind, Status: status, Message: msg, Err: cause}
}

func defaultMessage(op Op, kind Kind) string {
	switch kind {
	case KindTokenLimit:
		return msgTokenLimit
	case KindRateLimited:
		return msgRateLimited
	}
	if op == OpEvaluate {
		return msgEvaluate
	}
	return msgGenerate
}

// KindOf returns the Kind of err, or KindFailed for foreign errors.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindFailed
}

// IsRateLimited reports whether err is a rate-limit failure.
func IsRateLimited(err error) bool { return err != nil && KindOf(err) == KindRateLimited }

// IsTokenLimit reports whether err is a token-limit failure.
func IsTokenLimit(err error) bool { return err != nil && KindOf(err) == KindTokenLimit }

// Message returns the user-facing message for err.
func Message(err error) string {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
