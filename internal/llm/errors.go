package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Failure kinds callers branch on. Match them with errors.Is.
var (
	ErrRateLimited = errors.New("rate limited")
	ErrTooLong     = errors.New("token limit exceeded")
)

// Error is a failed Generate call. Kind is ErrRateLimited, ErrTooLong or
// nil; Err is the underlying cause. errors.Is and errors.As see both.
type Error struct {
	Provider string
	Kind     error
	Err      error
}

func (e *Error) Error() string {
	msg := e.Provider
	if e.Kind != nil {
		msg += ": " + e.Kind.Error()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// apiError wraps a failed API call, classified by its HTTP status.
func apiError(provider string, status int, err error) *Error {
	var kind error
	switch status {
	case http.StatusTooManyRequests:
		kind = ErrRateLimited
	case http.StatusRequestEntityTooLarge:
		kind = ErrTooLong
	}
	return &Error{Provider: provider, Kind: kind, Err: err}
}

// SchemaError reports a reply that is not JSON or does not match the
// requested schema.
type SchemaError struct {
	Schema  string
	Content json.RawMessage
	Err     error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("reply does not match schema %q: %v", e.Schema, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
