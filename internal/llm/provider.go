// Package llm asks hosted models for structured JSON. Every call is a
// single prompt whose reply must satisfy a JSON Schema; the reply is
// checked before it is returned.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Provider is one configured model backend.
type Provider interface {
	// Generate sends req and returns the schema-checked reply.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier requests are sent to.
	ModelID() string
}

// Request is a single structured prompt. Schema is required.
type Request struct {
	Purpose     string // log label, e.g. "generate" or "evaluate"
	System      string
	Prompt      string
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

func (r Request) check() error {
	switch {
	case r.Schema == nil:
		return errors.New("request has no response schema")
	case r.Prompt == "":
		return errors.New("request has no prompt")
	case r.MaxTokens <= 0:
		return errors.New("request has no token budget")
	}
	return nil
}

// Schema is the JSON Schema a reply must satisfy. Name is sent to
// providers that label structured output and keys the compile cache.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a validated reply.
type Response struct {
	Content      json.RawMessage
	Model        string
	InputTokens  int
	OutputTokens int
}

// reply is what a backend returned, before validation.
type reply struct {
	text      string
	model     string
	truncated bool
	in, out   int
}

// finish turns a backend reply into a Response. A reply cut off by the
// token budget fails with ErrTooLong; one that does not match the request
// schema fails with a *SchemaError cause.
func finish(provider string, req Request, r reply) (*Response, error) {
	if r.truncated {
		return nil, &Error{
			Provider: provider,
			Kind:     ErrTooLong,
			Err:      fmt.Errorf("reply stopped at the %d token budget", req.MaxTokens),
		}
	}
	content := json.RawMessage(r.text)
	if err := Validate(req.Schema, content); err != nil {
		return nil, &Error{Provider: provider, Err: err}
	}
	return &Response{
		Content:      content,
		Model:        r.model,
		InputTokens:  r.in,
		OutputTokens: r.out,
	}, nil
}

// resolveModel maps a friendly model name to a provider model id. Unknown
// names are used as given.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
