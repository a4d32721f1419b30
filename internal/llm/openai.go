package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
}

// openaiBackend speaks the chat completions API with a strict JSON-schema
// response format. OpenRouter is reached through the same API via BaseURL,
// so the backend carries the configured provider name for errors and logs.
type openaiBackend struct {
	client *openai.Client
	model  string
	name   string
}

func newOpenAI(cfg Config) (*openaiBackend, error) {
	name := cfg.Provider
	if name == "" {
		name = ProviderOpenAI
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}
	conf := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	return &openaiBackend{
		client: openai.NewClientWithConfig(conf),
		model:  resolveModel(cfg.Model, openaiModels),
		name:   name,
	}, nil
}

func (p *openaiBackend) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := req.check(); err != nil {
		return nil, &Error{Provider: p.name, Err: err}
	}
	schema, err := json.Marshal(req.Schema.Definition)
	if err != nil {
		return nil, &Error{Provider: p.name, Err: fmt.Errorf("encode schema %q: %w", req.Schema.Name, err)}
	}

	var msgs []openai.ChatCompletionMessage
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            msgs,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(schema),
				Strict:      true,
			},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if !errors.As(err, &apiErr) {
			return nil, apiError(p.name, 0, err)
		}
		if apiErr.Code == "context_length_exceeded" {
			return nil, &Error{Provider: p.name, Kind: ErrTooLong, Err: err}
		}
		return nil, apiError(p.name, apiErr.HTTPStatusCode, err)
	}
	if len(resp.Choices) == 0 {
		return nil, &Error{Provider: p.name, Err: errors.New("reply has no choices")}
	}

	choice := resp.Choices[0]
	return finish(p.name, req, reply{
		text:      choice.Message.Content,
		model:     resp.Model,
		truncated: choice.FinishReason == openai.FinishReasonLength,
		in:        resp.Usage.PromptTokens,
		out:       resp.Usage.CompletionTokens,
	})
}

func (p *openaiBackend) ModelID() string { return p.model }
