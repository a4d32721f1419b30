package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *openaiBackend {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := newOpenAI(Config{Provider: ProviderOpenAI, APIKey: "test-key", BaseURL: server.URL + "/v1", Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("newOpenAI: %v", err)
	}
	return p
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func questionsRequest() Request {
	return Request{
		Purpose:   "generate",
		System:    "You write flashcards.",
		Prompt:    "Generate flashcards about Go.",
		Schema:    questionsTestSchema(),
		MaxTokens: 256,
	}
}

func TestOpenAI_SendsStrictSchemaFormat(t *testing.T) {
	var body struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name   string          `json:"name"`
				Strict bool            `json:"strict"`
				Schema json.RawMessage `json:"schema"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"questions":["What is a goroutine?","What does select do?"]}`, "stop"))
	})

	resp, err := p.Generate(context.Background(), questionsRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.InputTokens != 40 || resp.OutputTokens != 25 {
		t.Fatalf("unexpected usage: %d/%d", resp.InputTokens, resp.OutputTokens)
	}
	if len(body.Messages) != 2 || body.Messages[0].Role != "system" || body.Messages[1].Content != "Generate flashcards about Go." {
		t.Fatalf("unexpected messages: %+v", body.Messages)
	}
	if body.ResponseFormat.Type != "json_schema" || body.ResponseFormat.JSONSchema.Name != "test-questions" || !body.ResponseFormat.JSONSchema.Strict {
		t.Fatalf("unexpected response format: %+v", body.ResponseFormat)
	}
	if len(body.ResponseFormat.JSONSchema.Schema) == 0 {
		t.Fatal("expected the schema definition to be sent")
	}
}

func TestOpenAI_Truncated(t *testing.T) {
	p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"questions":["What`, "length"))
	})
	_, err := p.Generate(context.Background(), questionsRequest())
	if !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got: %v", err)
	}
}

func TestOpenAI_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, "rate_limit_exceeded", ErrRateLimited},
		{"context length", http.StatusBadRequest, "context_length_exceeded", ErrTooLong},
		{"server error", http.StatusInternalServerError, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"type": "error", "message": tt.name, "code": tt.code},
				})
			})
			_, err := p.Generate(context.Background(), questionsRequest())
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got: %T (%v)", err, err)
			}
			if e.Kind != tt.want {
				t.Fatalf("kind = %v, want %v", e.Kind, tt.want)
			}
		})
	}
}

func TestOpenAI_OpenRouterName(t *testing.T) {
	cfg := Config{Provider: ProviderOpenRouter, APIKey: "test-key"}.WithDefaults()
	if cfg.BaseURL != defaultOpenRouterBaseURL {
		t.Fatalf("expected OpenRouter base URL, got %q", cfg.BaseURL)
	}
	p, err := newOpenAI(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.name != ProviderOpenRouter {
		t.Fatalf("expected errors to carry the openrouter name, got %q", p.name)
	}
}
