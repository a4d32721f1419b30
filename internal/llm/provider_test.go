package llm

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func evalRequest() Request {
	return Request{
		Purpose:   "evaluate",
		System:    "You grade answers.",
		Prompt:    "Rate this answer.",
		Schema:    evaluationTestSchema(),
		MaxTokens: 256,
	}
}

func TestFake_RepliesInOrder(t *testing.T) {
	f := NewFake(
		FakeReply{JSON: `{"rating":4,"feedback":"Good."}`},
		FakeReply{JSON: `{"rating":1,"feedback":"Off."}`},
	)

	resp, err := f.Generate(context.Background(), evalRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"rating":4,"feedback":"Good."}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	resp, err = f.Generate(context.Background(), evalRequest())
	if err != nil || string(resp.Content) != `{"rating":1,"feedback":"Off."}` {
		t.Fatalf("unexpected second reply: %v %v", resp, err)
	}
	if _, err := f.Generate(context.Background(), evalRequest()); err == nil {
		t.Fatal("expected an error once the script runs out")
	}
	if n := len(f.Requests()); n != 3 {
		t.Fatalf("expected 3 recorded requests, got %d", n)
	}
}

func TestFake_ChecksReplyAgainstSchema(t *testing.T) {
	f := NewFake(FakeReply{JSON: `{"rating":"high"}`})
	_, err := f.Generate(context.Background(), evalRequest())

	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SchemaError, got: %T (%v)", err, err)
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTooLong) {
		t.Fatalf("schema mismatch must not carry a failure kind: %v", err)
	}
}

func TestFake_Truncated(t *testing.T) {
	f := NewFake(FakeReply{JSON: `{"rating":4,"feedb`, Truncated: true})
	_, err := f.Generate(context.Background(), evalRequest())
	if !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got: %v", err)
	}
}

func TestRequestCheck(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"no schema", func(r *Request) { r.Schema = nil }},
		{"no prompt", func(r *Request) { r.Prompt = "" }},
		{"no budget", func(r *Request) { r.MaxTokens = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := evalRequest()
			tt.mutate(&req)
			f := NewFake(FakeReply{JSON: `{"rating":4,"feedback":"Good."}`})
			if _, err := f.Generate(context.Background(), req); err == nil {
				t.Fatal("expected the request to be refused")
			}
			if len(f.Requests()) != 0 {
				t.Fatal("refused request must not be recorded")
			}
		})
	}
}

func TestError_MatchesKindAndCause(t *testing.T) {
	cause := errors.New("429 from upstream")
	err := error(apiError("openai", 429, cause))

	if !errors.Is(err, ErrRateLimited) {
		t.Fatal("expected ErrRateLimited")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected the cause to stay reachable")
	}
	if errors.Is(err, ErrTooLong) {
		t.Fatal("unexpected ErrTooLong")
	}
	if got := err.Error(); got != "openai: rate limited: 429 from upstream" {
		t.Fatalf("unexpected message %q", got)
	}

	if !errors.Is(apiError("anthropic", 413, cause), ErrTooLong) {
		t.Fatal("expected 413 to map to ErrTooLong")
	}
	plain := apiError("gemini", 500, cause)
	if plain.Kind != nil {
		t.Fatalf("expected no kind for a 500, got %v", plain.Kind)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, APIKey: "sk-test"}, false},
		{"gemini with key", Config{Provider: ProviderGemini, APIKey: "g-test"}, false},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, true},
		{"no provider", Config{}, true},
		{"unknown provider", Config{Provider: "unknown", APIKey: "k"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_DiscoverPriority(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "oa-key")
	t.Setenv("ANTHROPIC_API_KEY", "an-key")
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg, ok := Config{}.Discover()
	if !ok {
		t.Fatal("expected a provider to be discovered")
	}
	if cfg.Provider != ProviderOpenAI || cfg.APIKey != "oa-key" {
		t.Fatalf("got provider %q key %q, want openai/oa-key", cfg.Provider, cfg.APIKey)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %q", cfg.Model)
	}

	cfg, ok = Config{Provider: ProviderAnthropic}.Discover()
	if !ok || cfg.APIKey != "an-key" {
		t.Fatalf("expected anthropic key from env, got %+v (ok=%v)", cfg, ok)
	}

	if _, ok := (Config{Provider: ProviderGemini}).Discover(); ok {
		t.Fatal("expected no gemini configuration without a key")
	}
}

func TestNewProvider_OpenRouter(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderOpenRouter, APIKey: "k"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "google/gemini-2.0-flash-001" {
		t.Fatalf("expected default OpenRouter model, got %q", p.ModelID())
	}
}

func TestNewProvider_RejectsMissingKey(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: ProviderAnthropic}, nil); err == nil {
		t.Fatal("expected an error without an API key")
	}
}

func TestWithLogging_RecordsPurpose(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := NewFake(
		FakeReply{JSON: `{"rating":4,"feedback":"Good."}`},
		FakeReply{Err: apiError("fake", 429, errors.New("slow down"))},
	)
	p := WithLogging(f, "fake", logger)

	resp, err := p.Generate(context.Background(), evalRequest())
	if err != nil || resp == nil {
		t.Fatalf("unexpected result: %v %v", resp, err)
	}
	_, err = p.Generate(context.Background(), evalRequest())
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"purpose=evaluate", "schema=test-evaluation", "llm request failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestWithTimeout_CancelsSlowRequest(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), evalRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got: %v", err)
	}
}
