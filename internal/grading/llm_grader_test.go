package grading

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/llm"
)

func TestLLMGrader_GenerateQuestions(t *testing.T) {
	fake := llm.NewFake(llm.FakeReply{
		JSON: `{"questions":["What is Rust ownership?","What is borrowing?","What is a lifetime?","extra"]}`,
	})
	g := NewLLMGrader(fake)

	qs, err := g.GenerateQuestions(context.Background(), deck.GenerateParams{Topic: "Rust", Level: deck.Advanced, Count: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(qs))
	}

	req := fake.Requests()[0]
	if req.Purpose != "generate" {
		t.Fatalf("purpose = %q", req.Purpose)
	}
	if req.Schema == nil || req.Schema.Name != "flashcard-questions-strict" {
		t.Fatalf("expected questions schema, got %+v", req.Schema)
	}
	for _, want := range []string{`"Rust"`, "advanced level", "[3] flashcards"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, req.Prompt)
		}
	}
}

func TestLLMGrader_EvaluateAnswer(t *testing.T) {
	fake := llm.NewFake(llm.FakeReply{JSON: `{"rating":3.5,"feedback":"Mostly right."}`})
	g := NewLLMGrader(fake)

	fb, err := g.EvaluateAnswer(context.Background(), "What is borrowing?", "Taking a reference")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb != (deck.Feedback{Rating: 3.5, Feedback: "Mostly right."}) {
		t.Fatalf("unexpected feedback: %+v", fb)
	}
	req := fake.Requests()[0]
	if req.Purpose != "evaluate" || !strings.Contains(req.Prompt, `"Taking a reference"`) {
		t.Fatalf("prompt should quote the answer: %+v", req)
	}
}

func TestLLMGrader_ClampsRating(t *testing.T) {
	g := NewLLMGrader(llm.NewFake(llm.FakeReply{JSON: `{"rating":8,"feedback":"Generous."}`}))
	fb, err := g.EvaluateAnswer(context.Background(), "q", "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.Rating != 5 {
		t.Fatalf("rating = %v, want 5", fb.Rating)
	}
}

func TestLLMGrader_ErrorKinds(t *testing.T) {
	tests := []struct {
		name  string
		reply llm.FakeReply
		want  Kind
	}{
		{"rate limit", llm.FakeReply{Err: &llm.Error{Provider: "fake", Kind: llm.ErrRateLimited, Err: errors.New("429")}}, KindRateLimited},
		{"too long", llm.FakeReply{Err: &llm.Error{Provider: "fake", Kind: llm.ErrTooLong}}, KindTokenLimit},
		{"truncated reply", llm.FakeReply{JSON: `{"rating":3`, Truncated: true}, KindTokenLimit},
		{"unavailable", llm.FakeReply{Err: &llm.Error{Provider: "fake", Err: errors.New("503")}}, KindFailed},
		{"reply outside schema", llm.FakeReply{JSON: `{"score":3}`}, KindFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewLLMGrader(llm.NewFake(tt.reply))
			_, err := g.EvaluateAnswer(context.Background(), "q", "a")
			if KindOf(err) != tt.want {
				t.Fatalf("kind = %v, want %v (err %v)", KindOf(err), tt.want, err)
			}
			if tt.reply.Err != nil && !errors.Is(err, tt.reply.Err) {
				t.Fatalf("expected cause to be preserved")
			}
		})
	}
}
