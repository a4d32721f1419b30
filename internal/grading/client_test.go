package grading

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abhisek/flashcards/internal/deck"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL + "/api")
}

func jsonReply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

var goParams = deck.GenerateParams{Topic: "Go", Level: deck.Beginner, Count: 3}

func TestGenerateQuestions_HappyPath(t *testing.T) {
	var got generateRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/flashcards" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		jsonReply(w, http.StatusOK, map[string]any{
			"questions": []string{"What is a goroutine?", "What is a channel?", "What is defer?"},
		})
	})

	qs, err := c.GenerateQuestions(context.Background(), goParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(qs))
	}
	if got != (generateRequest{Topic: "Go", Level: "beginner", Count: 3}) {
		t.Fatalf("unexpected request body: %+v", got)
	}
}

func TestGenerateQuestions_TruncatesExtra(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		jsonReply(w, http.StatusOK, map[string]any{
			"questions": []string{"a", "b", "c", "d", "e"},
		})
	})

	qs, err := c.GenerateQuestions(context.Background(), goParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 3 || qs[2] != "c" {
		t.Fatalf("expected first 3 questions, got %v", qs)
	}
}

func TestGenerateQuestions_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		wantKind Kind
		wantMsg  string
	}{
		{"413", http.StatusRequestEntityTooLarge, map[string]any{}, KindTokenLimit, "Input exceeds token limit"},
		{"error_type tag", http.StatusBadRequest, map[string]any{"error": "Topic too long", "error_type": "token_limit_exceeded"}, KindTokenLimit, "Topic too long"},
		{"429", http.StatusTooManyRequests, map[string]any{"error": "API rate limit exceeded. Please try again later."}, KindRateLimited, "API rate limit exceeded. Please try again later."},
		{"429 no body", http.StatusTooManyRequests, nil, KindRateLimited, "Rate limit exceeded, please try again later"},
		{"500 with message", http.StatusInternalServerError, map[string]any{"error": "Unexpected error: boom"}, KindFailed, "Unexpected error: boom"},
		{"500 without message", http.StatusInternalServerError, map[string]any{}, KindFailed, "Failed to generate flashcards"},
		{"400 missing fields", http.StatusBadRequest, map[string]any{"error": "Missing required fields: topic and level"}, KindFailed, "Missing required fields: topic and level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				jsonReply(w, tt.status, tt.body)
			})

			_, err := c.GenerateQuestions(context.Background(), goParams)
			var ge *Error
			if !errors.As(err, &ge) {
				t.Fatalf("expected *Error, got %T (%v)", err, err)
			}
			if ge.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", ge.Kind, tt.wantKind)
			}
			if ge.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", ge.Message, tt.wantMsg)
			}
			if ge.Status != tt.status {
				t.Errorf("status = %d, want %d", ge.Status, tt.status)
			}
			if ge.Op != OpGenerate {
				t.Errorf("op = %q, want %q", ge.Op, OpGenerate)
			}
		})
	}
}

func TestGenerateQuestions_MalformedBody(t *testing.T) {
	bodies := []string{
		`not json`,
		`{"questions": []}`,
		`{"questions": [1, 2]}`,
		`["What is Go?"]`,
	}
	for _, body := range bodies {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		_, err := c.GenerateQuestions(context.Background(), goParams)
		if KindOf(err) != KindFailed || err == nil {
			t.Errorf("body %q: expected generation failure, got %v", body, err)
		}
		if Message(err) != "Failed to generate flashcards" {
			t.Errorf("body %q: message = %q", body, Message(err))
		}
	}
}

func TestGenerateQuestions_TransportFailure(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/api", WithTimeout(time.Second))
	_, err := c.GenerateQuestions(context.Background(), goParams)
	var ge *Error
	if !errors.As(err, &ge) || ge.Kind != KindFailed || ge.Status != 0 {
		t.Fatalf("expected transport failure, got %v", err)
	}
}

func TestEvaluateAnswer_HappyPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/evaluate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req evaluateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Question != "What is a goroutine?" || req.Answer != "A lightweight thread" {
			t.Errorf("unexpected body %+v", req)
		}
		jsonReply(w, http.StatusOK, map[string]any{"rating": 4.2, "feedback": "Good, mention the scheduler."})
	})

	fb, err := c.EvaluateAnswer(context.Background(), "What is a goroutine?", "A lightweight thread")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.Rating != 4.2 || !strings.Contains(fb.Feedback, "scheduler") {
		t.Fatalf("unexpected feedback: %+v", fb)
	}
}

func TestEvaluateAnswer_ClampsRating(t *testing.T) {
	for _, tt := range []struct{ in, want float64 }{{7, 5}, {-1, 0}, {2.5, 2.5}} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			jsonReply(w, http.StatusOK, map[string]any{"rating": tt.in, "feedback": "x"})
		})
		fb, err := c.EvaluateAnswer(context.Background(), "q", "a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fb.Rating != tt.want {
			t.Errorf("rating %v clamped to %v, want %v", tt.in, fb.Rating, tt.want)
		}
	}
}

func TestEvaluateAnswer_Errors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		jsonReply(w, http.StatusTooManyRequests, map[string]any{})
	})
	_, err := c.EvaluateAnswer(context.Background(), "q", "a")
	if !IsRateLimited(err) {
		t.Fatalf("expected rate limit, got %v", err)
	}

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		jsonReply(w, http.StatusOK, map[string]any{"rating": "five"})
	})
	_, err = c.EvaluateAnswer(context.Background(), "q", "a")
	if Message(err) != "Failed to evaluate answer" {
		t.Fatalf("expected evaluation failure, got %v", err)
	}
}

func TestPing(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Method != http.MethodGet {
			t.Errorf("ping method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNotFound)
	})
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected 1 hit, got %d", hits.Load())
	}
}

func TestKindString(t *testing.T) {
	if KindTokenLimit.String() != "token_limit_exceeded" || KindRateLimited.String() != "rate_limit" || KindFailed.String() != "general" {
		t.Fatal("unexpected kind tags")
	}
	if KindOf(errors.New("other")) != KindFailed {
		t.Fatal("foreign errors should map to KindFailed")
	}
}
