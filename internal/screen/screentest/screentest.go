// Package screentest builds in-memory screen.Services for screen tests.
package screentest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/library"
	"github.com/abhisek/flashcards/internal/persistence"
	"github.com/abhisek/flashcards/internal/report"
	"github.com/abhisek/flashcards/internal/screen"
	"github.com/abhisek/flashcards/internal/session"
	"github.com/abhisek/flashcards/internal/store"
)

// Grader is a scripted grading.Grader. Generate returns Count numbered
// questions about the topic unless GenerateErr is set; Evaluate returns
// Feedback unless EvaluateErr is set.
type Grader struct {
	mu          sync.Mutex
	GenerateErr error
	EvaluateErr error
	Feedback    deck.Feedback
	Evaluated   []string
}

func (g *Grader) GenerateQuestions(_ context.Context, p deck.GenerateParams) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.GenerateErr != nil {
		return nil, g.GenerateErr
	}
	out := make([]string, p.Count)
	for i := range out {
		out[i] = fmt.Sprintf("%s question %d", p.Topic, i+1)
	}
	return out, nil
}

func (g *Grader) EvaluateAnswer(_ context.Context, _ string, answer string) (deck.Feedback, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Evaluated = append(g.Evaluated, answer)
	if g.EvaluateErr != nil {
		return deck.Feedback{}, g.EvaluateErr
	}
	return g.Feedback, nil
}

// Stub is a named placeholder screen returned by the default factories.
type Stub struct {
	Name   string
	Report *report.Report
}

func (s *Stub) Init() tea.Cmd                           { return nil }
func (s *Stub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *Stub) View(int, int) string                    { return s.Name }
func (s *Stub) Title() string                           { return s.Name }

// Env is a test environment.
type Env struct {
	Services *screen.Services
	Grader   *Grader
	KV       *store.Memory
	Records  *persistence.Adapter
}

// New builds services over an empty in-memory store.
func New(t testing.TB) *Env {
	return NewWithKV(t, store.NewMemory())
}

// NewWithKV builds services over kv, restoring whatever it holds.
func NewWithKV(t testing.TB, kv *store.Memory) *Env {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	records := persistence.New(kv, logger)
	g := &Grader{Feedback: deck.Feedback{Rating: 4, Feedback: "Good answer."}}

	lib, err := library.Open(ctx, records)
	if err != nil {
		t.Fatalf("open library: %v", err)
	}

	svc := &screen.Services{
		Session: session.NewController(ctx, g, records, logger),
		Library: lib,
		Grader:  g,
		Logger:  logger,
		Screens: screen.Factories{
			Home:    func() screen.Screen { return &Stub{Name: "home"} },
			NewDeck: func() screen.Screen { return &Stub{Name: "newdeck"} },
			Study:   func() screen.Screen { return &Stub{Name: "study"} },
			Summary: func(r *report.Report) screen.Screen { return &Stub{Name: "summary", Report: r} },
			Decks:   func() screen.Screen { return &Stub{Name: "decks"} },
		},
	}
	return &Env{Services: svc, Grader: g, KV: kv, Records: records}
}

// StartDeck starts a session of count questions about topic.
func (e *Env) StartDeck(t testing.TB, topic string, count int) {
	t.Helper()
	err := e.Services.Session.Start(context.Background(), deck.GenerateParams{
		Topic: topic, Level: deck.Beginner, Count: count,
	})
	if err != nil {
		t.Fatalf("start deck: %v", err)
	}
}

// Key returns a key press for a printable rune.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special returns a key press for a named key such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Type feeds each rune of s to update.
func Type(s string, update func(tea.Msg)) {
	for _, r := range s {
		update(Key(r))
	}
}

// Run executes cmd and returns its message, or nil.
func Run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
