// Package session owns the active study session: the generated question
// list, the learner's position and the graded results.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/grading"
	"github.com/abhisek/flashcards/internal/persistence"
)

// ErrNoQuestions is returned when generation yields an empty list.
var ErrNoQuestions = errors.New("no questions were generated")

// Records is the persistence the controller mirrors into.
type Records interface {
	LoadSession(ctx context.Context) (*persistence.Snapshot, error)
	SaveSession(ctx context.Context, snap persistence.Snapshot) error
	ClearSession(ctx context.Context) error
}

// Controller is the single owner of session state. All methods are safe
// for concurrent use. While a session is active every mutation is
// mirrored to Records; on completion or abandonment the mirror is cleared.
type Controller struct {
	mu       sync.Mutex
	grader   grading.Grader
	records  Records
	logger   *slog.Logger
	state    *State
	complete bool
}

// NewController creates a controller and restores any persisted session.
func NewController(ctx context.Context, grader grading.Grader, records Records, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{grader: grader, records: records, logger: logger}

	snap, err := records.LoadSession(ctx)
	if err != nil {
		logger.Warn("could not restore session", "err", err)
		return c
	}
	if snap == nil {
		return c
	}
	c.state = stateFromSnapshot(snap)
	logger.Info("restored session", "topic", snap.Topic, "answered", len(snap.Results), "total", len(snap.Questions))
	c.checkComplete(ctx)
	return c
}

// Start generates a new deck and replaces the current session with it.
// On failure the existing session is left untouched.
func (c *Controller) Start(ctx context.Context, params deck.GenerateParams) error {
	params = params.Normalize()
	if err := params.Validate(); err != nil {
		return err
	}

	texts, err := c.grader.GenerateQuestions(ctx, params)
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return ErrNoQuestions
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = newState(params.Topic, params.Level, deck.NewQuestions(texts))
	c.complete = false
	c.persist(ctx)
	return nil
}

// LoadDeck starts practicing a saved deck from its first card with no
// results. A deck without a known level or with missing or repeated
// question ids is refused and the current session is left untouched.
func (c *Controller) LoadDeck(ctx context.Context, saved deck.SavedDeck) error {
	if err := deck.CheckDeck(saved.Level, saved.Questions); err != nil {
		return fmt.Errorf("deck %q cannot be studied: %w", saved.Name, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = newState(saved.Topic, saved.Level, saved.Questions)
	c.complete = false
	c.persist(ctx)
	return nil
}

// Restart clears the results of the current (or just completed) deck and
// returns to its first card. It reports false when there is no deck.
func (c *Controller) Restart(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return false
	}
	c.state.Results = nil
	c.state.Index = 0
	c.complete = false
	c.persist(ctx)
	return true
}

// RecordResult upserts r by question id and then checks completion. It
// reports whether this result completed the session. Results for unknown
// questions, or arriving when no session is active, are ignored.
func (c *Controller) RecordResult(ctx context.Context, r deck.AnswerResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.activeLocked() {
		c.logger.Debug("ignoring result without an active session", "question", r.QuestionID)
		return false
	}
	if !c.state.hasQuestion(r.QuestionID) {
		c.logger.Warn("ignoring result for unknown question", "question", r.QuestionID)
		return false
	}
	c.state.upsert(r)
	if c.checkCompleteLocked(ctx) {
		return true
	}
	c.persist(ctx)
	return false
}

// Advance moves to the next card; it is a no-op on the last one.
func (c *Controller) Advance(ctx context.Context) bool {
	return c.move(ctx, 1)
}

// Retreat moves to the previous card; it is a no-op on the first one.
func (c *Controller) Retreat(ctx context.Context) bool {
	return c.move(ctx, -1)
}

func (c *Controller) move(ctx context.Context, delta int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.activeLocked() {
		return false
	}
	next := c.state.Index + delta
	if next < 0 || next >= len(c.state.Questions) {
		return false
	}
	c.state.Index = next
	c.persist(ctx)
	return true
}

// Abandon discards the session and its persisted mirror.
func (c *Controller) Abandon(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = nil
	c.complete = false
	c.clear(ctx)
}

// Active reports whether a session is in progress.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked()
}

// IsComplete reports whether every question of the deck has a result.
func (c *Controller) IsComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != nil && c.complete
}

// Completed returns the finished deck for the summary.
func (c *Controller) Completed() (deck.Completed, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil || !c.complete {
		return deck.Completed{}, false
	}
	return deck.Completed{
		Topic:     c.state.Topic,
		Level:     c.state.Level,
		Questions: slices.Clone(c.state.Questions),
		Results:   c.state.ordered(),
	}, true
}

// State returns a copy of the session state.
func (c *Controller) State() (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return State{}, false
	}
	return c.state.clone(), true
}

// Current returns the visible question.
func (c *Controller) Current() (deck.Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil || len(c.state.Questions) == 0 {
		return deck.Question{}, false
	}
	return c.state.Questions[c.state.Index], true
}

// ResultFor returns the recorded result for a question id.
func (c *Controller) ResultFor(id string) (deck.AnswerResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return deck.AnswerResult{}, false
	}
	if i := c.state.resultIndex(id); i >= 0 {
		return c.state.Results[i], true
	}
	return deck.AnswerResult{}, false
}

// Progress returns the position and answered count.
func (c *Controller) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return Progress{}
	}
	return c.state.progress()
}

func (c *Controller) activeLocked() bool {
	return c.state != nil && !c.complete
}

func (c *Controller) checkComplete(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkCompleteLocked(ctx)
}

// checkCompleteLocked marks the session complete and clears the mirror
// once every question has a result.
func (c *Controller) checkCompleteLocked(ctx context.Context) bool {
	if c.complete || !c.state.complete() {
		return false
	}
	c.complete = true
	c.clear(ctx)
	c.logger.Info("session complete", "topic", c.state.Topic, "questions", len(c.state.Questions))
	return true
}

func (c *Controller) persist(ctx context.Context) {
	if err := c.records.SaveSession(ctx, c.state.snapshot()); err != nil {
		c.logger.Warn("failed to persist session", "err", err)
	}
}

func (c *Controller) clear(ctx context.Context) {
	if err := c.records.ClearSession(ctx); err != nil {
		c.logger.Warn("failed to clear persisted session", "err", err)
	}
}
