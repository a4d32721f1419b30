// Package card implements the per-question answer/evaluate/review cycle.
package card

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/grading"
)

// Phase is the interaction state of a card.
type Phase int

const (
	Answering Phase = iota
	Submitting
	Reviewing
)

func (p Phase) String() string {
	switch p {
	case Answering:
		return "answering"
	case Submitting:
		return "submitting"
	case Reviewing:
		return "reviewing"
	}
	return "unknown"
}

var (
	ErrBlankAnswer   = errors.New("answer is blank")
	ErrNotAnswering  = errors.New("card is not accepting answers")
	ErrNotSubmitting = errors.New("card has no submission in flight")
	ErrNotReviewing  = errors.New("card is not showing a result")
)

// Controller drives one card. OnReviewed, when set, is called exactly
// once per entry into Reviewing, after the evaluation has resolved.
type Controller struct {
	mu         sync.Mutex
	question   deck.Question
	phase      Phase
	answer     string
	result     *deck.AnswerResult
	OnReviewed func(deck.AnswerResult)
}

// New creates a controller in the Answering phase.
func New(q deck.Question) *Controller {
	return &Controller{question: q}
}

// Question returns the card's question.
func (c *Controller) Question() deck.Question { return c.question }

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Answer returns the submitted answer while Submitting or Reviewing.
func (c *Controller) Answer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answer
}

// Result returns the graded result while Reviewing.
func (c *Controller) Result() (deck.AnswerResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return deck.AnswerResult{}, false
	}
	return *c.result, true
}

// Begin moves Answering -> Submitting with answer. Blank answers and
// wrong phases are rejected without a state change.
func (c *Controller) Begin(answer string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Answering {
		return ErrNotAnswering
	}
	if strings.TrimSpace(answer) == "" {
		return ErrBlankAnswer
	}
	c.phase = Submitting
	c.answer = answer
	return nil
}

// Resolve completes a submission. On success the card moves to Reviewing
// and OnReviewed fires; on failure it returns to Answering and err is
// returned unchanged so the caller can show it.
func (c *Controller) Resolve(fb deck.Feedback, err error) error {
	c.mu.Lock()
	if c.phase != Submitting {
		c.mu.Unlock()
		return ErrNotSubmitting
	}
	if err != nil {
		c.phase = Answering
		c.mu.Unlock()
		return err
	}
	r := deck.AnswerResult{
		QuestionID: c.question.ID,
		Question:   c.question.Text,
		Answer:     c.answer,
		Rating:     fb.Rating,
		Feedback:   fb.Feedback,
	}
	c.result = &r
	c.phase = Reviewing
	notify := c.OnReviewed
	c.mu.Unlock()

	if notify != nil {
		notify(r)
	}
	return nil
}

// Submit runs Begin, the evaluation and Resolve in one call.
func (c *Controller) Submit(ctx context.Context, g grading.Grader, answer string) error {
	if err := c.Begin(answer); err != nil {
		return err
	}
	fb, err := g.EvaluateAnswer(ctx, c.question.Text, answer)
	return c.Resolve(fb, err)
}

// TryAgain discards the reviewed answer and returns to Answering.
func (c *Controller) TryAgain() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Reviewing {
		return ErrNotReviewing
	}
	c.phase = Answering
	c.answer = ""
	c.result = nil
	return nil
}
