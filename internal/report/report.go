package report

import (
	"context"
	"errors"
	"strings"

	"github.com/abhisek/flashcards/internal/deck"
)

var (
	ErrAlreadySaved = errors.New("deck already saved")
	ErrBlankName    = errors.New("deck name is required")
)

// Saver stores a completed deck under a name.
type Saver interface {
	Add(ctx context.Context, name string, c deck.Completed) (deck.SavedDeck, error)
}

// Report is the summary of one completed deck.
type Report struct {
	Deck    deck.Completed
	Average float64
	Grade   Grade
	Success int

	saved *deck.SavedDeck
}

// New builds the report for a completed deck.
func New(c deck.Completed) *Report {
	avg := AverageRating(c.Results)
	return &Report{
		Deck:    c,
		Average: avg,
		Grade:   GradeFor(avg),
		Success: SuccessRate(c.Results),
	}
}

// Saved returns the stored deck once SaveAsDeck has succeeded.
func (r *Report) Saved() (deck.SavedDeck, bool) {
	if r.saved == nil {
		return deck.SavedDeck{}, false
	}
	return *r.saved, true
}

// SaveAsDeck stores the deck under name. A report saves at most once;
// starting a new deck produces a new report.
func (r *Report) SaveAsDeck(ctx context.Context, s Saver, name string) (deck.SavedDeck, error) {
	if r.saved != nil {
		return *r.saved, ErrAlreadySaved
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return deck.SavedDeck{}, ErrBlankName
	}
	saved, err := s.Add(ctx, name, r.Deck)
	if err != nil {
		return deck.SavedDeck{}, err
	}
	r.saved = &saved
	return saved, nil
}
