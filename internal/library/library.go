// Package library manages the list of saved decks.
package library

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/flashcards/internal/deck"
)

// ErrNotFound is returned when a deck id is unknown.
var ErrNotFound = errors.New("saved deck not found")

// Records is the persistence the library needs.
type Records interface {
	LoadDecks(ctx context.Context) ([]deck.SavedDeck, error)
	SaveDecks(ctx context.Context, decks []deck.SavedDeck) error
}

// Library holds the saved-deck list in memory. It is read once at Open
// and every mutation rewrites the whole list.
type Library struct {
	mu      sync.Mutex
	records Records
	decks   []deck.SavedDeck
	now     func() time.Time
}

// Open loads the saved decks from records.
func Open(ctx context.Context, records Records) (*Library, error) {
	decks, err := records.LoadDecks(ctx)
	if err != nil {
		return nil, err
	}
	return &Library{records: records, decks: decks, now: time.Now}, nil
}

// List returns the decks, newest first.
func (l *Library) List() []deck.SavedDeck {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := slices.Clone(l.decks)
	slices.SortStableFunc(out, func(a, b deck.SavedDeck) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	return out
}

// Len reports how many decks are saved.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.decks)
}

// Get returns the deck with id.
func (l *Library) Get(id int64) (deck.SavedDeck, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(id); i >= 0 {
		return l.decks[i], nil
	}
	return deck.SavedDeck{}, fmt.Errorf("deck %d: %w", id, ErrNotFound)
}

// Add saves a completed session under name and returns the stored deck.
// The id is the creation time in milliseconds, bumped past any existing id.
func (l *Library) Add(ctx context.Context, name string, c deck.Completed) (deck.SavedDeck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return deck.SavedDeck{}, errors.New("deck name is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	id := now.UnixMilli()
	for l.index(id) >= 0 {
		id++
	}

	saved := deck.SavedDeck{
		ID:        id,
		Name:      name,
		Topic:     c.Topic,
		Level:     c.Level,
		Questions: slices.Clone(c.Questions),
		Results:   slices.Clone(c.Results),
		SavedAt:   now,
	}

	next := append(slices.Clone(l.decks), saved)
	if err := l.records.SaveDecks(ctx, next); err != nil {
		return deck.SavedDeck{}, err
	}
	l.decks = next
	return saved, nil
}

// Delete removes the deck with id.
func (l *Library) Delete(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("deck %d: %w", id, ErrNotFound)
	}
	next := slices.Delete(slices.Clone(l.decks), i, i+1)
	if err := l.records.SaveDecks(ctx, next); err != nil {
		return err
	}
	l.decks = next
	return nil
}

func (l *Library) index(id int64) int {
	return slices.IndexFunc(l.decks, func(d deck.SavedDeck) bool { return d.ID == id })
}
