// Package persistence mirrors the in-progress session and the saved-deck
// list into a KV store so both survive restarts.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/store"
)

// Record names.
const (
	CurrentSessionKey = "flashcards_current_game"
	SavedDecksKey     = "flashcards_saved_games"
)

// Snapshot is the persisted form of an in-progress session.
type Snapshot struct {
	Topic        string
	Level        deck.Level
	Questions    []deck.Question
	CurrentIndex int
	Results      []deck.AnswerResult
	Timestamp    time.Time
}

type snapshotJSON struct {
	Topic     string          `json:"topic"`
	Level     deck.Level      `json:"level"`
	Questions []deck.Question `json:"questions"`
	Progress  progressJSON    `json:"progress"`
	Timestamp int64           `json:"timestamp"`
}

type progressJSON struct {
	CurrentIndex int                 `json:"currentIndex"`
	Stats        []deck.AnswerResult `json:"stats"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	stats := s.Results
	if stats == nil {
		stats = []deck.AnswerResult{}
	}
	return json.Marshal(snapshotJSON{
		Topic:     s.Topic,
		Level:     s.Level,
		Questions: s.Questions,
		Progress:  progressJSON{CurrentIndex: s.CurrentIndex, Stats: stats},
		Timestamp: s.Timestamp.UnixMilli(),
	})
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Snapshot{
		Topic:        raw.Topic,
		Level:        raw.Level,
		Questions:    raw.Questions,
		CurrentIndex: raw.Progress.CurrentIndex,
		Results:      raw.Progress.Stats,
		Timestamp:    time.UnixMilli(raw.Timestamp),
	}
	return nil
}

// sanitize rejects snapshots that cannot be resumed and repairs the
// recoverable parts: results are normalized and the index is clamped.
func (s *Snapshot) sanitize() error {
	if err := deck.CheckDeck(s.Level, s.Questions); err != nil {
		return err
	}
	s.Results = deck.NormalizeResults(s.Questions, s.Results)
	s.CurrentIndex = max(0, min(s.CurrentIndex, len(s.Questions)-1))
	return nil
}

// savedDeckJSON is the stored shape of a saved deck: a string id, results
// nested under progress.stats and a millisecond timestamp, the same
// conventions the session record uses.
type savedDeckJSON struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Topic     string          `json:"topic"`
	Level     deck.Level      `json:"level"`
	Questions []deck.Question `json:"questions"`
	Progress  struct {
		Stats []deck.AnswerResult `json:"stats"`
	} `json:"progress"`
	Timestamp int64 `json:"timestamp"`
}

func encodeDeck(d deck.SavedDeck) savedDeckJSON {
	out := savedDeckJSON{
		ID:        strconv.FormatInt(d.ID, 10),
		Name:      d.Name,
		Topic:     d.Topic,
		Level:     d.Level,
		Questions: d.Questions,
		Timestamp: d.SavedAt.UnixMilli(),
	}
	out.Progress.Stats = d.Results
	if out.Progress.Stats == nil {
		out.Progress.Stats = []deck.AnswerResult{}
	}
	return out
}

// decodeDeck converts and validates one stored deck.
func decodeDeck(raw savedDeckJSON) (deck.SavedDeck, error) {
	id, err := strconv.ParseInt(raw.ID, 10, 64)
	if err != nil {
		return deck.SavedDeck{}, fmt.Errorf("bad id %q: %w", raw.ID, err)
	}
	if err := deck.CheckDeck(raw.Level, raw.Questions); err != nil {
		return deck.SavedDeck{}, err
	}
	return deck.SavedDeck{
		ID:        id,
		Name:      raw.Name,
		Topic:     raw.Topic,
		Level:     raw.Level,
		Questions: raw.Questions,
		Results:   deck.NormalizeResults(raw.Questions, raw.Progress.Stats),
		SavedAt:   time.UnixMilli(raw.Timestamp),
	}, nil
}

// Adapter reads and writes the two records. It never returns decode
// errors to callers: malformed data is logged and treated as absent.
type Adapter struct {
	kv     store.KV
	logger *slog.Logger
}

// New creates an Adapter over kv.
func New(kv store.KV, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{kv: kv, logger: logger}
}

// LoadSession returns the saved in-progress session, if any. A corrupt
// record is logged and deleted.
func (a *Adapter) LoadSession(ctx context.Context) (*Snapshot, error) {
	data, found, err := a.kv.Get(ctx, CurrentSessionKey)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return nil, nil
	}

	var snap Snapshot
	err = json.Unmarshal(data, &snap)
	if err == nil {
		err = snap.sanitize()
	}
	if err != nil {
		a.logger.Warn("discarding corrupt session record", "key", CurrentSessionKey, "err", err)
		if delErr := a.kv.Delete(ctx, CurrentSessionKey); delErr != nil {
			a.logger.Warn("failed to delete corrupt session record", "err", delErr)
		}
		return nil, nil
	}
	return &snap, nil
}

// SaveSession overwrites the in-progress record.
func (a *Adapter) SaveSession(ctx context.Context, snap Snapshot) error {
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := a.kv.Put(ctx, CurrentSessionKey, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ClearSession removes the in-progress record.
func (a *Adapter) ClearSession(ctx context.Context) error {
	if err := a.kv.Delete(ctx, CurrentSessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// LoadDecks returns the saved-deck list. A corrupt record is logged and
// reported as an empty list; it is left in place. Individual decks that
// cannot be studied, or that repeat an earlier id, are logged and skipped.
func (a *Adapter) LoadDecks(ctx context.Context) ([]deck.SavedDeck, error) {
	data, found, err := a.kv.Get(ctx, SavedDecksKey)
	if err != nil {
		return nil, fmt.Errorf("load decks: %w", err)
	}
	if !found {
		return nil, nil
	}

	var raws []savedDeckJSON
	if err := json.Unmarshal(data, &raws); err != nil {
		a.logger.Warn("ignoring corrupt saved decks record", "key", SavedDecksKey, "err", err)
		return nil, nil
	}
	decks := make([]deck.SavedDeck, 0, len(raws))
	seen := make(map[int64]bool, len(raws))
	for i, raw := range raws {
		d, err := decodeDeck(raw)
		if err == nil && seen[d.ID] {
			err = fmt.Errorf("duplicate id %d", d.ID)
		}
		if err != nil {
			a.logger.Warn("skipping invalid saved deck", "index", i, "name", raw.Name, "err", err)
			continue
		}
		seen[d.ID] = true
		decks = append(decks, d)
	}
	return decks, nil
}

// SaveDecks rewrites the whole saved-deck list.
func (a *Adapter) SaveDecks(ctx context.Context, decks []deck.SavedDeck) error {
	raws := make([]savedDeckJSON, len(decks))
	for i, d := range decks {
		raws[i] = encodeDeck(d)
	}
	data, err := json.Marshal(raws)
	if err != nil {
		return fmt.Errorf("encode decks: %w", err)
	}
	if err := a.kv.Put(ctx, SavedDecksKey, data); err != nil {
		return fmt.Errorf("save decks: %w", err)
	}
	return nil
}

// ClearDecks removes the saved-deck list.
func (a *Adapter) ClearDecks(ctx context.Context) error {
	if err := a.kv.Delete(ctx, SavedDecksKey); err != nil {
		return fmt.Errorf("clear decks: %w", err)
	}
	return nil
}
