package session

import (
	"slices"

	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/persistence"
)

// State is the active study session.
type State struct {
	Topic     string
	Level     deck.Level
	Questions []deck.Question
	Index     int
	Results   []deck.AnswerResult
}

// Progress summarises where the learner is.
type Progress struct {
	Index    int // zero-based position of the visible card
	Total    int
	Answered int
}

func newState(topic string, level deck.Level, qs []deck.Question) *State {
	return &State{Topic: topic, Level: level, Questions: slices.Clone(qs)}
}

func stateFromSnapshot(s *persistence.Snapshot) *State {
	return &State{
		Topic:     s.Topic,
		Level:     s.Level,
		Questions: s.Questions,
		Index:     s.CurrentIndex,
		Results:   s.Results,
	}
}

func (s *State) snapshot() persistence.Snapshot {
	return persistence.Snapshot{
		Topic:        s.Topic,
		Level:        s.Level,
		Questions:    slices.Clone(s.Questions),
		CurrentIndex: s.Index,
		Results:      slices.Clone(s.Results),
	}
}

func (s *State) clone() State {
	c := *s
	c.Questions = slices.Clone(s.Questions)
	c.Results = slices.Clone(s.Results)
	return c
}

func (s *State) hasQuestion(id string) bool {
	return slices.ContainsFunc(s.Questions, func(q deck.Question) bool { return q.ID == id })
}

func (s *State) resultIndex(id string) int {
	return slices.IndexFunc(s.Results, func(r deck.AnswerResult) bool { return r.QuestionID == id })
}

// upsert replaces the result for r's question or appends it.
func (s *State) upsert(r deck.AnswerResult) {
	if i := s.resultIndex(r.QuestionID); i >= 0 {
		s.Results[i] = r
		return
	}
	s.Results = append(s.Results, r)
}

// complete reports whether every question has a result.
func (s *State) complete() bool {
	if len(s.Questions) == 0 {
		return false
	}
	for _, q := range s.Questions {
		if s.resultIndex(q.ID) < 0 {
			return false
		}
	}
	return true
}

func (s *State) progress() Progress {
	return Progress{Index: s.Index, Total: len(s.Questions), Answered: len(s.Results)}
}

// ordered returns results in question order.
func (s *State) ordered() []deck.AnswerResult {
	out := make([]deck.AnswerResult, 0, len(s.Results))
	for _, q := range s.Questions {
		if i := s.resultIndex(q.ID); i >= 0 {
			out = append(out, s.Results[i])
		}
	}
	return out
}
