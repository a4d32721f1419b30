package deck

import (
	"errors"
	"fmt"
	"slices"
)

// Rating bounds on the grading scale.
const (
	MinRating = 0
	MaxRating = 5
)

var (
	ErrNoQuestions  = errors.New("deck has no questions")
	ErrMissingID    = errors.New("question has no id")
	ErrDuplicateID  = errors.New("question id is not unique")
	ErrUnknownLevel = errors.New("unknown level")
)

// CheckQuestions reports whether qs can back a study session: it must be
// non-empty and every question needs its own id, since results are keyed
// by question id.
func CheckQuestions(qs []Question) error {
	if len(qs) == 0 {
		return ErrNoQuestions
	}
	seen := make(map[string]bool, len(qs))
	for i, q := range qs {
		if q.ID == "" {
			return fmt.Errorf("question %d: %w", i+1, ErrMissingID)
		}
		if seen[q.ID] {
			return fmt.Errorf("question %d (%s): %w", i+1, q.ID, ErrDuplicateID)
		}
		seen[q.ID] = true
	}
	return nil
}

// CheckDeck validates the parts of a deck needed to study it.
func CheckDeck(level Level, qs []Question) error {
	if !level.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownLevel, level)
	}
	return CheckQuestions(qs)
}

// ClampRating pins r to the grading scale.
func ClampRating(r float64) float64 {
	return max(MinRating, min(r, MaxRating))
}

// NormalizeResults keeps at most one result per question in qs. Results
// for unknown questions are dropped, a later result for the same question
// replaces the earlier one in place, and ratings are clamped.
func NormalizeResults(qs []Question, rs []AnswerResult) []AnswerResult {
	known := make(map[string]bool, len(qs))
	for _, q := range qs {
		known[q.ID] = true
	}
	out := make([]AnswerResult, 0, len(rs))
	for _, r := range rs {
		if !known[r.QuestionID] {
			continue
		}
		r.Rating = ClampRating(r.Rating)
		if i := slices.IndexFunc(out, func(o AnswerResult) bool { return o.QuestionID == r.QuestionID }); i >= 0 {
			out[i] = r
			continue
		}
		out = append(out, r)
	}
	return out
}
