// Package deck defines the flashcard data model shared by the grading
// client, the session controller, persistence and reporting.
package deck

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Level is the difficulty a deck is generated for.
type Level string

const (
	Beginner     Level = "beginner"
	Intermediate Level = "intermediate"
	Advanced     Level = "advanced"
)

// Levels lists every level in display order.
var Levels = []Level{Beginner, Intermediate, Advanced}

// ParseLevel converts s (case-insensitive) to a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown level %q (want beginner, intermediate or advanced)", s)
	}
	return l, nil
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// Label returns the capitalised display name.
func (l Level) Label() string {
	if l == "" {
		return ""
	}
	s := string(l)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Question is one generated prompt. ID is assigned locally when the
// question set arrives so identical texts remain distinct cards.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NewQuestions assigns fresh identifiers to a generated question list.
func NewQuestions(texts []string) []Question {
	qs := make([]Question, len(texts))
	for i, t := range texts {
		qs[i] = Question{ID: uuid.NewString(), Text: t}
	}
	return qs
}

// Feedback is the evaluation returned for a single answer.
type Feedback struct {
	Rating   float64 `json:"rating"`
	Feedback string  `json:"feedback"`
}

// AnswerResult is a graded answer. It is never modified after creation;
// a re-answer produces a new value that replaces it in the session.
type AnswerResult struct {
	QuestionID string  `json:"questionId"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Rating     float64 `json:"rating"`
	Feedback   string  `json:"feedback"`
}

// Completed is a finished study session handed to the summary.
type Completed struct {
	Topic     string
	Level     Level
	Questions []Question
	Results   []AnswerResult
}

// SavedDeck is a named, persisted record of a completed session. ID is the
// creation time in milliseconds.
type SavedDeck struct {
	ID        int64
	Name      string
	Topic     string
	Level     Level
	Questions []Question
	Results   []AnswerResult
	SavedAt   time.Time
}
