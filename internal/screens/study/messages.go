package study

import "github.com/abhisek/flashcards/internal/deck"

// evaluatedMsg carries the outcome of an evaluate request for one card.
type evaluatedMsg struct {
	QuestionID string
	Feedback   deck.Feedback
	Err        error
}
