// Package grading talks to the question-generation and answer-evaluation
// backend. It holds no state and never retries.
package grading

import (
	"context"

	"github.com/abhisek/flashcards/internal/deck"
)

// Grader generates question sets and evaluates answers.
type Grader interface {
	// GenerateQuestions returns at most params.Count question texts.
	GenerateQuestions(ctx context.Context, params deck.GenerateParams) ([]string, error)

	// EvaluateAnswer rates answer on a 0 to 5 scale with written feedback.
	EvaluateAnswer(ctx context.Context, question, answer string) (deck.Feedback, error)
}

func truncate(qs []string, n int) []string {
	if n > 0 && len(qs) > n {
		return qs[:n]
	}
	return qs
}
