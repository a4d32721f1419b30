package grading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/llm"
)

const tutorSystemPrompt = "You are an expert tutor."

// LLMGrader implements Grader by prompting a model provider directly,
// for use without a running backend.
type LLMGrader struct {
	provider  llm.Provider
	maxTokens int
}

// NewLLMGrader creates a grader backed by provider.
func NewLLMGrader(provider llm.Provider) *LLMGrader {
	return &LLMGrader{provider: provider, maxTokens: 2048}
}

func (g *LLMGrader) GenerateQuestions(ctx context.Context, params deck.GenerateParams) ([]string, error) {
	prompt := fmt.Sprintf(`The user wants to study the topic: %q at a %s level.

Generate a list of [%d] flashcards, with a list of questions.

Only give me the questions and nothing else.`, params.Topic, params.Level, params.Count)

	resp, err := g.provider.Generate(ctx, llm.Request{
		Purpose:     "generate",
		System:      tutorSystemPrompt,
		Prompt:      prompt,
		Schema:      questionsSchema(true),
		MaxTokens:   g.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fromProvider(OpGenerate, err)
	}

	var out generateResponse
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, newError(OpGenerate, KindFailed, 0, "", fmt.Errorf("decode questions: %w", err))
	}
	if len(out.Questions) == 0 {
		return nil, newError(OpGenerate, KindFailed, 0, "", errors.New("no questions generated"))
	}
	return truncate(out.Questions, params.Count), nil
}

func (g *LLMGrader) EvaluateAnswer(ctx context.Context, question, answer string) (deck.Feedback, error) {
	prompt := fmt.Sprintf(`For the question %q this is my answer
%q

Now rate the answer with a rating between 0-5, and feedback.`, question, answer)

	resp, err := g.provider.Generate(ctx, llm.Request{
		Purpose:   "evaluate",
		System:    tutorSystemPrompt,
		Prompt:    prompt,
		Schema:    evaluationSchema(true),
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return deck.Feedback{}, fromProvider(OpEvaluate, err)
	}

	var fb deck.Feedback
	if err := json.Unmarshal(resp.Content, &fb); err != nil {
		return deck.Feedback{}, newError(OpEvaluate, KindFailed, 0, "", fmt.Errorf("decode evaluation: %w", err))
	}
	fb.Rating = deck.ClampRating(fb.Rating)
	return fb, nil
}

// fromProvider maps llm failure kinds onto grading kinds.
func fromProvider(op Op, err error) *Error {
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		return newError(op, KindRateLimited, 0, "", err)
	case errors.Is(err, llm.ErrTooLong):
		return newError(op, KindTokenLimit, 0, "", err)
	}
	return newError(op, KindFailed, 0, "", err)
}
