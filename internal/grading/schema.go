package grading

import "github.com/abhisek/flashcards/internal/llm"

// questionsSchema describes {"questions": ["...", ...]}. The strict form
// is sent to model providers, which require closed objects.
func questionsSchema(strict bool) *llm.Schema {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"description": "Flashcard questions, one per card",
				"minItems":    1,
				"items":       map[string]any{"type": "string"},
			},
		},
		"required": []any{"questions"},
	}
	name := "flashcard-questions"
	if strict {
		def["additionalProperties"] = false
		name += "-strict"
	}
	return &llm.Schema{
		Name:        name,
		Description: "A list of flashcard questions for the requested topic and level",
		Definition:  def,
	}
}

// evaluationSchema describes {"rating": 0-5, "feedback": "..."}.
func evaluationSchema(strict bool) *llm.Schema {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"rating": map[string]any{
				"type":        "number",
				"description": "Answer quality from 0 (wrong) to 5 (excellent)",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Short explanation of the rating",
			},
		},
		"required": []any{"rating", "feedback"},
	}
	name := "answer-evaluation"
	if strict {
		def["additionalProperties"] = false
		name += "-strict"
	}
	return &llm.Schema{
		Name:        name,
		Description: "A rating and feedback for a flashcard answer",
		Definition:  def,
	}
}
