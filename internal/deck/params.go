package deck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinCount     = 2
	MaxCount     = 20
	DefaultCount = 5
)

// GenerateParams are the inputs for creating a new deck.
type GenerateParams struct {
	Topic string `json:"topic" validate:"required"`
	Level Level  `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	Count int    `json:"count" validate:"min=2,max=20"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize trims the topic.
func (p GenerateParams) Normalize() GenerateParams {
	p.Topic = strings.TrimSpace(p.Topic)
	return p
}

// Validate checks the normalized params and returns a readable error.
func (p GenerateParams) Validate() error {
	p = p.Normalize()
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Topic":
		return errors.New("topic is required")
	case "Level":
		return fmt.Errorf("level must be beginner, intermediate or advanced, got %q", p.Level)
	case "Count":
		return fmt.Errorf("question count must be between %d and %d, got %d", MinCount, MaxCount, p.Count)
	}
	return err
}
