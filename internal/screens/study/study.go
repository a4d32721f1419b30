// Package study is the screen where cards are answered and reviewed.
package study

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashcards/internal/card"
	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/grading"
	"github.com/abhisek/flashcards/internal/report"
	"github.com/abhisek/flashcards/internal/router"
	"github.com/abhisek/flashcards/internal/screen"
	"github.com/abhisek/flashcards/internal/typing"
	"github.com/abhisek/flashcards/internal/ui/components"
	"github.com/abhisek/flashcards/internal/ui/layout"
)

const answerLimit = 2000

// StudyScreen shows the current card of the active session.
type StudyScreen struct {
	svc        *screen.Services
	card       *card.Controller
	input      components.TextInput
	feedback   typing.Animation
	alert      components.Alert
	confirming bool
	completed  bool
}

var _ screen.Screen = (*StudyScreen)(nil)
var _ screen.KeyHintProvider = (*StudyScreen)(nil)
var _ screen.EscHandler = (*StudyScreen)(nil)

// New creates the study screen for svc's session.
func New(svc *screen.Services) *StudyScreen {
	s := &StudyScreen{svc: svc}
	s.loadCard()
	return s
}

func (s *StudyScreen) Init() tea.Cmd {
	if s.svc.Session.IsComplete() {
		return s.toSummary()
	}
	return s.input.Init()
}

func (s *StudyScreen) Title() string {
	return "Study"
}

func (s *StudyScreen) HandlesEsc() bool {
	return true
}

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirming:
		return []layout.KeyHint{
			{Key: "Y", Description: "Abandon deck"},
			{Key: "N", Description: "Keep studying"},
			{Key: "B", Description: "Back to menu"},
		}
	case s.alert.Visible():
		return []layout.KeyHint{{Key: "any key", Description: "Dismiss"}}
	case s.card == nil:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case s.completed:
		return []layout.KeyHint{{Key: "Enter", Description: "Summary"}}
	}
	switch s.card.Phase() {
	case card.Submitting:
		return []layout.KeyHint{{Key: "", Description: "Evaluating..."}}
	case card.Reviewing:
		return []layout.KeyHint{
			{Key: "n/→", Description: "Next"},
			{Key: "p/←", Description: "Previous"},
			{Key: "r", Description: "Try again"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+N/P", Description: "Next/Previous"},
		{Key: "Esc", Description: "Quit"},
	}
}

// loadCard builds the controller for the session's current question. A
// question that already has a result opens in review.
func (s *StudyScreen) loadCard() {
	s.input = components.NewTextInput("Type your answer...", false, answerLimit)
	s.feedback = typing.Animation{}
	q, ok := s.svc.Session.Current()
	if !ok {
		s.card = nil
		return
	}

	c := card.New(q)
	if r, ok := s.svc.Session.ResultFor(q.ID); ok {
		if err := c.Begin(r.Answer); err == nil {
			_ = c.Resolve(deck.Feedback{Rating: r.Rating, Feedback: r.Feedback}, nil)
			s.feedback = typing.New(r.Feedback).Skip()
		}
	}
	c.OnReviewed = s.onReviewed
	s.card = c
}

// onReviewed records the result and notes whether it completed the deck.
func (s *StudyScreen) onReviewed(r deck.AnswerResult) {
	if s.svc.Session.RecordResult(context.Background(), r) {
		s.completed = true
	}
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case evaluatedMsg:
		return s.handleEvaluated(msg)

	case typing.TickMsg:
		var cmd tea.Cmd
		s.feedback, cmd = s.feedback.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.card != nil && s.card.Phase() == card.Answering {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *StudyScreen) handleEvaluated(msg evaluatedMsg) (screen.Screen, tea.Cmd) {
	if s.card == nil || s.card.Question().ID != msg.QuestionID {
		return s, nil
	}
	if err := s.card.Resolve(msg.Feedback, msg.Err); err != nil {
		if errors.Is(err, card.ErrNotSubmitting) {
			return s, nil
		}
		s.alert = components.Alert{
			Tag:     grading.KindOf(err).String(),
			Message: grading.Message(err),
		}
		return s, s.input.Focus()
	}
	s.feedback = typing.New(msg.Feedback.Feedback)
	return s, s.feedback.Tick()
}

func (s *StudyScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirming {
		return s.handleConfirm(key)
	}
	if s.alert.Visible() {
		s.alert = components.Alert{}
		return s, nil
	}
	if key == "esc" {
		if s.card == nil {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		// The evaluation reply is recorded by this screen; leaving now would lose it.
		if s.card.Phase() == card.Submitting {
			return s, nil
		}
		s.confirming = true
		return s, nil
	}
	if s.card == nil {
		return s, nil
	}

	switch s.card.Phase() {
	case card.Answering:
		switch key {
		case "enter":
			return s.submit()
		case "ctrl+n", "pgdown":
			return s.move(s.svc.Session.Advance)
		case "ctrl+p", "pgup":
			return s.move(s.svc.Session.Retreat)
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case card.Reviewing:
		return s.handleReviewKey(key)
	}

	// Submitting: wait for the evaluation.
	return s, nil
}

func (s *StudyScreen) handleReviewKey(key string) (screen.Screen, tea.Cmd) {
	if !s.feedback.Done() && key != "r" {
		s.feedback = s.feedback.Skip()
		return s, nil
	}

	switch key {
	case "r":
		if s.completed {
			return s, nil
		}
		if err := s.card.TryAgain(); err != nil {
			return s, nil
		}
		s.feedback = typing.Animation{}
		s.input.Reset()
		return s, s.input.Focus()
	case "enter", "n", "right", "ctrl+n", "pgdown":
		if s.completed {
			return s, s.toSummary()
		}
		return s.move(s.svc.Session.Advance)
	case "p", "left", "ctrl+p", "pgup":
		if s.completed {
			return s, nil
		}
		return s.move(s.svc.Session.Retreat)
	}
	return s, nil
}

func (s *StudyScreen) handleConfirm(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "y", "Y":
		s.confirming = false
		s.svc.Session.Abandon(context.Background())
		s.svc.Logger.Info("deck abandoned")
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	case "n", "N", "esc":
		s.confirming = false
		return s, nil
	case "b", "B":
		s.confirming = false
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}
	return s, nil
}

// submit starts the evaluation of the typed answer. Blank answers are
// ignored.
func (s *StudyScreen) submit() (screen.Screen, tea.Cmd) {
	answer := s.input.Value()
	if err := s.card.Begin(answer); err != nil {
		return s, nil
	}
	s.input.Blur()

	q, g, logger := s.card.Question(), s.svc.Grader, s.svc.Logger
	return s, func() tea.Msg {
		fb, err := g.EvaluateAnswer(context.Background(), q.Text, answer)
		if err != nil {
			logger.Warn("evaluate answer failed", "question", q.ID, "kind", grading.KindOf(err), "err", err)
		}
		return evaluatedMsg{QuestionID: q.ID, Feedback: fb, Err: err}
	}
}

// move runs a navigation step and reloads the card when it moved.
func (s *StudyScreen) move(step func(context.Context) bool) (screen.Screen, tea.Cmd) {
	if !step(context.Background()) {
		return s, nil
	}
	s.loadCard()
	if s.card != nil && s.card.Phase() == card.Answering {
		return s, s.input.Focus()
	}
	return s, nil
}

func (s *StudyScreen) toSummary() tea.Cmd {
	c, ok := s.svc.Session.Completed()
	if !ok {
		return nil
	}
	summary := s.svc.Screens.Summary
	rep := report.New(c)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: summary(rep)} }
}
