// Package newdeck is the form that generates a fresh deck.
package newdeck

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/grading"
	"github.com/abhisek/flashcards/internal/router"
	"github.com/abhisek/flashcards/internal/screen"
	"github.com/abhisek/flashcards/internal/ui/components"
	"github.com/abhisek/flashcards/internal/ui/layout"
	"github.com/abhisek/flashcards/internal/ui/theme"
)

// Form fields in tab order.
const (
	fieldTopic = iota
	fieldLevel
	fieldCount
	numFields
)

const invalidTag = "invalid_input"

// generatedMsg reports the outcome of the generate request.
type generatedMsg struct {
	Err error
}

// NewDeckScreen collects topic, level and count and starts a session.
type NewDeckScreen struct {
	svc     *screen.Services
	topic   components.TextInput
	level   components.Choice
	count   components.TextInput
	focus   int
	loading bool
	alert   components.Alert
}

var _ screen.Screen = (*NewDeckScreen)(nil)
var _ screen.KeyHintProvider = (*NewDeckScreen)(nil)

// New creates the form with default level and count.
func New(svc *screen.Services) *NewDeckScreen {
	levels := make([]string, len(deck.Levels))
	for i, l := range deck.Levels {
		levels[i] = string(l)
	}
	count := components.NewTextInput(strconv.Itoa(deck.DefaultCount), true, 2)
	count.SetValue(strconv.Itoa(deck.DefaultCount))
	count.Blur()

	return &NewDeckScreen{
		svc:   svc,
		topic: components.NewTextInput("e.g. Go concurrency", false, 120),
		level: components.NewChoice(levels, 0),
		count: count,
	}
}

func (s *NewDeckScreen) Init() tea.Cmd {
	return s.topic.Init()
}

func (s *NewDeckScreen) Title() string {
	return "New Deck"
}

func (s *NewDeckScreen) KeyHints() []layout.KeyHint {
	if s.loading {
		return []layout.KeyHint{{Key: "", Description: "Generating..."}}
	}
	if s.alert.Visible() {
		return []layout.KeyHint{{Key: "any key", Description: "Dismiss"}}
	}
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Generate"},
		{Key: "Esc", Description: "Back"},
	}
	if s.focus == fieldLevel {
		hints = append([]layout.KeyHint{{Key: "←→", Description: "Level"}}, hints...)
	}
	return hints
}

func (s *NewDeckScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		s.loading = false
		if msg.Err != nil {
			s.showError(msg.Err)
			return s, nil
		}
		study := s.svc.Screens.Study
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: study()} }

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	return s.forward(msg)
}

func (s *NewDeckScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.loading {
		return s, nil
	}
	if s.alert.Visible() {
		s.alert = components.Alert{}
		return s, nil
	}

	switch msg.String() {
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % numFields)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + numFields - 1) % numFields)
	case "enter":
		if s.focus < fieldCount {
			return s, s.setFocus(s.focus + 1)
		}
		return s.submit()
	}
	return s.forward(msg)
}

func (s *NewDeckScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.focus {
	case fieldTopic:
		s.topic, cmd = s.topic.Update(msg)
	case fieldLevel:
		s.level, cmd = s.level.Update(msg)
	case fieldCount:
		s.count, cmd = s.count.Update(msg)
	}
	return s, cmd
}

func (s *NewDeckScreen) setFocus(f int) tea.Cmd {
	s.focus = f
	s.topic.Blur()
	s.count.Blur()
	s.level.Focused = false
	switch f {
	case fieldTopic:
		return s.topic.Focus()
	case fieldLevel:
		s.level.Focused = true
	case fieldCount:
		return s.count.Focus()
	}
	return nil
}

// params reads the form. An unparsable count is reported as zero so
// validation produces the range message.
func (s *NewDeckScreen) params() deck.GenerateParams {
	n, err := s.count.NumericValue()
	if err != nil {
		n = 0
	}
	return deck.GenerateParams{
		Topic: s.topic.Value(),
		Level: deck.Level(s.level.Value()),
		Count: n,
	}.Normalize()
}

func (s *NewDeckScreen) submit() (screen.Screen, tea.Cmd) {
	p := s.params()
	if err := p.Validate(); err != nil {
		s.alert = components.Alert{Tag: invalidTag, Message: err.Error()}
		return s, nil
	}

	s.loading = true
	ctrl, logger := s.svc.Session, s.svc.Logger
	return s, func() tea.Msg {
		err := ctrl.Start(context.Background(), p)
		if err != nil {
			logger.Warn("generate deck failed", "topic", p.Topic, "kind", grading.KindOf(err), "err", err)
		}
		return generatedMsg{Err: err}
	}
}

func (s *NewDeckScreen) showError(err error) {
	s.alert = components.Alert{
		Tag:     grading.KindOf(err).String(),
		Message: grading.Message(err),
	}
}

func (s *NewDeckScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	label := func(f int, text string) string {
		if f == s.focus {
			return theme.Selected.Render("▸ " + text)
		}
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + text)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Create a new deck"))
	b.WriteString("\n\n")
	b.WriteString(label(fieldTopic, "Topic") + "\n    " + s.topic.View() + "\n\n")
	b.WriteString(label(fieldLevel, "Level") + "\n    " + s.level.View() + "\n\n")
	b.WriteString(label(fieldCount, fmt.Sprintf("Questions (%d-%d)", deck.MinCount, deck.MaxCount)) +
		"\n    " + s.count.View() + "\n")

	if s.loading {
		b.WriteString("\n" + theme.Hint.Render("  Generating questions..."))
	}
	if s.alert.Visible() {
		b.WriteString("\n" + s.alert.View(cw))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.Card(b.String(), cw))
}
