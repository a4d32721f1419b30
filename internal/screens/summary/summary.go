package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcards/internal/report"
	"github.com/abhisek/flashcards/internal/router"
	"github.com/abhisek/flashcards/internal/screen"
	"github.com/abhisek/flashcards/internal/ui/components"
	"github.com/abhisek/flashcards/internal/ui/layout"
	"github.com/abhisek/flashcards/internal/ui/theme"
)

// SummaryScreen displays the report for a completed deck.
type SummaryScreen struct {
	svc    *screen.Services
	report *report.Report
	naming bool
	name   components.TextInput
	notice string
	alert  components.Alert
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.EscHandler = (*SummaryScreen)(nil)

// New creates a SummaryScreen.
func New(svc *screen.Services, r *report.Report) *SummaryScreen {
	return &SummaryScreen{
		svc:    svc,
		report: r,
		name:   components.NewTextInput("Deck name", false, 60),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Deck Summary"
}

func (s *SummaryScreen) HandlesEsc() bool {
	return true
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	if s.naming {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	hints := []layout.KeyHint{}
	if _, saved := s.report.Saved(); !saved {
		hints = append(hints, layout.KeyHint{Key: "s", Description: "Save deck"})
	}
	return append(hints,
		layout.KeyHint{Key: "r", Description: "Restart deck"},
		layout.KeyHint{Key: "n", Description: "New deck"},
		layout.KeyHint{Key: "Esc", Description: "Home"},
	)
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if s.naming {
			var cmd tea.Cmd
			s.name, cmd = s.name.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	if s.alert.Visible() {
		s.alert = components.Alert{}
		return s, nil
	}
	if s.naming {
		return s.handleNaming(kmsg)
	}

	switch kmsg.String() {
	case "s":
		if _, saved := s.report.Saved(); saved {
			return s, nil
		}
		s.naming = true
		s.notice = ""
		s.name.SetValue(s.report.Deck.Topic)
		return s, s.name.Focus()
	case "r":
		if !s.svc.Session.Restart(context.Background()) {
			return s, nil
		}
		study := s.svc.Screens.Study
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: study()} }
	case "n":
		newDeck := s.svc.Screens.NewDeck
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: newDeck()} }
	case "enter", "esc":
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}
	return s, nil
}

func (s *SummaryScreen) handleNaming(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.naming = false
		s.name.Blur()
		return s, nil
	case "enter":
		saved, err := s.report.SaveAsDeck(context.Background(), s.svc.Library, s.name.Value())
		if err != nil {
			if errors.Is(err, report.ErrBlankName) {
				s.alert = components.Alert{Tag: "invalid_input", Message: "Please enter a name for this deck."}
				return s, nil
			}
			s.svc.Logger.Warn("save deck failed", "err", err)
			s.alert = components.Alert{Tag: "storage", Message: err.Error()}
			return s, nil
		}
		s.naming = false
		s.name.Blur()
		s.notice = fmt.Sprintf("Saved as %q", saved.Name)
		return s, nil
	}
	var cmd tea.Cmd
	s.name, cmd = s.name.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.report
	if r == nil {
		return ""
	}
	cw := components.ContentWidth(width)
	center := func(str string) string { return layout.Centered(str, width) }

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Deck complete!")))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("%s · %s · %d questions", r.Deck.Topic, r.Deck.Level.Label(), len(r.Deck.Questions)))))
	b.WriteString("\n\n")

	grade := components.RatingStyle(r.Average).Render(fmt.Sprintf("%s  %s", r.Grade.Letter, r.Grade.Label))
	b.WriteString(center(grade))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Average rating: %s / 5        Success rate: %d%%",
		report.FormatAverage(r.Average), r.Success)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Render(stats)))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Questions")))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n")

	qWidth := max(cw-18, 10)
	for i, res := range r.Deck.Results {
		text := truncate(res.Question, qWidth)
		line := fmt.Sprintf("%2d. %-*s ", i+1, qWidth, text)
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Render(line) + components.Rating(res.Rating)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case s.naming:
		b.WriteString(center("Save as: " + s.name.View()))
	case s.notice != "":
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice)))
	}
	if s.alert.Visible() {
		b.WriteString("\n")
		b.WriteString(center(s.alert.View(cw)))
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
