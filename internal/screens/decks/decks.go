// Package decks lists saved decks for practice or deletion.
package decks

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/report"
	"github.com/abhisek/flashcards/internal/router"
	"github.com/abhisek/flashcards/internal/screen"
	"github.com/abhisek/flashcards/internal/ui/components"
	"github.com/abhisek/flashcards/internal/ui/layout"
	"github.com/abhisek/flashcards/internal/ui/theme"
)

// DecksScreen displays saved decks, newest first.
type DecksScreen struct {
	svc        *screen.Services
	decks      []deck.SavedDeck
	selected   int
	expanded   map[int64]bool
	confirming bool
	alert      components.Alert
}

var _ screen.Screen = (*DecksScreen)(nil)
var _ screen.KeyHintProvider = (*DecksScreen)(nil)
var _ screen.EscHandler = (*DecksScreen)(nil)

// New creates a DecksScreen.
func New(svc *screen.Services) *DecksScreen {
	return &DecksScreen{
		svc:      svc,
		decks:    svc.Library.List(),
		expanded: make(map[int64]bool),
	}
}

func (s *DecksScreen) Init() tea.Cmd {
	return nil
}

func (s *DecksScreen) Title() string {
	return "Saved Decks"
}

func (s *DecksScreen) HandlesEsc() bool {
	return true
}

func (s *DecksScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Practice"},
		{Key: "Space", Description: "Details"},
		{Key: "d", Description: "Delete"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *DecksScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	if s.alert.Visible() {
		s.alert = components.Alert{}
		return s, nil
	}
	if s.confirming {
		return s.handleConfirm(kmsg.String())
	}

	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.decks)-1 {
			s.selected++
		}
	case "space":
		if d, ok := s.current(); ok {
			s.expanded[d.ID] = !s.expanded[d.ID]
		}
	case "d", "delete":
		if _, ok := s.current(); ok {
			s.confirming = true
		}
	case "enter":
		return s.practice()
	}
	return s, nil
}

func (s *DecksScreen) current() (deck.SavedDeck, bool) {
	if s.selected < 0 || s.selected >= len(s.decks) {
		return deck.SavedDeck{}, false
	}
	return s.decks[s.selected], true
}

func (s *DecksScreen) handleConfirm(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "y", "Y":
		s.confirming = false
		d, ok := s.current()
		if !ok {
			return s, nil
		}
		if err := s.svc.Library.Delete(context.Background(), d.ID); err != nil {
			s.svc.Logger.Warn("delete deck failed", "id", d.ID, "err", err)
			s.alert = components.Alert{Tag: "storage", Message: err.Error()}
			return s, nil
		}
		s.decks = s.svc.Library.List()
		s.selected = max(0, min(s.selected, len(s.decks)-1))
	case "n", "N", "esc":
		s.confirming = false
	}
	return s, nil
}

// practice loads the selected deck into a fresh session.
func (s *DecksScreen) practice() (screen.Screen, tea.Cmd) {
	d, ok := s.current()
	if !ok {
		return s, nil
	}
	if err := s.svc.Session.LoadDeck(context.Background(), d); err != nil {
		s.alert = components.Alert{Tag: "invalid_input", Message: err.Error()}
		return s, nil
	}
	study := s.svc.Screens.Study
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: study()} }
}

func (s *DecksScreen) View(width, height int) string {
	if len(s.decks) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No saved decks yet. Finish a deck and save it from the summary.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, d := range s.decks {
		avg := report.AverageRating(d.Results)
		grade := report.GradeFor(avg)

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-24s %-12s %2d cards  avg %s  %s",
			prefix, d.SavedAt.Format("Jan 02, 2006"), truncate(d.Name, 24), d.Level.Label(),
			len(d.Questions), report.FormatAverage(avg), grade.Letter)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(layout.Centered(style.Render(line), width))
		b.WriteString("\n")

		if s.expanded[d.ID] {
			b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
				Render("    Topic: "+d.Topic), width))
			b.WriteString("\n")
			for j, q := range d.Questions {
				b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.TextDim).
					Render(fmt.Sprintf("    %d. %s", j+1, truncate(q.Text, 60))), width))
				b.WriteString("\n")
			}
		}
	}

	if s.confirming {
		if d, ok := s.current(); ok {
			b.WriteString("\n")
			b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Error).Bold(true).
				Render(fmt.Sprintf("Delete %q? [Y/N]", d.Name)), width))
		}
	}
	if s.alert.Visible() {
		b.WriteString("\n")
		b.WriteString(layout.Centered(s.alert.View(components.ContentWidth(width)), width))
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
