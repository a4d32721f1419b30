package study

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcards/internal/card"
	"github.com/abhisek/flashcards/internal/ui/components"
	"github.com/abhisek/flashcards/internal/ui/theme"
)

func (s *StudyScreen) View(width, height int) string {
	if s.confirming {
		return renderConfirm(width, height)
	}
	if s.card == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No deck in progress. Create one from the home screen."))
	}

	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(s.renderInfoLine(cw))
	b.WriteString("\n\n")

	question := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(cw - 6).
		Render(s.card.Question().Text)
	b.WriteString(components.Card(question, cw))
	b.WriteString("\n\n")

	switch s.card.Phase() {
	case card.Answering:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Your answer"))
		b.WriteString("\n")
		b.WriteString(s.input.View())
	case card.Submitting:
		b.WriteString(s.renderAnswer(cw))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Evaluating your answer..."))
	case card.Reviewing:
		b.WriteString(s.renderReview(cw))
	}

	if s.alert.Visible() {
		b.WriteString("\n\n")
		b.WriteString(s.alert.View(cw))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

// renderInfoLine shows topic, position and a progress bar.
func (s *StudyScreen) renderInfoLine(cw int) string {
	p := s.svc.Session.Progress()
	st, _ := s.svc.Session.State()

	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("%s · %s", st.Topic, st.Level.Label()))
	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Card %d/%d", p.Index+1, p.Total))

	line := left
	if pad := cw - lipgloss.Width(left) - lipgloss.Width(right); pad > 0 {
		line += strings.Repeat(" ", pad) + right
	} else {
		line += "  " + right
	}

	var pct float64
	if p.Total > 0 {
		pct = float64(p.Answered) / float64(p.Total)
	}
	bar := components.NewProgressBar(fmt.Sprintf("%d answered", p.Answered), pct, true, cw).View()
	return line + "\n" + bar
}

func (s *StudyScreen) renderAnswer(cw int) string {
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render("Your answer") + "\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(s.card.Answer())
}

func (s *StudyScreen) renderReview(cw int) string {
	r, ok := s.card.Result()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(s.renderAnswer(cw))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Rating  "))
	b.WriteString(components.Rating(r.Rating))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(cw).Render(s.feedback.View()))

	if s.completed && s.feedback.Done() {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Highlight).
			Bold(true).
			Render("Deck complete! Press Enter to see your summary."))
	}
	return b.String()
}

// renderConfirm renders the abandon confirmation dialog.
func renderConfirm(width, height int) string {
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Leave this deck?"),
		"",
		lipgloss.NewStyle().Foreground(theme.Error).Render("[Y] Abandon and discard progress"),
		lipgloss.NewStyle().Foreground(theme.Primary).Render("[N] No, keep studying"),
		lipgloss.NewStyle().Foreground(theme.Secondary).Render("[B] Back to menu, resume later"),
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}
