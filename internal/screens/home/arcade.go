package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcards/internal/session"
	"github.com/abhisek/flashcards/internal/ui/theme"
)

const titleFull = ` ╔═╗╦  ╔═╗╔═╗╦ ╦╔═╗╔═╗╦═╗╔╦╗╔═╗
 ╠╣ ║  ╠═╣╚═╗╠═╣║  ╠═╣╠╦╝ ║║╚═╗
 ╚  ╩═╝╩ ╩╚═╝╩ ╩╚═╝╩ ╩╩╚══╩╝╚═╝`

const titleCompact = "F · L · A · S · H · C · A · R · D · S"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Highlight).
		Bold(true)

	title := titleFull
	if compact {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar shows the saved-deck count and the in-progress deck.
func renderStatsBar(saved int, st session.State, active bool, p session.Progress, cw int) string {
	savedStyle := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	deckStyle := lipgloss.NewStyle().Foreground(theme.Info).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	left := savedStyle.Render(fmt.Sprintf("▤ %d SAVED", saved))
	right := dimStyle.Render("NO DECK IN PROGRESS")
	if active {
		right = deckStyle.Render(fmt.Sprintf("▶ %s %d/%d", truncate(st.Topic, 20), p.Answered, p.Total))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Info).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(left + "   " + right)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
