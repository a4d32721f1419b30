package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcards/internal/ui/theme"
)

// Alert is a dismissible error banner. Tag is the short error category
// shown before the message.
type Alert struct {
	Tag     string
	Message string
}

// Visible reports whether there is anything to show.
func (a Alert) Visible() bool {
	return a.Message != ""
}

// View renders the alert at width columns.
func (a Alert) View(width int) string {
	if !a.Visible() {
		return ""
	}
	head := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("Error")
	if a.Tag != "" {
		head += lipgloss.NewStyle().Foreground(theme.TextDim).Render(" [" + a.Tag + "]")
	}
	body := head + "\n" + a.Message + "\n" +
		theme.Hint.Render("press any key to dismiss")
	return theme.Alert.Width(max(width, 20)).Render(body)
}
