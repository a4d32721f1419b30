package components

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcards/internal/report"
	"github.com/abhisek/flashcards/internal/ui/theme"
)

// RatingStyle returns the style for a rating's band.
func RatingStyle(rating float64) lipgloss.Style {
	switch report.BandFor(rating) {
	case report.BandGood:
		return theme.Good
	case report.BandFair:
		return theme.Fair
	}
	return theme.Weak
}

// Rating renders a 0-5 rating as stars plus the number, coloured by band.
func Rating(rating float64) string {
	full := int(math.Round(rating))
	full = max(0, min(full, 5))
	stars := strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
	return RatingStyle(rating).Render(fmt.Sprintf("%s %g/5", stars, rating))
}
