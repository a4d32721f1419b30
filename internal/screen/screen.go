package screen

import (
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashcards/internal/grading"
	"github.com/abhisek/flashcards/internal/library"
	"github.com/abhisek/flashcards/internal/report"
	"github.com/abhisek/flashcards/internal/session"
	"github.com/abhisek/flashcards/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscHandler is implemented by screens that handle Esc themselves
// instead of letting the app pop them.
type EscHandler interface {
	HandlesEsc() bool
}

// Services are the long-lived collaborators shared by every screen.
type Services struct {
	Session *session.Controller
	Library *library.Library
	Grader  grading.Grader
	Logger  *slog.Logger
	Screens Factories
}

// Factories build screens so screen packages never import each other.
type Factories struct {
	Home    func() Screen
	NewDeck func() Screen
	Study   func() Screen
	Summary func(r *report.Report) Screen
	Decks   func() Screen
}
