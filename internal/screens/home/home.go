package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcards/internal/router"
	"github.com/abhisek/flashcards/internal/screen"
	"github.com/abhisek/flashcards/internal/ui/components"
	"github.com/abhisek/flashcards/internal/ui/layout"
)

// Menu positions.
const (
	itemNewDeck = iota
	itemResume
	itemDecks
	itemExit
)

// HomeScreen is the main menu.
type HomeScreen struct {
	svc        *screen.Services
	menu       components.Menu
	autoResume bool
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen. With autoResume set, a restored in-progress
// deck is opened in the study screen as soon as the home screen starts.
func New(svc *screen.Services, autoResume bool) *HomeScreen {
	push := func(f func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: f()} }
		}
	}

	items := []components.MenuItem{
		itemNewDeck: {Label: "NEW DECK", Action: push(svc.Screens.NewDeck)},
		itemResume:  {Label: "RESUME DECK", Action: push(svc.Screens.Study)},
		itemDecks:   {Label: "SAVED DECKS", Action: push(svc.Screens.Decks)},
		itemExit:    {Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	}

	h := &HomeScreen{
		svc:        svc,
		menu:       components.NewMenu(items),
		autoResume: autoResume,
	}
	h.refresh()
	return h
}

// refresh re-derives which items are usable; the session and library
// change while other screens are on top.
func (h *HomeScreen) refresh() {
	h.menu.SetDisabled(itemResume, !h.svc.Session.Active())
	h.menu.SetDisabled(itemDecks, h.svc.Library.Len() == 0)
}

func (h *HomeScreen) Init() tea.Cmd {
	if h.autoResume && h.svc.Session.Active() {
		h.autoResume = false
		study := h.svc.Screens.Study
		return func() tea.Msg { return router.PushScreenMsg{Screen: study()} }
	}
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	h.refresh()
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	h.refresh()
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	st, _ := h.svc.Session.State()
	sections := []string{
		renderTitle(cw, compact),
		renderStatsBar(h.svc.Library.Len(), st, h.svc.Session.Active(), h.svc.Session.Progress(), cw),
		lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(h.menu.View()),
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}
