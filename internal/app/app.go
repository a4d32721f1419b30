// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcards/internal/grading"
	"github.com/abhisek/flashcards/internal/report"
	"github.com/abhisek/flashcards/internal/router"
	"github.com/abhisek/flashcards/internal/screen"
	"github.com/abhisek/flashcards/internal/screens/decks"
	"github.com/abhisek/flashcards/internal/screens/home"
	"github.com/abhisek/flashcards/internal/screens/newdeck"
	"github.com/abhisek/flashcards/internal/screens/study"
	"github.com/abhisek/flashcards/internal/screens/summary"
	"github.com/abhisek/flashcards/internal/screens/welcome"
	"github.com/abhisek/flashcards/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	svc    *screen.Services
	router *router.Router
	width  int
	height int
}

// Factories returns the screen constructors bound to svc.
func Factories(svc *screen.Services) screen.Factories {
	return screen.Factories{
		Home:    func() screen.Screen { return home.New(svc, false) },
		NewDeck: func() screen.Screen { return newdeck.New(svc) },
		Study:   func() screen.Screen { return study.New(svc) },
		Summary: func(r *report.Report) screen.Screen { return summary.New(svc, r) },
		Decks:   func() screen.Screen { return decks.New(svc) },
	}
}

// New creates the root model, starting on the welcome screen. The first
// home screen resumes an unfinished session. pinger may be nil.
func New(svc *screen.Services, pinger grading.Pinger) AppModel {
	svc.Screens = Factories(svc)
	first := func() screen.Screen { return home.New(svc, true) }
	return AppModel{
		svc:    svc,
		router: router.New(welcome.New(first, pinger, svc.Logger)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscHandler); ok && h.HandlesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// status is the header's right-hand text.
func (m AppModel) status() string {
	if m.svc == nil || m.svc.Session == nil || !m.svc.Session.Active() {
		return ""
	}
	p := m.svc.Session.Progress()
	return fmt.Sprintf("%d/%d answered  ", p.Answered, p.Total)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the header, the active screen and the footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(svc *screen.Services, pinger grading.Pinger) error {
	p := tea.NewProgram(New(svc, pinger))
	if _, err := p.Run(); err != nil {
		svc.Logger.Error("program exited with error", "err", err)
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
