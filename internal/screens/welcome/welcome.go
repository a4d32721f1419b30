package welcome

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcards/internal/grading"
	"github.com/abhisek/flashcards/internal/router"
	"github.com/abhisek/flashcards/internal/screen"
	"github.com/abhisek/flashcards/internal/typing"
	"github.com/abhisek/flashcards/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 4500 * time.Millisecond
)

const tagline = "Study smarter, one card at a time."

const cardArt = `  ╭─────────────────╮
  │  Q: ?           │
  │                 │
  │  ─────────────  │
  │  A: ...         │
  ╰─────────────────╯`

// wakeAttempts bounds the background ping to a few minutes.
const wakeAttempts = 30

var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

// wakeMsg reports the outcome of the background wake-up ping.
type wakeMsg struct {
	Attempts int
	Err      error
}

// WelcomeScreen shows a splash animation before transitioning to the home
// screen. While it plays, the grading backend is pinged so a sleeping
// host has time to start.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	pinger       grading.Pinger
	logger       *slog.Logger
	tagline      typing.Animation
	elapsed      time.Duration
	tickCount    int
	transitioned bool
	backend      string
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced
// by homeFactory. pinger may be nil when no remote backend is used.
func New(homeFactory func() screen.Screen, pinger grading.Pinger, logger *slog.Logger) *WelcomeScreen {
	if logger == nil {
		logger = slog.Default()
	}
	w := &WelcomeScreen{
		homeFactory: homeFactory,
		pinger:      pinger,
		logger:      logger,
		tagline:     typing.New(tagline),
	}
	if pinger != nil {
		w.backend = "waking up the grading service..."
	}
	return w
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if w.pinger != nil {
		cmds = append(cmds, w.wakeUp())
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// wakeUp pings in the background. Failures only affect the status line.
func (w *WelcomeScreen) wakeUp() tea.Cmd {
	p, logger := w.pinger, w.logger
	return func() tea.Msg {
		cfg := grading.DefaultBackoff()
		cfg.MaxAttempts = wakeAttempts
		n, err := grading.WakeUp(context.Background(), p, cfg, logger)
		if err != nil {
			logger.Warn("grading service did not wake up", "attempts", n, "err", err)
		}
		return wakeMsg{Attempts: n, Err: err}
	}
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		var cmd tea.Cmd
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
			if w.elapsed == phase2End {
				cmd = w.tagline.Tick()
			}
		}
		w.tickCount++
		return w, tea.Batch(tick(), cmd)

	case typing.TickMsg:
		var cmd tea.Cmd
		w.tagline, cmd = w.tagline.Update(msg)
		return w, cmd

	case wakeMsg:
		if msg.Err != nil {
			w.backend = "grading service unreachable; requests may fail"
		} else {
			w.backend = "grading service ready"
		}
		return w, nil

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	rendered := lipgloss.NewStyle().Foreground(theme.Primary).Render(cardArt)

	// Phase 2+: sparkles around the card
	if w.elapsed >= phase1End {
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		s1 := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)
		s2 := lipgloss.NewStyle().Foreground(theme.Secondary).Render(sparkle)

		lines := strings.Split(rendered, "\n")
		if len(lines) > 1 {
			lines[0] = s1 + "  " + lines[0] + "  " + s2
		}
		if len(lines) > 3 {
			lines[3] = s2 + "  " + lines[3] + "  " + s1
		}
		rendered = strings.Join(lines, "\n")
	}
	sections = append(sections, rendered)

	// Phase 3+: banner, typed tagline and hint
	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(w.tagline.View()))
		sections = append(sections, "", theme.Hint.Render("press any key to continue"))
	}

	if w.backend != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.TextDim).Render(w.backend))
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
