// Package typing renders the progressive "typewriter" reveal of text.
package typing

import (
	"time"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
)

// DefaultChunk is how many runes each tick reveals.
const DefaultChunk = 5

// DefaultInterval is the tick spacing used by Animation.
const DefaultInterval = 30 * time.Millisecond

// Reveal returns the prefix of text visible after ticks ticks at chunk
// runes per tick, and whether the whole text is shown. A chunk below 1
// reveals everything at once.
func Reveal(text string, ticks, chunk int) (string, bool) {
	total := utf8.RuneCountInString(text)
	if chunk < 1 {
		return text, true
	}
	if total == 0 {
		return "", true
	}
	if ticks <= 0 {
		return "", false
	}
	n := ticks * chunk
	if n >= total || n < 0 {
		return text, true
	}
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos], false
		}
		i++
	}
	return text, true
}

// TickMsg advances the animation with the matching ID.
type TickMsg struct {
	ID int
}

// Animation is a value type the TUI embeds; it owns no goroutines.
type Animation struct {
	ID       int
	Text     string
	Ticks    int
	Chunk    int
	Interval time.Duration
}

var nextID int

// New starts an animation for text.
func New(text string) Animation {
	nextID++
	return Animation{ID: nextID, Text: text, Chunk: DefaultChunk, Interval: DefaultInterval}
}

// View returns the visible prefix.
func (a Animation) View() string {
	s, _ := Reveal(a.Text, a.Ticks, a.Chunk)
	return s
}

// Done reports whether the full text is visible.
func (a Animation) Done() bool {
	_, done := Reveal(a.Text, a.Ticks, a.Chunk)
	return done
}

// Skip reveals everything.
func (a Animation) Skip() Animation {
	a.Ticks = utf8.RuneCountInString(a.Text) + 1
	a.Chunk = max(a.Chunk, 1)
	return a
}

// Tick schedules the next TickMsg.
func (a Animation) Tick() tea.Cmd {
	if a.Done() {
		return nil
	}
	id := a.ID
	return tea.Tick(a.Interval, func(time.Time) tea.Msg { return TickMsg{ID: id} })
}

// Update advances on a matching tick and returns the next tick command.
func (a Animation) Update(msg tea.Msg) (Animation, tea.Cmd) {
	if t, ok := msg.(TickMsg); ok && t.ID == a.ID && !a.Done() {
		a.Ticks++
		return a, a.Tick()
	}
	return a, nil
}
