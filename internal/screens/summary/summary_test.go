package summary

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/persistence"
	"github.com/abhisek/flashcards/internal/report"
	"github.com/abhisek/flashcards/internal/router"
	"github.com/abhisek/flashcards/internal/screen/screentest"
)

// completeDeck answers every question of a fresh 3-card deck with the
// scenario ratings 4.5, 2 and 1.7.
func completeDeck(t *testing.T) (*SummaryScreen, *screentest.Env) {
	t.Helper()
	env := screentest.New(t)
	env.StartDeck(t, "Photosynthesis", 3)
	ctx := context.Background()
	st, _ := env.Services.Session.State()
	for i, rating := range []float64{4.5, 2, 1.7} {
		q := st.Questions[i]
		env.Services.Session.RecordResult(ctx, deck.AnswerResult{
			QuestionID: q.ID, Question: q.Text, Answer: "a", Rating: rating, Feedback: "f",
		})
	}
	c, ok := env.Services.Session.Completed()
	if !ok {
		t.Fatal("deck should be complete")
	}
	return New(env.Services, report.New(c)), env
}

func TestSummaryScreen_Title(t *testing.T) {
	s, _ := completeDeck(t)
	if s.Title() != "Deck Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Deck Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s, _ := completeDeck(t)
	view := s.View(100, 40)
	for _, want := range []string{"2.73", "C+", "Above Average", "33%", "Photosynthesis"} {
		if !contains(view, want) {
			t.Errorf("summary view missing %q", want)
		}
	}
}

func TestSummaryScreen_Navigation_Esc(t *testing.T) {
	s, _ := completeDeck(t)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := screentest.Run(cmd).(router.PopToRootMsg); !ok {
		t.Error("expected PopToRootMsg on Esc")
	}
}

func TestSummaryScreen_SaveDeck(t *testing.T) {
	s, env := completeDeck(t)

	s.Update(screentest.Key('s'))
	if !s.naming {
		t.Fatal("expected naming mode")
	}
	if s.name.Value() != "Photosynthesis" {
		t.Errorf("default name = %q, want topic", s.name.Value())
	}
	screentest.Type(" basics", func(m tea.Msg) { s.Update(m) })
	s.Update(screentest.Special(tea.KeyEnter))

	if s.naming {
		t.Error("naming should end after save")
	}
	if env.Services.Library.Len() != 1 {
		t.Fatalf("library has %d decks, want 1", env.Services.Library.Len())
	}
	saved := env.Services.Library.List()[0]
	if saved.Name != "Photosynthesis basics" || len(saved.Results) != 3 {
		t.Errorf("saved deck = %+v", saved)
	}
	if !env.KV.Has(persistence.SavedDecksKey) {
		t.Error("saved decks record should be written")
	}

	// A second save is refused.
	s.Update(screentest.Key('s'))
	if s.naming {
		t.Error("save should not reopen once the deck is saved")
	}
	if len(s.KeyHints()) != 3 {
		t.Errorf("KeyHints after save = %d, want 3", len(s.KeyHints()))
	}
}

func TestSummaryScreen_BlankNameRejected(t *testing.T) {
	s, env := completeDeck(t)
	s.Update(screentest.Key('s'))
	s.name.SetValue("   ")
	s.Update(screentest.Special(tea.KeyEnter))

	if !s.alert.Visible() {
		t.Error("expected alert for blank name")
	}
	if env.Services.Library.Len() != 0 {
		t.Error("nothing should be saved")
	}
}

func TestSummaryScreen_Restart(t *testing.T) {
	s, env := completeDeck(t)
	_, cmd := s.Update(screentest.Key('r'))
	replace, ok := screentest.Run(cmd).(router.ReplaceScreenMsg)
	if !ok || replace.Screen.Title() != "study" {
		t.Fatalf("expected replace with study, got %#v", screentest.Run(cmd))
	}
	if !env.Services.Session.Active() {
		t.Error("restart should reactivate the session")
	}
	if p := env.Services.Session.Progress(); p.Answered != 0 || p.Total != 3 {
		t.Errorf("progress after restart = %+v", p)
	}
}

func TestSummaryScreen_NewDeck(t *testing.T) {
	s, _ := completeDeck(t)
	_, cmd := s.Update(screentest.Key('n'))
	replace, ok := screentest.Run(cmd).(router.ReplaceScreenMsg)
	if !ok || replace.Screen.Title() != "newdeck" {
		t.Fatalf("expected replace with newdeck, got %#v", screentest.Run(cmd))
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
