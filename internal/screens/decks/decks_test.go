package decks

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/router"
	"github.com/abhisek/flashcards/internal/screen/screentest"
)

func saveDeck(t *testing.T, env *screentest.Env, name string) deck.SavedDeck {
	t.Helper()
	qs := deck.NewQuestions([]string{name + " q1", name + " q2"})
	saved, err := env.Services.Library.Add(context.Background(), name, deck.Completed{
		Topic:     name,
		Level:     deck.Intermediate,
		Questions: qs,
		Results: []deck.AnswerResult{
			{QuestionID: qs[0].ID, Question: qs[0].Text, Rating: 4},
			{QuestionID: qs[1].ID, Question: qs[1].Text, Rating: 2},
		},
	})
	require.NoError(t, err)
	return saved
}

func TestEmptyLibrary(t *testing.T) {
	env := screentest.New(t)
	s := New(env.Services)
	assert.Contains(t, s.View(100, 30), "No saved decks")
	_, cmd := s.Update(screentest.Special(tea.KeyEnter))
	assert.Nil(t, cmd)
}

func TestListNewestFirst(t *testing.T) {
	env := screentest.New(t)
	saveDeck(t, env, "Older")
	saveDeck(t, env, "Newer")

	s := New(env.Services)
	require.Len(t, s.decks, 2)
	assert.Equal(t, "Newer", s.decks[0].Name)

	view := s.View(120, 30)
	assert.Less(t, strings.Index(view, "Newer"), strings.Index(view, "Older"))
	assert.Contains(t, view, "3.00")
}

func TestPracticeLoadsDeck(t *testing.T) {
	env := screentest.New(t)
	saved := saveDeck(t, env, "Go")

	s := New(env.Services)
	_, cmd := s.Update(screentest.Special(tea.KeyEnter))
	replace, ok := screentest.Run(cmd).(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "study", replace.Screen.Title())

	st, ok := env.Services.Session.State()
	require.True(t, ok)
	assert.Equal(t, saved.Questions, st.Questions)
	assert.Empty(t, st.Results, "practice starts with no results")
}

func TestDeleteWithConfirm(t *testing.T) {
	env := screentest.New(t)
	saveDeck(t, env, "Keep")
	saveDeck(t, env, "Drop")

	s := New(env.Services)
	s.Update(screentest.Key('d'))
	require.True(t, s.confirming)
	assert.Contains(t, s.View(120, 30), `Delete "Drop"?`)

	s.Update(screentest.Key('n'))
	assert.False(t, s.confirming)
	assert.Equal(t, 2, env.Services.Library.Len())

	s.Update(screentest.Key('d'))
	s.Update(screentest.Key('y'))
	assert.Equal(t, 1, env.Services.Library.Len())
	require.Len(t, s.decks, 1)
	assert.Equal(t, "Keep", s.decks[0].Name)
	assert.Equal(t, 0, s.selected)
}

func TestExpandShowsQuestions(t *testing.T) {
	env := screentest.New(t)
	saveDeck(t, env, "Go")

	s := New(env.Services)
	s.Update(screentest.Key(' '))
	assert.Contains(t, s.View(120, 30), "Go q2")
}

func TestEscPops(t *testing.T) {
	env := screentest.New(t)
	s := New(env.Services)
	_, cmd := s.Update(screentest.Special(tea.KeyEscape))
	_, ok := screentest.Run(cmd).(router.PopScreenMsg)
	assert.True(t, ok)
}
