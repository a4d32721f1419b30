package library

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/persistence"
	"github.com/abhisek/flashcards/internal/store"
)

func completed() deck.Completed {
	qs := deck.NewQuestions([]string{"What is TCP?", "What is UDP?"})
	return deck.Completed{
		Topic:     "Networking",
		Level:     deck.Beginner,
		Questions: qs,
		Results: []deck.AnswerResult{
			{QuestionID: qs[0].ID, Question: qs[0].Text, Rating: 4},
			{QuestionID: qs[1].ID, Question: qs[1].Text, Rating: 2},
		},
	}
}

func openLibrary(t *testing.T) (*Library, *persistence.Adapter) {
	t.Helper()
	records := persistence.New(store.NewMemory(), nil)
	lib, err := Open(context.Background(), records)
	require.NoError(t, err)
	lib.now = func() time.Time { return time.UnixMilli(1000) }
	return lib, records
}

func TestAddPersistsAndBumpsID(t *testing.T) {
	ctx := context.Background()
	lib, records := openLibrary(t)

	first, err := lib.Add(ctx, "  Net 101 ", completed())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), first.ID)
	assert.Equal(t, "Net 101", first.Name)

	second, err := lib.Add(ctx, "Net again", completed())
	require.NoError(t, err)
	assert.Equal(t, int64(1001), second.ID)

	stored, err := records.LoadDecks(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	list := lib.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
}

func TestAddRequiresName(t *testing.T) {
	lib, _ := openLibrary(t)
	_, err := lib.Add(context.Background(), "   ", completed())
	assert.Error(t, err)
	assert.Equal(t, 0, lib.Len())
}

func TestDeleteAndGet(t *testing.T) {
	ctx := context.Background()
	lib, records := openLibrary(t)
	d, err := lib.Add(ctx, "Net", completed())
	require.NoError(t, err)

	got, err := lib.Get(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Networking", got.Topic)

	require.NoError(t, lib.Delete(ctx, d.ID))
	_, err = lib.Get(d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, lib.Delete(ctx, d.ID), ErrNotFound)

	stored, _ := records.LoadDecks(ctx)
	assert.Empty(t, stored)
}

func TestFailedWriteLeavesListUnchanged(t *testing.T) {
	kv := store.NewMemory()
	lib, err := Open(context.Background(), persistence.New(kv, nil))
	require.NoError(t, err)

	kv.FailPut = assert.AnError
	_, err = lib.Add(context.Background(), "Net", completed())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, lib.Len())
}
