package persistence

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/store"
)

func sampleSnapshot() Snapshot {
	qs := []deck.Question{{ID: "q1", Text: "What is a slice?"}, {ID: "q2", Text: "What is a map?"}}
	return Snapshot{
		Topic:        "Go",
		Level:        deck.Intermediate,
		Questions:    qs,
		CurrentIndex: 1,
		Results: []deck.AnswerResult{
			{QuestionID: "q1", Question: qs[0].Text, Answer: "A view on an array", Rating: 4, Feedback: "Good."},
		},
		Timestamp: time.UnixMilli(1700000000000),
	}
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	a := New(kv, nil)

	require.NoError(t, a.SaveSession(ctx, sampleSnapshot()))

	got, err := a.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sampleSnapshot(), *got)
}

func TestSnapshotWireShape(t *testing.T) {
	data, err := json.Marshal(sampleSnapshot())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Go", raw["topic"])
	assert.Equal(t, "intermediate", raw["level"])
	assert.EqualValues(t, 1700000000000, raw["timestamp"])

	progress := raw["progress"].(map[string]any)
	assert.EqualValues(t, 1, progress["currentIndex"])
	assert.Len(t, progress["stats"], 1)
}

func TestLoadSessionAbsent(t *testing.T) {
	got, err := New(store.NewMemory(), nil).LoadSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoadSessionCorruptIsDeleted(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"topic":`,
		"no questions":  `{"topic":"Go","level":"beginner","questions":[],"progress":{"currentIndex":0,"stats":[]}}`,
		"unknown level": `{"topic":"Go","level":"expert","questions":[{"id":"q1","text":"x"}],"progress":{}}`,
		"missing id":    `{"topic":"Go","level":"beginner","questions":[{"text":"x"}],"progress":{}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := store.NewMemory()
			require.NoError(t, kv.Put(ctx, CurrentSessionKey, []byte(body)))

			got, err := New(kv, nil).LoadSession(ctx)
			require.NoError(t, err)
			assert.Nil(t, got)
			assert.False(t, kv.Has(CurrentSessionKey), "corrupt record should be deleted")
		})
	}
}

func TestLoadSessionRepairsIndexAndResults(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	body := `{"topic":"Go","level":"beginner",
		"questions":[{"id":"q1","text":"a"},{"id":"q2","text":"b"}],
		"progress":{"currentIndex":9,"stats":[{"questionId":"zz","rating":3},{"questionId":"q2","rating":5}]},
		"timestamp":0}`
	require.NoError(t, kv.Put(ctx, CurrentSessionKey, []byte(body)))

	got, err := New(kv, nil).LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.CurrentIndex)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "q2", got.Results[0].QuestionID)
}

func TestLoadSessionKeepsLastResultPerQuestion(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	body := `{"topic":"Go","level":"beginner",
		"questions":[{"id":"q1","text":"a"},{"id":"q2","text":"b"}],
		"progress":{"currentIndex":0,"stats":[
			{"questionId":"q1","answer":"first","rating":1},
			{"questionId":"q1","answer":"second","rating":5}]},
		"timestamp":0}`
	require.NoError(t, kv.Put(ctx, CurrentSessionKey, []byte(body)))

	got, err := New(kv, nil).LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "second", got.Results[0].Answer)
	assert.Equal(t, 5.0, got.Results[0].Rating)
}

func TestLoadSessionRejectsDuplicateQuestionIDs(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	body := `{"topic":"Go","level":"beginner",
		"questions":[{"id":"q1","text":"a"},{"id":"q1","text":"b"}],
		"progress":{"currentIndex":0,"stats":[]},"timestamp":0}`
	require.NoError(t, kv.Put(ctx, CurrentSessionKey, []byte(body)))

	got, err := New(kv, nil).LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, kv.Has(CurrentSessionKey))
}

func TestLoadSessionClampsRatings(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	body := `{"topic":"Go","level":"beginner",
		"questions":[{"id":"q1","text":"a"},{"id":"q2","text":"b"}],
		"progress":{"currentIndex":0,"stats":[{"questionId":"q1","rating":42},{"questionId":"q2","rating":-3}]},
		"timestamp":0}`
	require.NoError(t, kv.Put(ctx, CurrentSessionKey, []byte(body)))

	got, err := New(kv, nil).LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Results, 2)
	assert.Equal(t, 5.0, got.Results[0].Rating)
	assert.Equal(t, 0.0, got.Results[1].Rating)
}

func TestClearSession(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	a := New(kv, nil)
	require.NoError(t, a.SaveSession(ctx, sampleSnapshot()))
	require.NoError(t, a.ClearSession(ctx))
	assert.False(t, kv.Has(CurrentSessionKey))
}

func TestDecksRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := New(store.NewMemory(), nil)

	decks, err := a.LoadDecks(ctx)
	require.NoError(t, err)
	assert.Empty(t, decks)

	saved := []deck.SavedDeck{{
		ID:        1700000000000,
		Name:      "Go basics",
		Topic:     "Go",
		Level:     deck.Beginner,
		Questions: sampleSnapshot().Questions,
		Results:   sampleSnapshot().Results,
		SavedAt:   time.UnixMilli(1700000000500),
	}}
	require.NoError(t, a.SaveDecks(ctx, saved))

	decks, err = a.LoadDecks(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, decks)
}

func TestSavedDeckWireShape(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, New(kv, nil).SaveDecks(ctx, []deck.SavedDeck{{
		ID:        1700000000000,
		Name:      "Go basics",
		Topic:     "Go",
		Level:     deck.Beginner,
		Questions: sampleSnapshot().Questions,
		Results:   sampleSnapshot().Results,
		SavedAt:   time.UnixMilli(1700000000500),
	}}))

	data, found, err := kv.Get(ctx, SavedDecksKey)
	require.NoError(t, err)
	require.True(t, found)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "1700000000000", raw[0]["id"])
	assert.Equal(t, "Go basics", raw[0]["name"])
	assert.EqualValues(t, 1700000000500, raw[0]["timestamp"])
	progress := raw[0]["progress"].(map[string]any)
	assert.Len(t, progress["stats"], 1)
}

func TestLoadDecksSkipsInvalidDecks(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	body := `[
		{"id":"1","name":"no ids","topic":"Go","level":"beginner",
		 "questions":[{"text":"a"},{"text":"b"},{"text":"c"}],"progress":{"stats":[]},"timestamp":1},
		{"id":"2","name":"bad level","topic":"Go","level":"expert",
		 "questions":[{"id":"q1","text":"a"}],"progress":{"stats":[]},"timestamp":2},
		{"id":"3","name":"empty","topic":"Go","level":"beginner","questions":[],"progress":{"stats":[]},"timestamp":3},
		{"id":"x","name":"bad id","topic":"Go","level":"beginner",
		 "questions":[{"id":"q1","text":"a"}],"progress":{"stats":[]},"timestamp":4},
		{"id":"5","name":"good","topic":"Go","level":"advanced",
		 "questions":[{"id":"q1","text":"a"},{"id":"q2","text":"b"}],
		 "progress":{"stats":[{"questionId":"q1","rating":2},{"questionId":"q1","rating":9},{"questionId":"gone","rating":1}]},
		 "timestamp":5},
		{"id":"5","name":"repeat","topic":"Go","level":"advanced",
		 "questions":[{"id":"q1","text":"a"}],"progress":{"stats":[]},"timestamp":6}
	]`
	require.NoError(t, kv.Put(ctx, SavedDecksKey, []byte(body)))

	decks, err := New(kv, nil).LoadDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, "good", decks[0].Name)
	assert.Equal(t, int64(5), decks[0].ID)
	require.Len(t, decks[0].Results, 1)
	assert.Equal(t, 5.0, decks[0].Results[0].Rating)
}

func TestLoadDecksCorruptIsKept(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, kv.Put(ctx, SavedDecksKey, []byte(`{"oops":`)))

	decks, err := New(kv, nil).LoadDecks(ctx)
	require.NoError(t, err)
	assert.Empty(t, decks)
	assert.True(t, kv.Has(SavedDecksKey))
}

func TestSaveFailureIsReturned(t *testing.T) {
	kv := store.NewMemory()
	kv.FailPut = assert.AnError
	err := New(kv, nil).SaveSession(context.Background(), sampleSnapshot())
	assert.ErrorIs(t, err, assert.AnError)
}
