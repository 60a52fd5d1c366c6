package remind

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_FirstRunCreatesEmptyDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "data/reminders.json")

	assert.Empty(t, store.LoadAll())

	exists, err := afero.Exists(fs, "data/reminders.json")
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := afero.ReadFile(fs, "data/reminders.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestStore_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "data/reminders.json")
	loc := jakarta(t)

	reminders := []Reminder{
		{ID: "a", ConversationID: "c1", FireAt: time.Date(2024, 1, 2, 8, 0, 0, 0, loc), Note: "call mom"},
		{ID: "b", ConversationID: "c1", FireAt: time.Date(2024, 1, 3, 9, 30, 0, 0, loc), Note: "olahraga"},
		{ID: "c", ConversationID: "c2", FireAt: time.Date(2024, 2, 1, 20, 0, 0, 0, loc), Note: "pay rent"},
	}
	for _, r := range reminders {
		require.NoError(t, store.Append(r))
	}

	// A fresh store over the same document sees the same ordered sequence.
	loaded := NewStore(fs, "data/reminders.json").LoadAll()
	require.Len(t, loaded, 3)
	for i, r := range reminders {
		assert.Equal(t, r.ID, loaded[i].ID)
		assert.Equal(t, r.ConversationID, loaded[i].ConversationID)
		assert.Equal(t, r.Note, loaded[i].Note)
		assert.True(t, r.FireAt.Equal(loaded[i].FireAt), "id %s: got %v", r.ID, loaded[i].FireAt)
	}
}

func TestStore_Remove(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "data/reminders.json")
	loc := jakarta(t)

	require.NoError(t, store.Append(Reminder{ID: "a", ConversationID: "c", FireAt: time.Date(2024, 1, 2, 8, 0, 0, 0, loc), Note: "x"}))
	require.NoError(t, store.Append(Reminder{ID: "b", ConversationID: "c", FireAt: time.Date(2024, 1, 3, 8, 0, 0, 0, loc), Note: "y"}))

	require.NoError(t, store.Remove("a"))
	loaded := store.LoadAll()
	require.Len(t, loaded, 1)
	assert.Equal(t, "b", loaded[0].ID)

	// Removing an absent id is a no-op, not an error.
	require.NoError(t, store.Remove("a"))
	assert.Len(t, store.LoadAll(), 1)
}

func TestStore_CorruptDocumentTreatedAsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/reminders.json", []byte("{not json"), 0o644))

	store := NewStore(fs, "data/reminders.json")
	assert.Empty(t, store.LoadAll())

	// The store stays usable after recovering from the corrupt document.
	require.NoError(t, store.Append(Reminder{ID: "a", ConversationID: "c", FireAt: time.Now().Add(time.Hour), Note: "x"}))
	assert.Len(t, store.LoadAll(), 1)
}
