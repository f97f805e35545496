package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candidly/interview-engine/internal/domain"
)

// TestMemoryStore_PersistAndLoad verifies a persisted session loads back
// equal through the codec.
func TestMemoryStore_PersistAndLoad(t *testing.T) {
	store := NewMemoryStore()
	session := fullSession()

	require.NoError(t, store.Persist(context.Background(), session), "Persisting a session succeeds.")
	assert.Equal(t, 1, store.Len(), "The store holds one session.")

	loaded, err := store.Load(context.Background(), session.ID)
	require.NoError(t, err, "Loading a persisted session succeeds.")
	assert.Equal(t, session.ID, loaded.ID, "The loaded session has the persisted id.")
	assert.Equal(t, session.Answers, loaded.Answers, "Answers round-trip through the store.")
	assert.Equal(t, session.Metrics, loaded.Metrics, "Metrics round-trip through the store.")
}

// TestMemoryStore_LoadUnknown verifies unknown ids surface the sentinel.
func TestMemoryStore_LoadUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Unknown ids surface ErrSessionNotFound.")
}

// TestMemoryStore_PersistOverwrites verifies Persist replaces any prior
// version of the session.
func TestMemoryStore_PersistOverwrites(t *testing.T) {
	store := NewMemoryStore()
	session := fullSession()
	require.NoError(t, store.Persist(context.Background(), session), "First persist succeeds.")

	session.StopReason = "performance plateau detected"
	require.NoError(t, store.Persist(context.Background(), session), "Second persist succeeds.")

	loaded, err := store.Load(context.Background(), session.ID)
	require.NoError(t, err, "Loading succeeds after overwrite.")
	assert.Equal(t, "performance plateau detected", loaded.StopReason, "The latest version wins.")
	assert.Equal(t, 1, store.Len(), "Overwriting does not add a row.")
}

// TestMemoryStore_LoadReturnsCopy verifies mutations on a loaded session
// do not leak back into the store.
func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	session := fullSession()
	require.NoError(t, store.Persist(context.Background(), session), "Persist succeeds.")

	first, err := store.Load(context.Background(), session.ID)
	require.NoError(t, err, "First load succeeds.")
	first.Status = domain.StatusCancelled
	first.Answers[0].Technical = 0

	second, err := store.Load(context.Background(), session.ID)
	require.NoError(t, err, "Second load succeeds.")
	assert.Equal(t, domain.StatusCompleted, second.Status, "Stored status is unaffected by caller mutation.")
	assert.InDelta(t, 0.85, second.Answers[0].Technical, 1e-9, "Stored answers are unaffected by caller mutation.")
}

// TestMemoryStore_CancelledContext verifies context cancellation is honored.
func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Persist(ctx, fullSession())
	assert.ErrorIs(t, err, context.Canceled, "Persist honors a cancelled context.")

	_, err = store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, context.Canceled, "Load honors a cancelled context.")
}
