package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darwinian-be/pkg/store"
)

func TestSessionRepository_RoundTrip(t *testing.T) {
	repo := NewSessionRepository(time.Minute)
	ctx := context.Background()

	s := &store.Session{ID: "s1", LastQuestion: "q"}
	require.NoError(t, repo.Save(ctx, s))

	// Mutating the caller's copy does not leak into the store
	s.LastQuestion = "changed"

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "q", got.LastQuestion)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestSessionRepository_Expires(t *testing.T) {
	repo := NewSessionRepository(20 * time.Millisecond)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &store.Session{ID: "s1"}))

	time.Sleep(40 * time.Millisecond)
	_, err := repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}
