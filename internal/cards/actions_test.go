package cards

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/fcm/internal/db"
	"github.com/tgienger/fcm/internal/models"
	"github.com/tgienger/fcm/internal/store"
)

func TestActions_CompleteTwiceOverwritesCompletedAt(t *testing.T) {
	database, err := db.New(filepath.Join(t.TempDir(), "cards.db"))
	require.NoError(t, err)
	defer database.Close()
	s := store.New(database)
	ctx := context.Background()

	id, err := s.CreateCard(ctx, models.Card{
		Title: "t", Tasks: "k", Color: models.ColorBlue, Status: models.StatusIncomplete,
		OwnerID: "u1", CreatedAt: testNow, UpdatedAt: testNow,
	})
	require.NoError(t, err)

	first := testNow.Add(time.Minute)
	second := testNow.Add(2 * time.Minute)
	clock := first
	a := NewActions(s, WithClock(func() time.Time { return clock }))

	require.NoError(t, a.Complete(ctx, id))
	clock = second
	require.NoError(t, a.Complete(ctx, id))

	got, err := database.GetFlashcard(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(second))
}

func TestActions_Delete(t *testing.T) {
	fs := newFakeStore()
	fs.push("u1", card("a", "u1", models.StatusIncomplete))
	a := NewActions(fs)

	require.NoError(t, a.Delete(context.Background(), "a"))
	_, ok := fs.card("a")
	assert.False(t, ok)
}

func TestActions_FailuresAreLoggedAndReturned(t *testing.T) {
	fs := newFakeStore()
	fs.err = errors.New("unavailable")
	var buf bytes.Buffer
	a := NewActions(fs, WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))))

	err := a.Complete(context.Background(), "a")
	assert.EqualError(t, err, "unavailable")
	err = a.Delete(context.Background(), "a")
	assert.EqualError(t, err, "unavailable")

	assert.Contains(t, buf.String(), "failed to mark card complete")
	assert.Contains(t, buf.String(), "failed to delete card")
	assert.Contains(t, buf.String(), `"card_id":"a"`)
}
