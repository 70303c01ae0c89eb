package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/flaskinni/inni/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuzzQueriesNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBuzzStore(200)
	actor := uuid.New()

	for _, title := range []string{"first", "second", "third"} {
		_, err := store.Record(ctx, models.Buzz{
			EventType: models.EventInfo,
			Title:     title,
			ActorID:   &actor,
		})
		require.NoError(t, err)
	}
	_, err := store.Record(ctx, models.Buzz{EventType: models.EventWarning, Title: "odd one out"})
	require.NoError(t, err)

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 4)
	assert.Equal(t, "odd one out", recent[0].Title)
	assert.Equal(t, "third", recent[1].Title)

	byType, err := store.ByType(ctx, models.EventInfo, 10)
	require.NoError(t, err)
	require.Len(t, byType, 3)
	assert.Equal(t, "third", byType[0].Title)

	byActor, err := store.ByActor(ctx, actor, 10)
	require.NoError(t, err)
	assert.Len(t, byActor, 3)
}

func TestBuzzLimitCapped(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBuzzStore(5)

	for i := 0; i < 20; i++ {
		_, err := store.Record(ctx, models.Buzz{EventType: models.EventInfo, Title: "entry"})
		require.NoError(t, err)
	}

	out, err := store.Recent(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, out, 5, "requested limit above the cap is clamped")

	out, err = store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestBuzzImmutableAfterRecord(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBuzzStore(200)

	committed, err := store.Record(ctx, models.Buzz{EventType: models.EventInfo, Title: "original"})
	require.NoError(t, err)

	// Mutating the returned copy must not touch the ledger; there is no
	// update operation to call.
	committed.Title = "tampered"
	committed.Body = "tampered"

	out, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "original", out[0].Title)
	assert.Empty(t, out[0].Body)
}

func TestBuzzUnavailableWrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBuzzStore(200)
	store.FailWrites = true

	_, err := store.Record(ctx, models.Buzz{EventType: models.EventInfo, Title: "doomed"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestBuzzPurgeOlderThan(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBuzzStore(200)

	_, err := store.Record(ctx, models.Buzz{EventType: models.EventInfo, Title: "keep"})
	require.NoError(t, err)

	purged, err := store.PurgeOlderThan(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, purged)

	purged, err = store.PurgeOlderThan(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	out, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, out)
}
