package offline

import (
	"context"
	"iter"
	"testing"
	"time"
	"vistoria/internal/database"
	"vistoria/internal/models"
	"vistoria/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock advances one second per reading so creation order is unambiguous.
type testClock struct {
	at time.Time
}

func (c *testClock) now() time.Time {
	c.at = c.at.Add(time.Second)
	return c.at
}

func newTestQueue(t *testing.T, opts ...QueueOption) (*Queue, *testClock) {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	clock := &testClock{at: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	queue, err := NewQueue(db, append([]QueueOption{WithClock(clock.now)}, opts...)...)
	require.NoError(t, err)
	return queue, clock
}

func collect[T any](t *testing.T, seq iter.Seq2[T, error]) []T {
	t.Helper()

	var out []T
	for entry, err := range seq {
		require.NoError(t, err)
		out = append(out, entry)
	}
	return out
}

func TestEnqueueItemUpdate_KeepsOnlyLatest(t *testing.T) {
	queue, _ := newTestQueue(t)
	ctx := context.Background()
	inspectionID, itemID := uuid.New(), uuid.New()

	for _, condition := range []models.Condition{
		models.ConditionFair,
		models.ConditionPoor,
		models.ConditionGood,
	} {
		_, err := queue.EnqueueItemUpdate(ctx, inspectionID, itemID, ItemPayload{Condition: condition})
		require.NoError(t, err)
	}

	updates := collect(t, queue.UnsyncedItemUpdates(ctx))
	require.Len(t, updates, 1)
	assert.Equal(t, models.ConditionGood, updates[0].Condition)
	assert.Equal(t, itemID, updates[0].ItemID)

	other, err := queue.EnqueueItemUpdate(ctx, inspectionID, uuid.New(), ItemPayload{Condition: models.ConditionPoor})
	require.NoError(t, err)
	assert.NotEqual(t, updates[0].ID, other.ID)

	count, err := queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestEnqueueItemUpdate_ReopensSyncedRow(t *testing.T) {
	queue, _ := newTestQueue(t)
	ctx := context.Background()
	inspectionID, itemID := uuid.New(), uuid.New()

	first, err := queue.EnqueueItemUpdate(ctx, inspectionID, itemID, ItemPayload{Condition: models.ConditionFair})
	require.NoError(t, err)
	require.NoError(t, queue.MarkSynced(ctx, KindItemUpdate, first.ID))
	assert.Empty(t, collect(t, queue.UnsyncedItemUpdates(ctx)))

	note := "crack near the door"
	second, err := queue.EnqueueItemUpdate(ctx, inspectionID, itemID, ItemPayload{
		Condition: models.ConditionPoor,
		Note:      &note,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.Synced)
	assert.True(t, second.CreatedAt.After(first.CreatedAt))
	require.NotNil(t, second.Note)
	assert.Equal(t, note, *second.Note)
}

func TestEnqueue_Validation(t *testing.T) {
	queue, _ := newTestQueue(t)
	ctx := context.Background()

	_, err := queue.EnqueueItemUpdate(ctx, uuid.New(), uuid.New(), ItemPayload{Condition: "BROKEN"})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = queue.EnqueuePhoto(ctx, uuid.New(), nil, "")
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = queue.EnqueueInspection(ctx, uuid.New(), InspectionPayload{Type: models.InspectionMoveIn})
	assert.ErrorIs(t, err, types.ErrValidation)

	entry, err := queue.EnqueueInspection(ctx, uuid.Nil, InspectionPayload{
		PropertyID: uuid.New(),
		Type:       models.InspectionMoveOut,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, entry.TempID)
}

func TestUnsynced_PagesOldestFirst(t *testing.T) {
	queue, _ := newTestQueue(t, WithPageSize(2))
	ctx := context.Background()

	var want []uint
	for i := range 5 {
		entry, err := queue.EnqueuePhoto(ctx, uuid.New(), []byte{byte(i + 1)}, "")
		require.NoError(t, err)
		want = append(want, entry.ID)
	}

	var got []uint
	for entry, err := range queue.UnsyncedPhotos(ctx) {
		require.NoError(t, err)
		got = append(got, entry.ID)
		require.NoError(t, queue.MarkSynced(ctx, KindPhoto, entry.ID))
	}

	assert.Equal(t, want, got)
	assert.Empty(t, collect(t, queue.UnsyncedPhotos(ctx)))
}

func TestUnsynced_StopsWhenCallerBreaks(t *testing.T) {
	queue, _ := newTestQueue(t, WithPageSize(2))
	ctx := context.Background()

	for range 3 {
		_, err := queue.EnqueueInspection(ctx, uuid.New(), InspectionPayload{
			PropertyID: uuid.New(),
			Type:       models.InspectionPeriodic,
		})
		require.NoError(t, err)
	}

	seen := 0
	for _, err := range queue.UnsyncedInspections(ctx) {
		require.NoError(t, err)
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestMarkSynced(t *testing.T) {
	queue, _ := newTestQueue(t)
	ctx := context.Background()

	entry, err := queue.EnqueuePhoto(ctx, uuid.New(), []byte("jpeg"), "front door")
	require.NoError(t, err)

	require.NoError(t, queue.MarkSynced(ctx, KindPhoto, entry.ID))
	require.NoError(t, queue.MarkSynced(ctx, KindPhoto, entry.ID))
	require.NoError(t, queue.MarkSynced(ctx, KindPhoto, 9999))

	assert.ErrorIs(t, queue.MarkSynced(ctx, Kind("video"), entry.ID), types.ErrValidation)

	count, err := queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSweep(t *testing.T) {
	queue, clock := newTestQueue(t)
	ctx := context.Background()

	oldSynced, err := queue.EnqueuePhoto(ctx, uuid.New(), []byte("a"), "")
	require.NoError(t, err)
	require.NoError(t, queue.MarkSynced(ctx, KindPhoto, oldSynced.ID))

	_, err = queue.EnqueuePhoto(ctx, uuid.New(), []byte("b"), "")
	require.NoError(t, err)

	oldUpdate, err := queue.EnqueueItemUpdate(ctx, uuid.New(), uuid.New(), ItemPayload{Condition: models.ConditionGood})
	require.NoError(t, err)
	require.NoError(t, queue.MarkSynced(ctx, KindItemUpdate, oldUpdate.ID))

	require.NoError(t, queue.CacheSet(ctx, "properties", []string{"Rua A"}, time.Minute))
	require.NoError(t, queue.CacheSet(ctx, "checklist", []string{"Floor"}, 30*24*time.Hour))

	clock.at = clock.at.Add(DEFAULT_RETENTION + time.Hour)

	recent, err := queue.EnqueuePhoto(ctx, uuid.New(), []byte("c"), "")
	require.NoError(t, err)
	require.NoError(t, queue.MarkSynced(ctx, KindPhoto, recent.ID))

	result, err := queue.Sweep(ctx, queue.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Photos)
	assert.Equal(t, int64(1), result.ItemUpdates)
	assert.Equal(t, int64(0), result.Inspections)
	assert.Equal(t, int64(1), result.CacheEntries)
	assert.Equal(t, int64(3), result.Total())

	count, err := queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "unsynced rows survive regardless of age")

	var checklist []string
	found, err := queue.CacheGet(ctx, "checklist", &checklist)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"Floor"}, checklist)
}

func TestCache(t *testing.T) {
	queue, clock := newTestQueue(t)
	ctx := context.Background()

	var out map[string]int
	found, err := queue.CacheGet(ctx, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, queue.CacheSet(ctx, "progress", map[string]int{"percent": 10}, time.Hour))
	require.NoError(t, queue.CacheSet(ctx, "progress", map[string]int{"percent": 40}, time.Hour))

	found, err = queue.CacheGet(ctx, "progress", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 40, out["percent"])

	clock.at = clock.at.Add(2 * time.Hour)

	found, err = queue.CacheGet(ctx, "progress", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMarkItemSynced_RequiresCurrentRevision(t *testing.T) {
	queue, _ := newTestQueue(t)
	ctx := context.Background()
	inspectionID, itemID := uuid.New(), uuid.New()

	first, err := queue.EnqueueItemUpdate(ctx, inspectionID, itemID, ItemPayload{Condition: models.ConditionFair})
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Revision)

	second, err := queue.EnqueueItemUpdate(ctx, inspectionID, itemID, ItemPayload{Condition: models.ConditionGood})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, uint(2), second.Revision)

	marked, err := queue.MarkItemSynced(ctx, first.ID, first.Revision)
	require.NoError(t, err)
	assert.False(t, marked)

	count, err := queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	marked, err = queue.MarkItemSynced(ctx, second.ID, second.Revision)
	require.NoError(t, err)
	assert.True(t, marked)

	count, err = queue.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
