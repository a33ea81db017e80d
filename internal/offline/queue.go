package offline

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"time"
	"vistoria/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DEFAULT_RETENTION = 7 * 24 * time.Hour
	QUEUE_PAGE_SIZE   = 50
)

// Queue is the agent's durable store of edits not yet confirmed by the server.
type Queue struct {
	db        *gorm.DB
	retention time.Duration
	pageSize  int
	now       func() time.Time
	log       logger.Logger
}

type QueueOption func(*Queue)

func WithRetention(retention time.Duration) QueueOption {
	return func(q *Queue) {
		if retention > 0 {
			q.retention = retention
		}
	}
}

func WithClock(now func() time.Time) QueueOption {
	return func(q *Queue) { q.now = now }
}

func WithPageSize(size int) QueueOption {
	return func(q *Queue) {
		if size > 0 {
			q.pageSize = size
		}
	}
}

// NewQueue migrates the queue tables on db and returns a ready queue.
func NewQueue(db *gorm.DB, opts ...QueueOption) (*Queue, error) {
	q := &Queue{
		db:        db,
		retention: DEFAULT_RETENTION,
		pageSize:  QUEUE_PAGE_SIZE,
		now:       time.Now,
		log:       logger.New("offline").File("queue"),
	}
	for _, opt := range opts {
		opt(q)
	}

	if err := db.AutoMigrate(queueModels...); err != nil {
		return nil, q.log.Function("NewQueue").Err("failed to migrate queue tables", err)
	}

	return q, nil
}

func (q *Queue) Now() time.Time {
	return q.now().UTC()
}

func (q *Queue) EnqueueInspection(
	ctx context.Context,
	tempID uuid.UUID,
	payload InspectionPayload,
) (PendingInspection, error) {
	log := q.log.Function("EnqueueInspection")

	if payload.PropertyID == uuid.Nil || !payload.Type.Valid() {
		return PendingInspection{}, types.Validation(map[string]string{
			"propertyId": "required",
			"type":       "oneof",
		})
	}
	if tempID == uuid.Nil {
		tempID = uuid.New()
	}

	entry := PendingInspection{
		TempID:    tempID,
		Payload:   datatypes.NewJSONType(payload),
		CreatedAt: q.Now(),
	}
	if err := q.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return PendingInspection{}, log.Err("failed to queue inspection", err, "tempID", tempID)
	}

	return entry, nil
}

// EnqueueItemUpdate replaces any queued update for the same item in one statement.
func (q *Queue) EnqueueItemUpdate(
	ctx context.Context,
	inspectionID, itemID uuid.UUID,
	payload ItemPayload,
) (PendingItemUpdate, error) {
	log := q.log.Function("EnqueueItemUpdate")

	if !payload.Condition.Valid() {
		return PendingItemUpdate{}, types.Validation(map[string]string{"condition": "oneof"})
	}

	entry := PendingItemUpdate{
		InspectionID: inspectionID,
		ItemID:       itemID,
		Condition:    payload.Condition,
		Note:         payload.Note,
		Revision:     1,
		CreatedAt:    q.Now(),
	}

	updates := append(
		clause.AssignmentColumns([]string{"condition", "note", "synced", "created_at"}),
		clause.Assignment{
			Column: clause.Column{Name: "revision"},
			Value:  gorm.Expr("pending_item_updates.revision + 1"),
		},
	)

	err := q.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "inspection_id"}, {Name: "item_id"}},
		DoUpdates: updates,
	}).Create(&entry).Error
	if err != nil {
		return PendingItemUpdate{}, log.Err("failed to queue item update", err, "itemID", itemID)
	}

	var stored PendingItemUpdate
	err = q.db.WithContext(ctx).
		First(&stored, "inspection_id = ? AND item_id = ?", inspectionID, itemID).Error
	if err != nil {
		return PendingItemUpdate{}, log.Err("failed to reload item update", err, "itemID", itemID)
	}

	return stored, nil
}

func (q *Queue) EnqueuePhoto(
	ctx context.Context,
	itemID uuid.UUID,
	data []byte,
	caption string,
) (PendingPhoto, error) {
	log := q.log.Function("EnqueuePhoto")

	if len(data) == 0 {
		return PendingPhoto{}, types.Validation(map[string]string{"photo": "required"})
	}

	entry := PendingPhoto{
		ItemID:    itemID,
		Data:      data,
		Caption:   caption,
		CreatedAt: q.Now(),
	}
	if err := q.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return PendingPhoto{}, log.Err("failed to queue photo", err, "itemID", itemID)
	}

	return entry, nil
}

func (q *Queue) UnsyncedInspections(ctx context.Context) iter.Seq2[PendingInspection, error] {
	return unsynced(ctx, q, func(e PendingInspection) cursor { return cursor{e.CreatedAt, e.ID} })
}

func (q *Queue) UnsyncedItemUpdates(ctx context.Context) iter.Seq2[PendingItemUpdate, error] {
	return unsynced(ctx, q, func(e PendingItemUpdate) cursor { return cursor{e.CreatedAt, e.ID} })
}

func (q *Queue) UnsyncedPhotos(ctx context.Context) iter.Seq2[PendingPhoto, error] {
	return unsynced(ctx, q, func(e PendingPhoto) cursor { return cursor{e.CreatedAt, e.ID} })
}

type cursor struct {
	at time.Time
	id uint
}

// unsynced pages oldest-first with a keyset cursor, so rows marked synced while
// the caller iterates never shift the next page.
func unsynced[T any](ctx context.Context, q *Queue, position func(T) cursor) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var after *cursor

		for {
			query := q.db.WithContext(ctx).Where("synced = ?", false)
			if after != nil {
				query = query.Where(
					"(created_at > ? OR (created_at = ? AND id > ?))",
					after.at, after.at, after.id,
				)
			}

			var page []T
			if err := query.Order("created_at, id").Limit(q.pageSize).Find(&page).Error; err != nil {
				var zero T
				yield(zero, err)
				return
			}

			for _, entry := range page {
				if !yield(entry, nil) {
					return
				}
			}

			if len(page) < q.pageSize {
				return
			}
			last := position(page[len(page)-1])
			after = &last
		}
	}
}

// MarkSynced flips the synced flag; marking an already synced or swept entry is a no-op.
// Item updates replayed by the engine go through MarkItemSynced instead.
func (q *Queue) MarkSynced(ctx context.Context, kind Kind, id uint) error {
	log := q.log.Function("MarkSynced")

	model, err := modelFor(kind)
	if err != nil {
		return log.Err("failed to mark synced", err, "kind", kind)
	}

	err = q.db.WithContext(ctx).Model(model).Where("id = ?", id).Update("synced", true).Error
	if err != nil {
		return log.Err("failed to mark synced", err, "kind", kind, "id", id)
	}
	return nil
}

// MarkItemSynced marks an item update only while it still holds the replayed revision.
// It reports false when a newer edit replaced the entry during the replay; that edit stays pending.
func (q *Queue) MarkItemSynced(ctx context.Context, id, revision uint) (bool, error) {
	log := q.log.Function("MarkItemSynced")

	result := q.db.WithContext(ctx).
		Model(&PendingItemUpdate{}).
		Where("id = ? AND revision = ?", id, revision).
		Update("synced", true)
	if result.Error != nil {
		return false, log.Err("failed to mark item update synced", result.Error, "id", id, "revision", revision)
	}
	return result.RowsAffected > 0, nil
}

func modelFor(kind Kind) (any, error) {
	switch kind {
	case KindInspection:
		return &PendingInspection{}, nil
	case KindItemUpdate:
		return &PendingItemUpdate{}, nil
	case KindPhoto:
		return &PendingPhoto{}, nil
	}
	return nil, types.Validation(map[string]string{"kind": "oneof"})
}

type SweepResult struct {
	Inspections  int64 `json:"inspections"`
	ItemUpdates  int64 `json:"itemUpdates"`
	Photos       int64 `json:"photos"`
	CacheEntries int64 `json:"cacheEntries"`
}

func (r SweepResult) Total() int64 {
	return r.Inspections + r.ItemUpdates + r.Photos + r.CacheEntries
}

// Sweep deletes synced entries older than the retention window and expired cache
// entries. Unsynced entries are never removed.
func (q *Queue) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	log := q.log.Function("Sweep")

	cutoff := now.UTC().Add(-q.retention)
	var result SweepResult

	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		targets := []struct {
			model   any
			deleted *int64
		}{
			{&PendingInspection{}, &result.Inspections},
			{&PendingItemUpdate{}, &result.ItemUpdates},
			{&PendingPhoto{}, &result.Photos},
		}

		for _, target := range targets {
			res := tx.Where("synced = ? AND created_at < ?", true, cutoff).Delete(target.model)
			if res.Error != nil {
				return res.Error
			}
			*target.deleted = res.RowsAffected
		}

		res := tx.Where("expires_at < ?", now.UTC()).Delete(&CacheEntry{})
		if res.Error != nil {
			return res.Error
		}
		result.CacheEntries = res.RowsAffected
		return nil
	})
	if err != nil {
		return SweepResult{}, log.Err("failed to sweep queue", err)
	}

	return result, nil
}

// PendingCount is informational only; the drain never relies on it.
func (q *Queue) PendingCount(ctx context.Context) (int64, error) {
	log := q.log.Function("PendingCount")

	var total int64
	for _, model := range []any{&PendingInspection{}, &PendingItemUpdate{}, &PendingPhoto{}} {
		var count int64
		if err := q.db.WithContext(ctx).Model(model).Where("synced = ?", false).Count(&count).Error; err != nil {
			return 0, log.Err("failed to count pending entries", err)
		}
		total += count
	}

	return total, nil
}

func (q *Queue) CacheSet(ctx context.Context, key string, value any, ttl time.Duration) error {
	log := q.log.Function("CacheSet")

	encoded, err := json.Marshal(value)
	if err != nil {
		return log.Err("failed to encode cache value", err, "key", key)
	}

	entry := CacheEntry{
		Key:       key,
		Value:     datatypes.JSON(encoded),
		ExpiresAt: q.Now().Add(ttl),
	}

	err = q.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
	}).Create(&entry).Error
	if err != nil {
		return log.Err("failed to store cache entry", err, "key", key)
	}

	return nil
}

// CacheGet decodes the entry into out. Expired entries are deleted and reported as missing.
func (q *Queue) CacheGet(ctx context.Context, key string, out any) (bool, error) {
	log := q.log.Function("CacheGet")

	var entry CacheEntry
	err := q.db.WithContext(ctx).First(&entry, "cache_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, log.Err("failed to read cache entry", err, "key", key)
	}

	if q.Now().After(entry.ExpiresAt) {
		if err := q.db.WithContext(ctx).Delete(&entry).Error; err != nil {
			log.Warn("failed to delete expired cache entry", "key", key, "error", err)
		}
		return false, nil
	}

	if err := json.Unmarshal(entry.Value, out); err != nil {
		return false, log.Err("failed to decode cache entry", err, "key", key)
	}

	return true, nil
}
