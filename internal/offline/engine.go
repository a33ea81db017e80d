package offline

import (
	"context"
	"errors"
	"iter"
	"sync/atomic"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

// TEMP_ID_CACHE_PREFIX keys the server id an offline inspection received on sync.
const TEMP_ID_CACHE_PREFIX = "inspection:temp:"

type PhaseReport struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

type DrainReport struct {
	Inspections PhaseReport `json:"inspections"`
	ItemUpdates PhaseReport `json:"itemUpdates"`
	Photos      PhaseReport `json:"photos"`
	Swept       SweepResult `json:"swept"`
	Pending     int64       `json:"pending"`
	StartedAt   time.Time   `json:"startedAt"`
	FinishedAt  time.Time   `json:"finishedAt"`
}

// Engine replays the queue against the server. Only one drain runs at a time.
type Engine struct {
	queue    *Queue
	remote   RemoteAPI
	draining atomic.Bool
	pending  atomic.Int64
	lastSync atomic.Pointer[time.Time]
	log      logger.Logger
}

func NewEngine(queue *Queue, remote RemoteAPI) *Engine {
	return &Engine{
		queue:  queue,
		remote: remote,
		log:    logger.New("offline").File("engine"),
	}
}

// Drain replays inspections, then item updates, then photos, oldest first. A failed
// entry stays queued for the next drain and never stops the pass. The second return
// is false when another drain was already running and this call did nothing.
func (e *Engine) Drain(ctx context.Context) (DrainReport, bool) {
	if !e.draining.CompareAndSwap(false, true) {
		return DrainReport{}, false
	}
	defer e.draining.Store(false)

	// A pass always runs to the end, even when the caller is shutting down.
	ctx = context.WithoutCancel(ctx)
	log := e.log.Function("Drain")

	report := DrainReport{StartedAt: e.queue.Now()}

	report.Inspections = drainPhase(ctx, e, KindInspection, e.queue.UnsyncedInspections(ctx),
		func(entry PendingInspection) (uint, error) {
			id, err := e.remote.CreateInspection(ctx, entry.Payload.Data())
			if err != nil {
				return entry.ID, err
			}
			e.rememberTempID(ctx, entry.TempID, id)
			return entry.ID, nil
		},
		func(entry PendingInspection) error {
			return e.queue.MarkSynced(ctx, KindInspection, entry.ID)
		})

	report.ItemUpdates = drainPhase(ctx, e, KindItemUpdate, e.queue.UnsyncedItemUpdates(ctx),
		func(entry PendingItemUpdate) (uint, error) {
			return entry.ID, e.remote.UpdateItem(ctx, entry.InspectionID, entry.ItemID, entry.Payload())
		},
		func(entry PendingItemUpdate) error {
			marked, err := e.queue.MarkItemSynced(ctx, entry.ID, entry.Revision)
			if err == nil && !marked {
				log.Debug("item update replaced during replay, keeping the newer edit",
					"id", entry.ID, "itemID", entry.ItemID)
			}
			return err
		})

	report.Photos = drainPhase(ctx, e, KindPhoto, e.queue.UnsyncedPhotos(ctx),
		func(entry PendingPhoto) (uint, error) {
			return entry.ID, e.remote.UploadPhoto(ctx, entry.ItemID, entry.Data, entry.Caption)
		},
		func(entry PendingPhoto) error {
			return e.queue.MarkSynced(ctx, KindPhoto, entry.ID)
		})

	swept, err := e.queue.Sweep(ctx, e.queue.Now())
	if err != nil {
		log.Er("sweep after drain failed", err)
	}
	report.Swept = swept

	e.RefreshPending(ctx)
	report.Pending = e.pending.Load()
	report.FinishedAt = e.queue.Now()
	e.lastSync.Store(&report.FinishedAt)

	log.Info("Drain complete",
		"inspectionsSynced", report.Inspections.Synced,
		"itemsSynced", report.ItemUpdates.Synced,
		"photosSynced", report.Photos.Synced,
		"failed", report.Inspections.Failed+report.ItemUpdates.Failed+report.Photos.Failed,
		"pending", report.Pending,
	)

	return report, true
}

func drainPhase[T any](
	ctx context.Context,
	e *Engine,
	kind Kind,
	entries iter.Seq2[T, error],
	replay func(T) (uint, error),
	mark func(T) error,
) PhaseReport {
	log := e.log.Function("drainPhase")
	var report PhaseReport

	for entry, err := range entries {
		if err != nil {
			log.Er("failed to read queue", err, "kind", kind)
			return report
		}

		id, err := replay(entry)
		if err != nil {
			report.Failed++
			if errors.Is(err, ErrTransient) {
				log.Warn("replay failed, will retry", "kind", kind, "id", id, "error", err)
			} else {
				log.Er("server rejected queued entry", err, "kind", kind, "id", id)
			}
			continue
		}

		if err := mark(entry); err != nil {
			report.Failed++
			continue
		}
		report.Synced++
	}

	return report
}

func (e *Engine) rememberTempID(ctx context.Context, tempID, serverID uuid.UUID) {
	err := e.queue.CacheSet(ctx, TEMP_ID_CACHE_PREFIX+tempID.String(), serverID, e.queue.retention)
	if err != nil {
		e.log.Function("rememberTempID").Warn("failed to cache server id", "tempID", tempID, "error", err)
	}
}

// ResolveTempID returns the server id an offline inspection was created with.
func (e *Engine) ResolveTempID(ctx context.Context, tempID uuid.UUID) (uuid.UUID, bool, error) {
	var serverID uuid.UUID
	found, err := e.queue.CacheGet(ctx, TEMP_ID_CACHE_PREFIX+tempID.String(), &serverID)
	return serverID, found, err
}

func (e *Engine) RefreshPending(ctx context.Context) int64 {
	count, err := e.queue.PendingCount(ctx)
	if err != nil {
		return e.pending.Load()
	}
	e.pending.Store(count)
	return count
}

func (e *Engine) Pending() int64 {
	return e.pending.Load()
}

func (e *Engine) Draining() bool {
	return e.draining.Load()
}

func (e *Engine) LastSync() (time.Time, bool) {
	last := e.lastSync.Load()
	if last == nil {
		return time.Time{}, false
	}
	return *last, true
}
