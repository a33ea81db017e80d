package services

import (
	"context"
	"time"
	"vistoria/internal/database"
	"vistoria/internal/events"
	"vistoria/internal/repositories"
	"vistoria/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	ADMIN_METRICS_CACHE_KEY    = "admin_metrics"
	ADMIN_METRICS_CACHE_EXPIRY = time.Hour
	RECENT_INSPECTIONS_LIMIT   = 5
	METRICS_MONTHS             = 12
)

// AdminService computes dashboard metrics and keeps the latest snapshot in the
// metrics cache between refreshes.
type AdminService struct {
	db      database.DB
	metrics repositories.MetricsRepository
	now     func() time.Time
	log     logger.Logger
}

func NewAdminService(db database.DB, metrics repositories.MetricsRepository) *AdminService {
	return &AdminService{
		db:      db,
		metrics: metrics,
		now:     time.Now,
		log:     logger.New("adminService"),
	}
}

func (s *AdminService) Register(bus *events.EventBus) error {
	return bus.Subscribe(events.METRICS_INVALIDATED, func(event events.Event) error {
		s.Invalidate(context.Background())
		return nil
	})
}

// Metrics serves the cached snapshot when present and computes a fresh one otherwise.
func (s *AdminService) Metrics(ctx context.Context) (*types.AdminMetrics, error) {
	log := s.log.Function("Metrics")

	var cached types.AdminMetrics
	found, err := database.NewCacheBuilder(s.db.Cache.Metrics, ADMIN_METRICS_CACHE_KEY).
		WithContext(ctx).
		Get(&cached)
	if err != nil {
		log.Warn("failed to read metrics from cache", "error", err)
	}
	if found {
		return &cached, nil
	}

	return s.Refresh(ctx)
}

// Refresh recomputes the metrics snapshot and stores it in the cache.
func (s *AdminService) Refresh(ctx context.Context) (*types.AdminMetrics, error) {
	log := s.log.Function("Refresh")

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	tx := s.db.SQLWithContext(ctx)

	totals, err := s.metrics.Totals(ctx, tx, monthStart)
	if err != nil {
		return nil, err
	}

	byType, err := s.metrics.CountByType(ctx, tx)
	if err != nil {
		return nil, err
	}

	recent, err := s.metrics.Recent(ctx, tx, RECENT_INSPECTIONS_LIMIT)
	if err != nil {
		return nil, err
	}

	metrics := &types.AdminMetrics{
		Totals:      totals,
		ByType:      byType,
		Recent:      recent,
		GeneratedAt: now,
	}

	if err := database.NewCacheBuilder(s.db.Cache.Metrics, ADMIN_METRICS_CACHE_KEY).
		WithContext(ctx).
		WithStruct(metrics).
		WithTTL(ADMIN_METRICS_CACHE_EXPIRY).
		Set(); err != nil {
		log.Warn("failed to cache metrics", "error", err)
	}

	return metrics, nil
}

func (s *AdminService) Invalidate(ctx context.Context) {
	if err := database.NewCacheBuilder(s.db.Cache.Metrics, ADMIN_METRICS_CACHE_KEY).
		WithContext(ctx).
		Delete(); err != nil {
		s.log.Function("Invalidate").Warn("failed to invalidate metrics", "error", err)
	}
}

func (s *AdminService) InspectionsPerMonth(ctx context.Context) ([]types.MonthCount, error) {
	return s.metrics.PerMonth(ctx, s.db.SQLWithContext(ctx), s.now(), METRICS_MONTHS)
}
