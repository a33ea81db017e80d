package services

import (
	"context"
	"errors"
	"time"
	"vistoria/internal/database"
	"vistoria/internal/repositories"
	"vistoria/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	SETTING_CACHE_PREFIX = "setting"
	SETTING_CACHE_EXPIRY = 5 * time.Minute
)

// SettingsValues resolves a runtime setting with a fallback for unset keys.
type SettingsValues interface {
	Value(ctx context.Context, category, key, fallback string) string
}

type SettingsService struct {
	db   database.DB
	repo repositories.SettingRepository
	log  logger.Logger
}

func NewSettingsService(db database.DB, repo repositories.SettingRepository) *SettingsService {
	return &SettingsService{
		db:   db,
		repo: repo,
		log:  logger.New("settingsService"),
	}
}

func settingCacheKey(category, key string) string {
	return category + ":" + key
}

// Value returns the stored value for (category, key), or fallback when the setting
// is missing, empty or cannot be read.
func (s *SettingsService) Value(ctx context.Context, category, key, fallback string) string {
	log := s.log.Function("Value")

	var cached string
	found, err := database.NewCacheBuilder(s.db.Cache.General, settingCacheKey(category, key)).
		WithContext(ctx).
		WithHash(SETTING_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to read setting from cache", "category", category, "key", key, "error", err)
	}
	if found {
		return orFallback(cached, fallback)
	}

	setting, err := s.repo.Get(ctx, s.db.SQLWithContext(ctx), category, key)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			log.Er("failed to load setting", err, "category", category, "key", key)
		}
		return fallback
	}

	if err := database.NewCacheBuilder(s.db.Cache.General, settingCacheKey(category, key)).
		WithContext(ctx).
		WithHash(SETTING_CACHE_PREFIX).
		WithStruct(setting.Value).
		WithTTL(SETTING_CACHE_EXPIRY).
		Set(); err != nil {
		log.Warn("failed to cache setting", "category", category, "key", key, "error", err)
	}

	return orFallback(setting.Value, fallback)
}

// Invalidate drops a cached value after it has been written or deleted.
func (s *SettingsService) Invalidate(ctx context.Context, category, key string) {
	if err := database.NewCacheBuilder(s.db.Cache.General, settingCacheKey(category, key)).
		WithContext(ctx).
		WithHash(SETTING_CACHE_PREFIX).
		Delete(); err != nil {
		s.log.Function("Invalidate").Warn("failed to invalidate setting", "category", category, "key", key, "error", err)
	}
}

func orFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
