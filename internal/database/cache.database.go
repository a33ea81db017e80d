package database

import (
	"context"
	"fmt"
	"time"
	"vistoria/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey Database Index Organization
const (
	// GENERAL_CACHE_INDEX (DB 0) - miscellaneous cache operations
	GENERAL_CACHE_INDEX = iota

	// SESSION_CACHE_INDEX (DB 1) - refresh token bookkeeping
	SESSION_CACHE_INDEX

	// USER_CACHE_INDEX (DB 2) - authenticated user lookups
	USER_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 3) - pub/sub for the event bus
	EVENTS_CACHE_INDEX

	// METRICS_CACHE_INDEX (DB 4) - property details and admin dashboards
	METRICS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")

	if !config.CacheEnabled() {
		log.Warn("cache address not configured, running without valkey")
		return nil
	}

	log.Info("initializing cache database")
	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)

	newClient := func(index int) (CacheClient, error) {
		return valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{address},
			SelectDB:    index,
		})
	}

	var cacheDB Cache
	var err error

	if cacheDB.General, err = newClient(GENERAL_CACHE_INDEX); err != nil {
		return log.Err("failed to create general valkey client", err)
	}
	if cacheDB.Session, err = newClient(SESSION_CACHE_INDEX); err != nil {
		return log.Err("failed to create session valkey client", err)
	}
	if cacheDB.User, err = newClient(USER_CACHE_INDEX); err != nil {
		return log.Err("failed to create user valkey client", err)
	}
	if cacheDB.Events, err = newClient(EVENTS_CACHE_INDEX); err != nil {
		return log.Err("failed to create events valkey client", err)
	}
	if cacheDB.Metrics, err = newClient(METRICS_CACHE_INDEX); err != nil {
		return log.Err("failed to create metrics valkey client", err)
	}

	s.Cache = cacheDB

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, cacheDB)
	}

	return nil
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	byIndex := map[int]CacheClient{
		GENERAL_CACHE_INDEX: cacheDB.General,
		SESSION_CACHE_INDEX: cacheDB.Session,
		USER_CACHE_INDEX:    cacheDB.User,
		EVENTS_CACHE_INDEX:  cacheDB.Events,
		METRICS_CACHE_INDEX: cacheDB.Metrics,
	}

	client, ok := byIndex[index]
	if !ok || client == nil {
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index)
		return
	}

	log.Info("Successfully cleared cache database", "index", index)
}
