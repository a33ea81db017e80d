package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"vistoria/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type CacheClient valkey.Client

type Cache struct {
	General CacheClient
	Session CacheClient
	User    CacheClient
	Events  CacheClient
	Metrics CacheClient
}

type DB struct {
	SQL   *gorm.DB
	Cache Cache
	log   logger.Logger
}

func New(config config.Config) (DB, error) {
	log := logger.New("database").Function("New")

	log.Info("Initializing database", "driver", config.DatabaseDriver)
	db := &DB{log: log}

	err := db.initializeDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	err = db.initializeCacheDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize cache database", err)
	}

	return *db, nil
}

// NewFromGorm wraps an already opened connection without a cache.
func NewFromGorm(sql *gorm.DB) DB {
	return DB{SQL: sql, log: logger.New("database")}
}

func newGormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormLogger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
			gormLogger.Config{
				SlowThreshold:             2 * time.Second,
				LogLevel:                  gormLogger.Silent,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
		DisableForeignKeyConstraintWhenMigrating: false,
		SkipDefaultTransaction:                   true,
	}
}

func (s *DB) initializeDB(config config.Config) error {
	if config.DatabaseDriver == "sqlite" {
		return s.initializeSQLiteDB(config)
	}
	return s.initializePostgresDB(config)
}

func (s *DB) initializePostgresDB(config config.Config) error {
	log := s.log.Function("initializePostgresDB")

	if config.DatabaseHost == "" {
		return log.ErrMsg("database host is empty")
	}
	if config.DatabaseName == "" {
		return log.ErrMsg("database name is empty")
	}
	if config.DatabaseUser == "" {
		return log.ErrMsg("database user is empty")
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		config.DatabaseHost,
		config.DatabasePort,
		config.DatabaseUser,
		config.DatabasePassword,
		config.DatabaseName,
	)

	log.Info(
		"Connecting to PostgreSQL",
		"host", config.DatabaseHost,
		"port", config.DatabasePort,
		"database", config.DatabaseName,
	)
	gormConfig := newGormConfig()
	gormConfig.PrepareStmt = true
	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return log.Err("failed to open PostgreSQL database with GORM", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping PostgreSQL database through GORM", err)
	}

	log.Info("Successfully connected to PostgreSQL with GORM")
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db

	return nil
}

func (s *DB) initializeSQLiteDB(config config.Config) error {
	log := s.log.Function("initializeSQLiteDB")

	log.Info("Using SQLite database", "path", config.DatabaseName)
	db, err := OpenSQLite(config.DatabaseName)
	if err != nil {
		return log.Err("failed to open SQLite database", err, "path", config.DatabaseName)
	}

	s.SQL = db
	return nil
}

const SQLITE_BUSY_TIMEOUT = 5 * time.Second

// OpenSQLite opens a pure-Go SQLite database. A single connection serializes writers,
// which also keeps ":memory:" databases shared across the pool.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, newGormConfig())
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	// Other processes may hold the same file; wait for their locks instead of failing.
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", SQLITE_BUSY_TIMEOUT.Milliseconds()),
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, err
		}
	}

	return db, nil
}

func (s *DB) Close() (err error) {
	if s.SQL != nil {
		sqlDB, dbErr := s.SQL.DB()
		if dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				err = s.log.Err("failed to close database", closeErr)
			}
		}
	}

	for _, client := range s.Cache.clients() {
		client.Close()
	}

	return err
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

func (c Cache) clients() []CacheClient {
	clients := make([]CacheClient, 0, 5)
	for _, client := range []CacheClient{c.General, c.Session, c.User, c.Events, c.Metrics} {
		if client != nil {
			clients = append(clients, client)
		}
	}
	return clients
}

func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")
	log.Info("Flushing all cache databases")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, client := range s.Cache.clients() {
		if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
			return log.Err("Failed to flush cache database", err)
		}
	}

	log.Info("All cache databases flushed successfully")
	return nil
}
