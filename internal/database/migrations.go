package database

import (
	"vistoria/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// Models lists every table in dependency order.
var Models = []any{
	&models.User{},
	&models.Property{},
	&models.Room{},
	&models.Inspection{},
	&models.ChecklistItem{},
	&models.Photo{},
	&models.AuditLog{},
	&models.Setting{},
}

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	for _, model := range Models {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_inspections_property_status ON inspections(property_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_inspections_created_at ON inspections(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_checklist_items_inspection_condition ON checklist_items(inspection_id, condition)",
		"CREATE INDEX IF NOT EXISTS idx_rooms_property_order ON rooms(property_id, display_order)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at ON audit_logs(created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	return nil
}
