package initialize

import (
	"errors"
	"strings"
	"vistoria/config"
	. "vistoria/internal/models"
	"vistoria/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// InitializeTables writes the data production needs before the first login.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeAdmin(db, config, log); err != nil {
		return log.Err("failed to initialize admin", err)
	}

	log.Info("Table initialization complete")
	return nil
}

func initializeAdmin(db *gorm.DB, config config.Config, log logger.Logger) error {
	email := strings.ToLower(strings.TrimSpace(config.AdminEmail))
	if email == "" || config.AdminPassword == "" {
		log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	var existing User
	err := db.First(&existing, "email = ?", email).Error
	if err == nil {
		log.Debug("Admin already exists", "email", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return log.Err("failed to look up admin", err, "email", email)
	}

	hash, err := services.HashPassword(config.AdminPassword)
	if err != nil {
		return log.Err("failed to hash admin password", err)
	}

	admin := User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return log.Err("failed to create admin", err, "email", email)
	}

	log.Info("Admin created", "email", email)
	return nil
}
