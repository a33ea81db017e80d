package repositories

import (
	"errors"

	"vistoria/internal/database"
	"vistoria/internal/types"

	"gorm.io/gorm"
)

type Repository struct {
	User          UserRepository
	Property      PropertyRepository
	Inspection    InspectionRepository
	ChecklistItem ChecklistItemRepository
	Photo         PhotoRepository
	Audit         AuditRepository
	Setting       SettingRepository
	Metrics       MetricsRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:          NewUserRepository(db.Cache.User),
		Property:      NewPropertyRepository(db.Cache.General),
		Inspection:    NewInspectionRepository(),
		ChecklistItem: NewChecklistItemRepository(),
		Photo:         NewPhotoRepository(),
		Audit:         NewAuditRepository(),
		Setting:       NewSettingRepository(),
		Metrics:       NewMetricsRepository(),
	}
}

// notFoundOr maps gorm's missing-row error to a typed NotFound.
func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NotFound(message)
	}
	return err
}

func paginate(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}
