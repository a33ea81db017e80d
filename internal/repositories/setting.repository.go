package repositories

import (
	"context"
	. "vistoria/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	List(ctx context.Context, tx *gorm.DB, category string) ([]*Setting, error)
	Get(ctx context.Context, tx *gorm.DB, category, key string) (*Setting, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Setting, error)
	Upsert(ctx context.Context, tx *gorm.DB, setting *Setting) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type settingRepository struct {
	log logger.Logger
}

func NewSettingRepository() SettingRepository {
	return &settingRepository{
		log: logger.New("settingRepository"),
	}
}

func (r *settingRepository) List(ctx context.Context, tx *gorm.DB, category string) ([]*Setting, error) {
	query := tx.WithContext(ctx).Order("category ASC, setting_key ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var settings []*Setting
	if err := query.Find(&settings).Error; err != nil {
		return nil, r.log.Function("List").Err("failed to list settings", err, "category", category)
	}
	return settings, nil
}

func (r *settingRepository) Get(ctx context.Context, tx *gorm.DB, category, key string) (*Setting, error) {
	var setting Setting
	if err := tx.WithContext(ctx).
		Where("category = ? AND setting_key = ?", category, key).
		First(&setting).Error; err != nil {
		return nil, notFoundOr(err, "setting not found")
	}
	return &setting, nil
}

func (r *settingRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Setting, error) {
	var setting Setting
	if err := tx.WithContext(ctx).First(&setting, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "setting not found")
	}
	return &setting, nil
}

// Upsert inserts the setting or overwrites value, description and sensitivity on (category, key).
func (r *settingRepository) Upsert(ctx context.Context, tx *gorm.DB, setting *Setting) error {
	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}, {Name: "setting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "description", "sensitive", "updated_at"}),
		}).
		Create(setting).Error
	if err != nil {
		return r.log.Function("Upsert").Err("failed to upsert setting", err, "category", setting.Category, "key", setting.Key)
	}

	stored, err := r.Get(ctx, tx, setting.Category, setting.Key)
	if err != nil {
		return err
	}
	*setting = *stored
	return nil
}

func (r *settingRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	result := tx.WithContext(ctx).Delete(&Setting{}, "id = ?", id)
	if result.Error != nil {
		return r.log.Function("Delete").Err("failed to delete setting", result.Error, "settingID", id)
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "setting not found")
	}
	return nil
}
