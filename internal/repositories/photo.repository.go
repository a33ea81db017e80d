package repositories

import (
	"context"
	. "vistoria/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PhotoRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Photo, error)
	Create(ctx context.Context, tx *gorm.DB, photo *Photo) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ReferencedPaths(ctx context.Context, tx *gorm.DB, paths []string) (map[string]bool, error)
}

type photoRepository struct {
	log logger.Logger
}

func NewPhotoRepository() PhotoRepository {
	return &photoRepository{
		log: logger.New("photoRepository"),
	}
}

func (r *photoRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Photo, error) {
	var photo Photo
	if err := tx.WithContext(ctx).First(&photo, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "photo not found")
	}
	return &photo, nil
}

func (r *photoRepository) Create(ctx context.Context, tx *gorm.DB, photo *Photo) error {
	if err := tx.WithContext(ctx).Create(photo).Error; err != nil {
		return r.log.Function("Create").Err("failed to create photo", err, "itemID", photo.ChecklistItemID)
	}
	return nil
}

func (r *photoRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	result := tx.WithContext(ctx).Delete(&Photo{}, "id = ?", id)
	if result.Error != nil {
		return r.log.Function("Delete").Err("failed to delete photo", result.Error, "photoID", id)
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "photo not found")
	}
	return nil
}

// ReferencedPaths reports which of the given storage paths still belong to a photo row.
func (r *photoRepository) ReferencedPaths(
	ctx context.Context,
	tx *gorm.DB,
	paths []string,
) (map[string]bool, error) {
	referenced := make(map[string]bool, len(paths))
	if len(paths) == 0 {
		return referenced, nil
	}

	var found []string
	if err := tx.WithContext(ctx).
		Model(&Photo{}).
		Where("storage_path IN ?", paths).
		Pluck("storage_path", &found).Error; err != nil {
		return nil, r.log.Function("ReferencedPaths").Err("failed to look up storage paths", err, "count", len(paths))
	}

	for _, path := range found {
		referenced[path] = true
	}
	return referenced, nil
}
