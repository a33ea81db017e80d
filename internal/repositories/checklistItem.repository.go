package repositories

import (
	"context"
	. "vistoria/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChecklistItemRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ChecklistItem, error)
	ListByInspection(ctx context.Context, tx *gorm.DB, inspectionID uuid.UUID) ([]*ChecklistItem, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, condition Condition, note *string) error
}

type checklistItemRepository struct {
	log logger.Logger
}

func NewChecklistItemRepository() ChecklistItemRepository {
	return &checklistItemRepository{
		log: logger.New("checklistItemRepository"),
	}
}

func (r *checklistItemRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ChecklistItem, error) {
	var item ChecklistItem
	if err := tx.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "checklist item not found")
	}
	return &item, nil
}

func (r *checklistItemRepository) ListByInspection(
	ctx context.Context,
	tx *gorm.DB,
	inspectionID uuid.UUID,
) ([]*ChecklistItem, error) {
	var items []*ChecklistItem
	if err := tx.WithContext(ctx).
		Preload("Room").
		Where("inspection_id = ?", inspectionID).
		Order("sort_order ASC").
		Find(&items).Error; err != nil {
		return nil, r.log.Function("ListByInspection").
			Err("failed to list checklist items", err, "inspectionID", inspectionID)
	}
	return items, nil
}

func (r *checklistItemRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	condition Condition,
	note *string,
) error {
	updates := map[string]any{"condition": condition}
	if note != nil {
		updates["note"] = *note
	}

	result := tx.WithContext(ctx).Model(&ChecklistItem{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return r.log.Function("Update").Err("failed to update checklist item", result.Error, "itemID", id)
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "checklist item not found")
	}
	return nil
}
