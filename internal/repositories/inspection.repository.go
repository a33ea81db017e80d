package repositories

import (
	"context"
	"time"
	. "vistoria/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InspectionFilter struct {
	PropertyID  *uuid.UUID
	InspectorID *uuid.UUID
	Status      InspectionStatus
	Type        InspectionType
	Page        int
	Limit       int
}

type InspectionRepository interface {
	List(ctx context.Context, tx *gorm.DB, filter InspectionFilter) ([]*Inspection, int64, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Inspection, error)
	GetDetailed(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Inspection, error)
	Create(ctx context.Context, tx *gorm.DB, inspection *Inspection) error
	UpdateNotes(ctx context.Context, tx *gorm.DB, id uuid.UUID, notes string) (bool, error)
	Finalize(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) (bool, error)
	Sign(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	CountUnverified(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type inspectionRepository struct {
	log logger.Logger
}

func NewInspectionRepository() InspectionRepository {
	return &inspectionRepository{
		log: logger.New("inspectionRepository"),
	}
}

func (r *inspectionRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter InspectionFilter,
) ([]*Inspection, int64, error) {
	log := r.log.Function("List")

	query := tx.WithContext(ctx).Model(&Inspection{})
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.InspectorID != nil {
		query = query.Where("inspector_id = ?", *filter.InspectorID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, log.Err("failed to count inspections", err)
	}

	_, limit, offset := paginate(filter.Page, filter.Limit)

	var inspections []*Inspection
	if err := query.
		Preload("Property").
		Preload("Inspector").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&inspections).Error; err != nil {
		return nil, 0, log.Err("failed to list inspections", err)
	}

	return inspections, total, nil
}

func (r *inspectionRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Inspection, error) {
	var inspection Inspection
	if err := tx.WithContext(ctx).First(&inspection, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "inspection not found")
	}
	return &inspection, nil
}

// GetDetailed loads the inspection with its property, inspector and items in room order.
func (r *inspectionRepository) GetDetailed(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Inspection, error) {
	var inspection Inspection
	err := tx.WithContext(ctx).
		Preload("Property.Rooms", orderedRooms).
		Preload("Inspector").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Items.Room").
		Preload("Items.Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&inspection, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "inspection not found")
	}
	return &inspection, nil
}

func (r *inspectionRepository) Create(ctx context.Context, tx *gorm.DB, inspection *Inspection) error {
	log := r.log.Function("Create")

	items := inspection.Items
	inspection.Items = nil

	if err := tx.WithContext(ctx).Create(inspection).Error; err != nil {
		return log.Err("failed to create inspection", err, "propertyID", inspection.PropertyID)
	}

	for i := range items {
		items[i].InspectionID = inspection.ID
	}

	if len(items) > 0 {
		if err := tx.WithContext(ctx).CreateInBatches(&items, 100).Error; err != nil {
			return log.Err("failed to create checklist items", err, "inspectionID", inspection.ID)
		}
	}

	inspection.Items = items
	return nil
}

// UpdateNotes writes notes only while the inspection is still in progress.
func (r *inspectionRepository) UpdateNotes(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	notes string,
) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&Inspection{}).
		Where("id = ? AND status = ?", id, StatusInProgress).
		Update("notes", notes)
	if result.Error != nil {
		return false, r.log.Function("UpdateNotes").Err("failed to update notes", result.Error, "inspectionID", id)
	}
	return result.RowsAffected == 1, nil
}

// Finalize is a compare-and-set on status: it reports false when another writer got there first.
func (r *inspectionRepository) Finalize(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	at time.Time,
) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&Inspection{}).
		Where("id = ? AND status = ?", id, StatusInProgress).
		Updates(map[string]any{
			"status":       StatusFinalized,
			"finalized_at": at,
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, r.log.Function("Finalize").Err("failed to finalize inspection", result.Error, "inspectionID", id)
	}
	return result.RowsAffected == 1, nil
}

func (r *inspectionRepository) Sign(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) error {
	result := tx.WithContext(ctx).Model(&Inspection{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return r.log.Function("Sign").Err("failed to store signatures", result.Error, "inspectionID", id)
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "inspection not found")
	}
	return nil
}

func (r *inspectionRepository) CountUnverified(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&ChecklistItem{}).
		Where("inspection_id = ? AND condition = ?", id, ConditionUnverified).
		Count(&count).Error
	return count, err
}
