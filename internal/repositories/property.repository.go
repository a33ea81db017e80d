package repositories

import (
	"context"
	"strings"
	"time"
	"vistoria/internal/database"
	. "vistoria/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PROPERTY_CACHE_PREFIX = "property"
	PROPERTY_CACHE_EXPIRY = 30 * time.Minute
)

type PropertyFilter struct {
	Search string
	Type   PropertyType
	City   string
	Page   int
	Limit  int
}

type PropertyRepository interface {
	List(ctx context.Context, tx *gorm.DB, filter PropertyFilter) ([]*Property, int64, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Property, error)
	Create(ctx context.Context, tx *gorm.DB, property *Property) error
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	GetRoom(ctx context.Context, tx *gorm.DB, propertyID, roomID uuid.UUID) (*Room, error)
	CreateRoom(ctx context.Context, tx *gorm.DB, room *Room) error
	UpdateRoom(ctx context.Context, tx *gorm.DB, room *Room, updates map[string]any) error
	DeleteRoom(ctx context.Context, tx *gorm.DB, room *Room) error
	RoomInUse(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) (bool, error)
	NextRoomOrder(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) (int, error)
}

type propertyRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewPropertyRepository(cache database.CacheClient) PropertyRepository {
	return &propertyRepository{
		cache: cache,
		log:   logger.New("propertyRepository"),
	}
}

func orderedRooms(db *gorm.DB) *gorm.DB {
	return db.Order("display_order ASC, created_at ASC")
}

func (r *propertyRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter PropertyFilter,
) ([]*Property, int64, error) {
	log := r.log.Function("List")

	query := tx.WithContext(ctx).Model(&Property{}).Where("active = ?", true)
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(street) LIKE ? OR LOWER(district) LIKE ? OR LOWER(owner_name) LIKE ?",
			like, like, like,
		)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		query = query.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(city)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, log.Err("failed to count properties", err)
	}

	_, limit, offset := paginate(filter.Page, filter.Limit)

	var properties []*Property
	if err := query.
		Preload("Rooms", orderedRooms).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&properties).Error; err != nil {
		return nil, 0, log.Err("failed to list properties", err)
	}

	return properties, total, nil
}

func (r *propertyRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Property, error) {
	log := r.log.Function("GetByID")

	var property Property
	found, err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(PROPERTY_CACHE_PREFIX).
		Get(&property)
	if err != nil {
		log.Warn("failed to get property from cache", "propertyID", id, "error", err)
	}
	if found {
		return &property, nil
	}

	if err := tx.WithContext(ctx).
		Preload("Rooms", orderedRooms).
		First(&property, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "property not found")
	}

	if err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(PROPERTY_CACHE_PREFIX).
		WithStruct(property).
		WithTTL(PROPERTY_CACHE_EXPIRY).
		Set(); err != nil {
		log.Warn("failed to cache property", "propertyID", id, "error", err)
	}

	return &property, nil
}

func (r *propertyRepository) Create(ctx context.Context, tx *gorm.DB, property *Property) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(property).Error; err != nil {
		return log.Err("failed to create property", err, "city", property.City)
	}
	return nil
}

func (r *propertyRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) error {
	log := r.log.Function("Update")

	result := tx.WithContext(ctx).Model(&Property{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return log.Err("failed to update property", result.Error, "propertyID", id)
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "property not found")
	}

	r.clearCache(ctx, id)
	return nil
}

// Deactivate soft deletes a property; its inspections are left untouched.
func (r *propertyRepository) Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.Update(ctx, tx, id, map[string]any{"active": false})
}

func (r *propertyRepository) GetRoom(
	ctx context.Context,
	tx *gorm.DB,
	propertyID, roomID uuid.UUID,
) (*Room, error) {
	var room Room
	if err := tx.WithContext(ctx).
		Where("id = ? AND property_id = ?", roomID, propertyID).
		First(&room).Error; err != nil {
		return nil, notFoundOr(err, "room not found")
	}
	return &room, nil
}

func (r *propertyRepository) CreateRoom(ctx context.Context, tx *gorm.DB, room *Room) error {
	log := r.log.Function("CreateRoom")

	if err := tx.WithContext(ctx).Create(room).Error; err != nil {
		return log.Err("failed to create room", err, "propertyID", room.PropertyID)
	}

	r.clearCache(ctx, room.PropertyID)
	return nil
}

func (r *propertyRepository) UpdateRoom(
	ctx context.Context,
	tx *gorm.DB,
	room *Room,
	updates map[string]any,
) error {
	log := r.log.Function("UpdateRoom")

	if err := tx.WithContext(ctx).Model(room).Updates(updates).Error; err != nil {
		return log.Err("failed to update room", err, "roomID", room.ID)
	}

	r.clearCache(ctx, room.PropertyID)
	return nil
}

func (r *propertyRepository) DeleteRoom(ctx context.Context, tx *gorm.DB, room *Room) error {
	log := r.log.Function("DeleteRoom")

	if err := tx.WithContext(ctx).Delete(room).Error; err != nil {
		return log.Err("failed to delete room", err, "roomID", room.ID)
	}

	r.clearCache(ctx, room.PropertyID)
	return nil
}

func (r *propertyRepository) RoomInUse(ctx context.Context, tx *gorm.DB, roomID uuid.UUID) (bool, error) {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&ChecklistItem{}).
		Where("room_id = ?", roomID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *propertyRepository) NextRoomOrder(
	ctx context.Context,
	tx *gorm.DB,
	propertyID uuid.UUID,
) (int, error) {
	var maxOrder *int
	if err := tx.WithContext(ctx).
		Model(&Room{}).
		Where("property_id = ?", propertyID).
		Select("MAX(display_order)").
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	if maxOrder == nil {
		return 1, nil
	}
	return *maxOrder + 1, nil
}

func (r *propertyRepository) clearCache(ctx context.Context, id uuid.UUID) {
	if err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(PROPERTY_CACHE_PREFIX).
		Delete(); err != nil {
		r.log.Function("clearCache").Warn("failed to clear property cache", "propertyID", id, "error", err)
	}
}
