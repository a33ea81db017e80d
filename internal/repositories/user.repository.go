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
	USER_CACHE_EXPIRY = 15 * time.Minute
	USER_CACHE_PREFIX = "user"
)

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error)
	List(ctx context.Context, tx *gorm.DB) ([]*User, error)
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) error
	TouchLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
}

type userRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewUserRepository(cache database.CacheClient) UserRepository {
	return &userRepository{
		cache: cache,
		log:   logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	found, err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Get(&user)
	if err != nil {
		log.Warn("failed to get user from cache", "userID", id, "error", err)
	}
	if found {
		return &user, nil
	}

	if err := tx.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "user not found")
	}

	if err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		Set(); err != nil {
		log.Warn("failed to add user to cache", "userID", id, "error", err)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error) {
	var user User
	err := tx.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, tx *gorm.DB) ([]*User, error) {
	log := r.log.Function("List")

	var users []*User
	if err := tx.WithContext(ctx).Order("name ASC").Find(&users).Error; err != nil {
		return nil, log.Err("failed to list users", err)
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.Function("Create")

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := tx.WithContext(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "email", user.Email)
	}
	return nil
}

func (r *userRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) error {
	log := r.log.Function("Update")

	result := tx.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return log.Err("failed to update user", result.Error, "userID", id)
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "user not found")
	}

	r.clearCache(ctx, id)
	return nil
}

func (r *userRepository) TouchLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	return tx.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("last_login_at", at).Error
}

func (r *userRepository) clearCache(ctx context.Context, id uuid.UUID) {
	if err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Delete(); err != nil {
		r.log.Function("clearCache").Warn("failed to clear user cache", "userID", id, "error", err)
	}
}
