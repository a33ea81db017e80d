package userController

import (
	"context"
	"errors"
	"strings"
	"vistoria/internal/database"
	. "vistoria/internal/models"
	"vistoria/internal/repositories"
	"vistoria/internal/services"
	"vistoria/internal/types"
	"vistoria/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const userEntity = "user"

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role"     validate:"omitempty,oneof=ADMIN INSPECTOR BROKER VIEWER"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name"   validate:"omitempty,min=1"`
	Role   *Role   `json:"role"   validate:"omitempty,oneof=ADMIN INSPECTOR BROKER VIEWER"`
	Active *bool   `json:"active"`
}

type UserControllerInterface interface {
	List(ctx context.Context) ([]UserProfile, error)
	Create(ctx context.Context, actor types.Actor, req CreateUserRequest) (*UserProfile, error)
	Update(ctx context.Context, actor types.Actor, id uuid.UUID, req UpdateUserRequest) (*UserProfile, error)
}

type UserController struct {
	userRepo    repositories.UserRepository
	auditRepo   repositories.AuditRepository
	transaction *services.TransactionService
	db          database.DB
	log         logger.Logger
}

func New(repos repositories.Repository, services services.Service, db database.DB) UserControllerInterface {
	return &UserController{
		userRepo:    repos.User,
		auditRepo:   repos.Audit,
		transaction: services.Transaction,
		db:          db,
		log:         logger.New("userController"),
	}
}

func (uc *UserController) List(ctx context.Context) ([]UserProfile, error) {
	users, err := uc.userRepo.List(ctx, uc.db.SQLWithContext(ctx))
	if err != nil {
		return nil, err
	}

	profiles := make([]UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.ToProfile())
	}
	return profiles, nil
}

func (uc *UserController) Create(
	ctx context.Context,
	actor types.Actor,
	req CreateUserRequest,
) (*UserProfile, error) {
	log := uc.log.Function("Create")

	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	role := req.Role
	if role == "" {
		role = RoleInspector
	}

	user := &User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}

	err = uc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		existing, err := uc.userRepo.GetByEmail(ctx, tx, req.Email)
		if err != nil && !errors.Is(err, types.ErrNotFound) {
			return err
		}
		if existing != nil {
			return types.Validation(map[string]string{"email": "unique"})
		}

		if err := uc.userRepo.Create(ctx, tx, user); err != nil {
			return err
		}

		return uc.auditRepo.Record(ctx, tx, repositories.AuditEntry{
			Action:   AuditCreate,
			Entity:   userEntity,
			EntityID: user.ID.String(),
			UserID:   actor.UserID(),
			Data:     map[string]any{"email": user.Email, "role": user.Role},
			IP:       actor.IP,
		})
	})
	if err != nil {
		return nil, err
	}

	profile := user.ToProfile()
	return &profile, nil
}

func (uc *UserController) Update(
	ctx context.Context,
	actor types.Actor,
	id uuid.UUID,
	req UpdateUserRequest,
) (*UserProfile, error) {
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.Active != nil {
		updates["is_active"] = *req.Active
	}

	var user *User
	err := uc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := uc.userRepo.Update(ctx, tx, id, updates); err != nil {
				return err
			}

			if err := uc.auditRepo.Record(ctx, tx, repositories.AuditEntry{
				Action:   AuditUpdate,
				Entity:   userEntity,
				EntityID: id.String(),
				UserID:   actor.UserID(),
				Data:     updates,
				IP:       actor.IP,
			}); err != nil {
				return err
			}
		}

		var err error
		user, err = uc.userRepo.GetByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	profile := user.ToProfile()
	return &profile, nil
}
