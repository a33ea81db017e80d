package authController

import (
	"context"
	"errors"
	"vistoria/internal/database"
	. "vistoria/internal/models"
	"vistoria/internal/repositories"
	"vistoria/internal/services"
	"vistoria/internal/types"
	"vistoria/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User         UserProfile `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type AuthControllerInterface interface {
	Login(ctx context.Context, ip string, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	Authenticate(ctx context.Context, accessToken string) (*User, error)
}

type AuthController struct {
	userRepo     repositories.UserRepository
	auditRepo    repositories.AuditRepository
	tokenService *services.TokenService
	transaction  *services.TransactionService
	db           database.DB
	log          logger.Logger
}

func New(repos repositories.Repository, services services.Service, db database.DB) AuthControllerInterface {
	return &AuthController{
		userRepo:     repos.User,
		auditRepo:    repos.Audit,
		tokenService: services.Token,
		transaction:  services.Transaction,
		db:           db,
		log:          logger.New("authController"),
	}
}

var errInvalidCredentials = types.Unauthorized("invalid email or password")

// Login checks the password of an active user and issues an access/refresh pair.
// Unknown, inactive and wrong-password attempts are indistinguishable to the caller.
func (c *AuthController) Login(ctx context.Context, ip string, req LoginRequest) (*LoginResponse, error) {
	log := c.log.Function("Login")

	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	user, err := c.userRepo.GetByEmail(ctx, c.db.SQLWithContext(ctx), req.Email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive || !services.CheckPassword(user.PasswordHash, req.Password) {
		log.Info("rejected login", "userID", user.ID, "active", user.IsActive)
		return nil, errInvalidCredentials
	}

	pair, err := c.tokenService.Issue(user)
	if err != nil {
		return nil, log.Err("failed to issue tokens", err, "userID", user.ID)
	}

	now := c.db.SQL.NowFunc()
	err = c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.userRepo.TouchLogin(ctx, tx, user.ID, now); err != nil {
			return err
		}

		return c.auditRepo.Record(ctx, tx, repositories.AuditEntry{
			Action:   AuditLogin,
			Entity:   "user",
			EntityID: user.ID.String(),
			UserID:   &user.ID,
			IP:       ip,
		})
	})
	if err != nil {
		log.Warn("failed to record login", "userID", user.ID, "error", err)
	}
	user.LastLoginAt = &now

	return &LoginResponse{
		User:         user.ToProfile(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (c *AuthController) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	claims, err := c.tokenService.Validate(req.RefreshToken, services.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := c.activeUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	access, err := c.tokenService.IssueAccess(user)
	if err != nil {
		return nil, c.log.Function("Refresh").Err("failed to issue access token", err, "userID", user.ID)
	}

	return &RefreshResponse{AccessToken: access}, nil
}

// Authenticate resolves a bearer access token to its active user.
func (c *AuthController) Authenticate(ctx context.Context, accessToken string) (*User, error) {
	claims, err := c.tokenService.Validate(accessToken, services.AccessToken)
	if err != nil {
		return nil, err
	}

	return c.activeUser(ctx, claims)
}

func (c *AuthController) activeUser(ctx context.Context, claims *services.TokenClaims) (*User, error) {
	user, err := c.userRepo.GetByID(ctx, c.db.SQLWithContext(ctx), claims.UserID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.Unauthorized("user no longer exists")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, types.Unauthorized("user is inactive")
	}
	return user, nil
}
