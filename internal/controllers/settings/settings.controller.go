package settingsController

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

const settingEntity = "setting"

type SettingRequest struct {
	Category    string `json:"category"    validate:"required,max=64"`
	Key         string `json:"key"         validate:"required,max=128"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Sensitive   bool   `json:"sensitive"`
}

type BatchRequest struct {
	Settings []SettingRequest `json:"settings" validate:"required,min=1,dive"`
}

type SettingsControllerInterface interface {
	List(ctx context.Context, category string) ([]Setting, error)
	Upsert(ctx context.Context, actor types.Actor, req SettingRequest) (*Setting, error)
	UpsertBatch(ctx context.Context, actor types.Actor, req BatchRequest) ([]Setting, error)
	Delete(ctx context.Context, actor types.Actor, id uuid.UUID) error
}

type SettingsController struct {
	settingRepo repositories.SettingRepository
	auditRepo   repositories.AuditRepository
	settings    *services.SettingsService
	transaction *services.TransactionService
	db          database.DB
	log         logger.Logger
}

func New(repos repositories.Repository, services services.Service, db database.DB) SettingsControllerInterface {
	return &SettingsController{
		settingRepo: repos.Setting,
		auditRepo:   repos.Audit,
		settings:    services.Settings,
		transaction: services.Transaction,
		db:          db,
		log:         logger.New("settingsController"),
	}
}

// List returns settings with sensitive values masked.
func (sc *SettingsController) List(ctx context.Context, category string) ([]Setting, error) {
	settings, err := sc.settingRepo.List(ctx, sc.db.SQLWithContext(ctx), strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}

	masked := make([]Setting, 0, len(settings))
	for _, setting := range settings {
		masked = append(masked, setting.Masked())
	}
	return masked, nil
}

func (sc *SettingsController) Upsert(
	ctx context.Context,
	actor types.Actor,
	req SettingRequest,
) (*Setting, error) {
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	var saved Setting
	err := sc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		setting, err := sc.upsert(ctx, tx, actor, req)
		if err != nil {
			return err
		}
		saved = *setting
		return nil
	})
	if err != nil {
		return nil, err
	}

	sc.invalidate(ctx, saved)
	masked := saved.Masked()
	return &masked, nil
}

// UpsertBatch writes every setting in one transaction; a single failure rolls back all.
func (sc *SettingsController) UpsertBatch(
	ctx context.Context,
	actor types.Actor,
	req BatchRequest,
) ([]Setting, error) {
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	saved := make([]Setting, 0, len(req.Settings))
	err := sc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		for _, item := range req.Settings {
			setting, err := sc.upsert(ctx, tx, actor, item)
			if err != nil {
				return err
			}
			saved = append(saved, *setting)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	masked := make([]Setting, 0, len(saved))
	for _, setting := range saved {
		sc.invalidate(ctx, setting)
		masked = append(masked, setting.Masked())
	}
	return masked, nil
}

// upsert keeps the stored secret when a client echoes back the masked placeholder.
func (sc *SettingsController) upsert(
	ctx context.Context,
	tx *gorm.DB,
	actor types.Actor,
	req SettingRequest,
) (*Setting, error) {
	setting := &Setting{
		Category:    strings.TrimSpace(req.Category),
		Key:         strings.TrimSpace(req.Key),
		Value:       req.Value,
		Description: req.Description,
		Sensitive:   req.Sensitive,
	}

	if req.Value == MaskedSettingValue {
		existing, err := sc.settingRepo.Get(ctx, tx, setting.Category, setting.Key)
		switch {
		case err == nil:
			setting.Value = existing.Value
		case !errors.Is(err, types.ErrNotFound):
			return nil, err
		}
	}

	if err := sc.settingRepo.Upsert(ctx, tx, setting); err != nil {
		return nil, err
	}

	if err := sc.auditRepo.Record(ctx, tx, repositories.AuditEntry{
		Action:   AuditSettingsUpdate,
		Entity:   settingEntity,
		EntityID: setting.ID.String(),
		UserID:   actor.UserID(),
		Data:     map[string]any{"category": setting.Category, "key": setting.Key},
		IP:       actor.IP,
	}); err != nil {
		return nil, err
	}

	return setting, nil
}

func (sc *SettingsController) Delete(ctx context.Context, actor types.Actor, id uuid.UUID) error {
	var deleted *Setting
	err := sc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		deleted, err = sc.settingRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := sc.settingRepo.Delete(ctx, tx, id); err != nil {
			return err
		}

		return sc.auditRepo.Record(ctx, tx, repositories.AuditEntry{
			Action:   AuditDelete,
			Entity:   settingEntity,
			EntityID: id.String(),
			UserID:   actor.UserID(),
			Data:     map[string]any{"category": deleted.Category, "key": deleted.Key},
			IP:       actor.IP,
		})
	})
	if err != nil {
		return err
	}

	sc.invalidate(ctx, *deleted)
	return nil
}

func (sc *SettingsController) invalidate(ctx context.Context, setting Setting) {
	if sc.settings == nil {
		return
	}
	sc.settings.Invalidate(ctx, setting.Category, setting.Key)
}
