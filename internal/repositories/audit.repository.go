package repositories

import (
	"context"
	"encoding/json"
	. "vistoria/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditEntry struct {
	Action   AuditAction
	Entity   string
	EntityID string
	UserID   *uuid.UUID
	Data     any
	IP       string
}

type AuditRepository interface {
	Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) error
	ListByEntity(ctx context.Context, tx *gorm.DB, entity, entityID string) ([]*AuditLog, error)
}

type auditRepository struct {
	log logger.Logger
}

func NewAuditRepository() AuditRepository {
	return &auditRepository{
		log: logger.New("auditRepository"),
	}
}

func (r *auditRepository) Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) error {
	log := r.log.Function("Record")

	auditLog := AuditLog{
		Action:   entry.Action,
		Entity:   entry.Entity,
		EntityID: entry.EntityID,
		UserID:   entry.UserID,
		IP:       entry.IP,
	}

	if entry.Data != nil {
		data, err := json.Marshal(entry.Data)
		if err != nil {
			return log.Err("failed to marshal audit data", err, "entity", entry.Entity)
		}
		auditLog.Data = datatypes.JSON(data)
	}

	if err := tx.WithContext(ctx).Create(&auditLog).Error; err != nil {
		return log.Err("failed to record audit log", err, "entity", entry.Entity, "action", entry.Action)
	}
	return nil
}

func (r *auditRepository) ListByEntity(
	ctx context.Context,
	tx *gorm.DB,
	entity, entityID string,
) ([]*AuditLog, error) {
	var logs []*AuditLog
	err := tx.WithContext(ctx).
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
