package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditCreate         AuditAction = "CREATE"
	AuditUpdate         AuditAction = "UPDATE"
	AuditDeactivate     AuditAction = "DEACTIVATE"
	AuditDelete         AuditAction = "DELETE"
	AuditFinalize       AuditAction = "FINALIZE"
	AuditSign           AuditAction = "SIGN"
	AuditLogin          AuditAction = "LOGIN"
	AuditSettingsUpdate AuditAction = "SETTINGS_UPDATE"
)

type AuditLog struct {
	BaseUUIDModel
	Action   AuditAction    `gorm:"type:text;not null;index" json:"action"`
	Entity   string         `gorm:"type:text;not null;index" json:"entity"`
	EntityID string         `gorm:"type:text;not null"       json:"entityId"`
	UserID   *uuid.UUID     `gorm:"type:uuid;index"          json:"userId,omitempty"`
	Data     datatypes.JSON `                                json:"data,omitempty"`
	IP       string         `gorm:"type:text"                json:"ip,omitempty"`
}
