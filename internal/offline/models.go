package offline

import (
	"time"
	"vistoria/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Kind string

const (
	KindInspection Kind = "inspection"
	KindItemUpdate Kind = "item"
	KindPhoto      Kind = "photo"
)

func (k Kind) Valid() bool {
	switch k {
	case KindInspection, KindItemUpdate, KindPhoto:
		return true
	}
	return false
}

// InspectionPayload is the body replayed against POST /api/inspections.
type InspectionPayload struct {
	PropertyID uuid.UUID             `json:"propertyId"`
	Type       models.InspectionType `json:"type"`
	Notes      string                `json:"notes,omitempty"`
	RoomIDs    []uuid.UUID           `json:"roomIds,omitempty"`
}

// ItemPayload is the body replayed against PUT /api/inspections/:id/items/:itemId.
type ItemPayload struct {
	Condition models.Condition `json:"condition"`
	Note      *string          `json:"note,omitempty"`
}

type PendingInspection struct {
	ID        uint                                  `gorm:"primaryKey"`
	TempID    uuid.UUID                             `gorm:"type:text;not null;uniqueIndex"`
	Payload   datatypes.JSONType[InspectionPayload] `gorm:"not null"`
	Synced    bool                                  `gorm:"not null;default:false;index"`
	CreatedAt time.Time                             `gorm:"not null;index"`
}

func (PendingInspection) TableName() string { return "pending_inspections" }

// PendingItemUpdate holds at most one row per item; a newer update replaces it.
type PendingItemUpdate struct {
	ID           uint             `gorm:"primaryKey"`
	InspectionID uuid.UUID        `gorm:"type:text;not null;uniqueIndex:idx_pending_item"`
	ItemID       uuid.UUID        `gorm:"type:text;not null;uniqueIndex:idx_pending_item"`
	Condition    models.Condition `gorm:"type:text;not null"`
	Note         *string          `gorm:"type:text"`
	// Revision grows each time a newer edit replaces the queued one.
	Revision  uint      `gorm:"not null;default:1"`
	Synced    bool      `gorm:"not null;default:false;index"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (PendingItemUpdate) TableName() string { return "pending_item_updates" }

func (u PendingItemUpdate) Payload() ItemPayload {
	return ItemPayload{Condition: u.Condition, Note: u.Note}
}

type PendingPhoto struct {
	ID        uint      `gorm:"primaryKey"`
	ItemID    uuid.UUID `gorm:"type:text;not null;index"`
	Data      []byte    `gorm:"not null"`
	Caption   string    `gorm:"type:text"`
	Synced    bool      `gorm:"not null;default:false;index"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (PendingPhoto) TableName() string { return "pending_photos" }

type CacheEntry struct {
	ID        uint           `gorm:"primaryKey"`
	Key       string         `gorm:"column:cache_key;type:text;not null;uniqueIndex"`
	Value     datatypes.JSON `gorm:"not null"`
	ExpiresAt time.Time      `gorm:"not null;index"`
}

func (CacheEntry) TableName() string { return "cache_entries" }

var queueModels = []any{
	&PendingInspection{},
	&PendingItemUpdate{},
	&PendingPhoto{},
	&CacheEntry{},
}
