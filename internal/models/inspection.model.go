package models

import (
	"time"

	"github.com/google/uuid"
)

type InspectionType string

const (
	InspectionMoveIn   InspectionType = "MOVE_IN"
	InspectionMoveOut  InspectionType = "MOVE_OUT"
	InspectionPeriodic InspectionType = "PERIODIC"
)

func (t InspectionType) Valid() bool {
	switch t {
	case InspectionMoveIn, InspectionMoveOut, InspectionPeriodic:
		return true
	}
	return false
}

// InspectionStatus only ever moves IN_PROGRESS -> FINALIZED.
type InspectionStatus string

const (
	StatusInProgress InspectionStatus = "IN_PROGRESS"
	StatusFinalized  InspectionStatus = "FINALIZED"
)

func (s InspectionStatus) Valid() bool {
	return s == StatusInProgress || s == StatusFinalized
}

func (s InspectionStatus) Editable() bool {
	return s == StatusInProgress
}

type Inspection struct {
	BaseUUIDModel
	PropertyID         uuid.UUID        `gorm:"type:uuid;not null;index"                 json:"propertyId"`
	Property           *Property        `gorm:"foreignKey:PropertyID"                    json:"property,omitempty"`
	InspectorID        uuid.UUID        `gorm:"type:uuid;not null;index"                 json:"inspectorId"`
	Inspector          *User            `gorm:"foreignKey:InspectorID"                   json:"inspector,omitempty"`
	Type               InspectionType   `gorm:"type:text;not null;index"                 json:"type"`
	Status             InspectionStatus `gorm:"type:text;not null;default:IN_PROGRESS;index" json:"status"`
	InspectedAt        time.Time        `gorm:"not null"                                 json:"inspectedAt"`
	FinalizedAt        *time.Time       `                                                json:"finalizedAt"`
	Notes              string           `gorm:"type:text"                                json:"notes"`
	InspectorSignature string           `gorm:"type:text"                                json:"inspectorSignature,omitempty"`
	ClientSignature    string           `gorm:"type:text"                                json:"clientSignature,omitempty"`
	ClientName         string           `gorm:"type:text"                                json:"clientName,omitempty"`
	Version            int              `gorm:"not null;default:1"                       json:"version"`
	Items              []ChecklistItem  `gorm:"foreignKey:InspectionID"                  json:"items,omitempty"`
}

func (i *Inspection) IsFinalized() bool {
	return i.Status == StatusFinalized
}
