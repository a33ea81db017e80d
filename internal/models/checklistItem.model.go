package models

import (
	"github.com/google/uuid"
)

type ItemLabel string

const (
	LabelFloor      ItemLabel = "Floor"
	LabelWalls      ItemLabel = "Walls"
	LabelCeiling    ItemLabel = "Ceiling"
	LabelDoors      ItemLabel = "Doors"
	LabelWindows    ItemLabel = "Windows"
	LabelPaint      ItemLabel = "Paint"
	LabelElectrical ItemLabel = "Electrical"
	LabelPlumbing   ItemLabel = "Plumbing"
	LabelOther      ItemLabel = "Other"
)

// ChecklistVocabulary is the fixed item set generated for every room, in display order.
var ChecklistVocabulary = []ItemLabel{
	LabelFloor,
	LabelWalls,
	LabelCeiling,
	LabelDoors,
	LabelWindows,
	LabelPaint,
	LabelElectrical,
	LabelPlumbing,
	LabelOther,
}

type Condition string

const (
	ConditionGood          Condition = "GOOD"
	ConditionFair          Condition = "FAIR"
	ConditionPoor          Condition = "POOR"
	ConditionNotApplicable Condition = "NOT_APPLICABLE"
	ConditionUnverified    Condition = "UNVERIFIED"
)

// severityOrder ranks conditions; a lower rank is a better condition.
var severityOrder = []Condition{
	ConditionGood,
	ConditionFair,
	ConditionPoor,
	ConditionNotApplicable,
	ConditionUnverified,
}

// Rank returns the position of c in the severity ordering, or -1 for unknown values.
func (c Condition) Rank() int {
	for i, candidate := range severityOrder {
		if candidate == c {
			return i
		}
	}
	return -1
}

func (c Condition) Valid() bool {
	return c.Rank() >= 0
}

// Conditions lists every condition, best first.
func Conditions() []Condition {
	return append([]Condition(nil), severityOrder...)
}

type ChecklistItem struct {
	BaseUUIDModel
	InspectionID uuid.UUID `gorm:"type:uuid;not null;index"                  json:"inspectionId"`
	RoomID       uuid.UUID `gorm:"type:uuid;not null;index"                  json:"roomId"`
	Room         *Room     `gorm:"foreignKey:RoomID"                         json:"room,omitempty"`
	Label        ItemLabel `gorm:"type:text;not null"                        json:"label"`
	Condition    Condition `gorm:"type:text;not null;default:UNVERIFIED;index" json:"condition"`
	Note         string    `gorm:"type:text"                                 json:"note"`
	SortOrder    int       `gorm:"not null;default:0"                        json:"sortOrder"`
	Photos       []Photo   `gorm:"foreignKey:ChecklistItemID"                json:"photos,omitempty"`
}

type Photo struct {
	BaseUUIDModel
	ChecklistItemID uuid.UUID `gorm:"type:uuid;not null;index" json:"checklistItemId"`
	URL             string    `gorm:"type:text;not null"       json:"url"`
	StoragePath     string    `gorm:"type:text"                json:"-"`
	Caption         string    `gorm:"type:text"                json:"caption"`
}
