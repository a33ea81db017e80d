package types

import (
	"time"

	"github.com/google/uuid"
)

type Classification string

const (
	Improved  Classification = "improved"
	Worsened  Classification = "worsened"
	Unchanged Classification = "unchanged"
)

type PhotoRef struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

type ItemSide struct {
	Condition string     `json:"condition"`
	Note      string     `json:"note,omitempty"`
	Photos    []PhotoRef `json:"photos"`
}

type ItemDiff struct {
	Room           string         `json:"room"`
	Label          string         `json:"label"`
	Entry          ItemSide       `json:"entry"`
	Exit           *ItemSide      `json:"exit"`
	Changed        bool           `json:"changed"`
	Classification Classification `json:"classification"`
}

type InspectionHeader struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	InspectedAt time.Time  `json:"inspectedAt"`
	FinalizedAt *time.Time `json:"finalizedAt"`
	Inspector   string     `json:"inspector"`
}

type Comparison struct {
	Entry    InspectionHeader `json:"entry"`
	Exit     InspectionHeader `json:"exit"`
	Property any              `json:"property"`
	Items    []ItemDiff       `json:"items"`
	Summary  ComparisonTotals `json:"summary"`
}

type ComparisonTotals struct {
	Improved  int `json:"improved"`
	Worsened  int `json:"worsened"`
	Unchanged int `json:"unchanged"`
	Missing   int `json:"missing"`
}

type RoomProgress struct {
	RoomID   uuid.UUID `json:"roomId"`
	Room     string    `json:"room"`
	Total    int       `json:"total"`
	Verified int       `json:"verified"`
}

type Progress struct {
	Total    int            `json:"total"`
	Verified int            `json:"verified"`
	Percent  int            `json:"percent"`
	Rooms    []RoomProgress `json:"rooms"`
}

type Page struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewPage(page, limit int, total int64) Page {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Page{Page: page, Limit: limit, Total: total, Pages: pages}
}
