package types

import (
	"time"

	"github.com/google/uuid"
)

type MetricTotals struct {
	Inspections      int64 `json:"inspections"`
	Finalized        int64 `json:"finalized"`
	InProgress       int64 `json:"inProgress"`
	ActiveProperties int64 `json:"activeProperties"`
	ActiveUsers      int64 `json:"activeUsers"`
	ThisMonth        int64 `json:"thisMonth"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type RecentInspection struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Address   string    `json:"address"`
	Inspector string    `json:"inspector"`
	CreatedAt time.Time `json:"createdAt"`
}

type AdminMetrics struct {
	Totals      MetricTotals       `json:"totals"`
	ByType      []TypeCount        `json:"byType"`
	Recent      []RecentInspection `json:"recent"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}
