package repositories

import (
	"context"
	"fmt"
	"time"
	. "vistoria/internal/models"
	"vistoria/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type MetricsRepository interface {
	Totals(ctx context.Context, tx *gorm.DB, monthStart time.Time) (types.MetricTotals, error)
	CountByType(ctx context.Context, tx *gorm.DB) ([]types.TypeCount, error)
	Recent(ctx context.Context, tx *gorm.DB, limit int) ([]types.RecentInspection, error)
	PerMonth(ctx context.Context, tx *gorm.DB, now time.Time, months int) ([]types.MonthCount, error)
}

type metricsRepository struct {
	log logger.Logger
}

func NewMetricsRepository() MetricsRepository {
	return &metricsRepository{
		log: logger.New("metricsRepository"),
	}
}

func (r *metricsRepository) Totals(
	ctx context.Context,
	tx *gorm.DB,
	monthStart time.Time,
) (types.MetricTotals, error) {
	log := r.log.Function("Totals")
	db := tx.WithContext(ctx)

	var totals types.MetricTotals
	counts := []struct {
		name  string
		query *gorm.DB
		dest  *int64
	}{
		{"inspections", db.Model(&Inspection{}), &totals.Inspections},
		{"finalized", db.Model(&Inspection{}).Where("status = ?", StatusFinalized), &totals.Finalized},
		{"inProgress", db.Model(&Inspection{}).Where("status = ?", StatusInProgress), &totals.InProgress},
		{"activeProperties", db.Model(&Property{}).Where("active = ?", true), &totals.ActiveProperties},
		{"activeUsers", db.Model(&User{}).Where("is_active = ?", true), &totals.ActiveUsers},
		{"thisMonth", db.Model(&Inspection{}).Where("created_at >= ?", monthStart), &totals.ThisMonth},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return types.MetricTotals{}, log.Err("failed to count", err, "metric", c.name)
		}
	}

	return totals, nil
}

func (r *metricsRepository) CountByType(ctx context.Context, tx *gorm.DB) ([]types.TypeCount, error) {
	var rows []types.TypeCount
	err := tx.WithContext(ctx).
		Model(&Inspection{}).
		Select("type, COUNT(*) AS count").
		Group("type").
		Order("type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, r.log.Function("CountByType").Err("failed to count inspections by type", err)
	}
	return rows, nil
}

func (r *metricsRepository) Recent(
	ctx context.Context,
	tx *gorm.DB,
	limit int,
) ([]types.RecentInspection, error) {
	var inspections []*Inspection
	if err := tx.WithContext(ctx).
		Preload("Property").
		Preload("Inspector").
		Order("created_at DESC").
		Limit(limit).
		Find(&inspections).Error; err != nil {
		return nil, r.log.Function("Recent").Err("failed to load recent inspections", err)
	}

	recent := make([]types.RecentInspection, 0, len(inspections))
	for _, inspection := range inspections {
		entry := types.RecentInspection{
			ID:        inspection.ID,
			Type:      string(inspection.Type),
			Status:    string(inspection.Status),
			CreatedAt: inspection.CreatedAt,
		}
		if inspection.Property != nil {
			entry.Address = fmt.Sprintf("%s, %s", inspection.Property.Street, inspection.Property.Number)
		}
		if inspection.Inspector != nil {
			entry.Inspector = inspection.Inspector.Name
		}
		recent = append(recent, entry)
	}
	return recent, nil
}

// PerMonth buckets inspection creation times in Go so the query stays portable across drivers.
func (r *metricsRepository) PerMonth(
	ctx context.Context,
	tx *gorm.DB,
	now time.Time,
	months int,
) ([]types.MonthCount, error) {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	var createdAt []time.Time
	if err := tx.WithContext(ctx).
		Model(&Inspection{}).
		Where("created_at >= ?", first).
		Pluck("created_at", &createdAt).Error; err != nil {
		return nil, r.log.Function("PerMonth").Err("failed to load inspection dates", err)
	}

	buckets := make(map[string]int64, months)
	for _, t := range createdAt {
		buckets[t.UTC().Format("2006-01")]++
	}

	result := make([]types.MonthCount, 0, months)
	for i := range months {
		month := first.AddDate(0, i, 0).Format("2006-01")
		result = append(result, types.MonthCount{Month: month, Count: buckets[month]})
	}
	return result, nil
}
