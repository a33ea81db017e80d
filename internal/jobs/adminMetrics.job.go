package jobs

import (
	"context"
	"vistoria/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const ADMIN_METRICS_REFRESH_JOB = "AdminMetricsRefresh"

type AdminMetricsRefreshJob struct {
	admin    *services.AdminService
	log      logger.Logger
	schedule services.Schedule
}

func NewAdminMetricsRefreshJob(
	admin *services.AdminService,
	schedule services.Schedule,
) *AdminMetricsRefreshJob {
	return &AdminMetricsRefreshJob{
		admin:    admin,
		log:      logger.New("adminMetricsRefreshJob"),
		schedule: schedule,
	}
}

func (j *AdminMetricsRefreshJob) Name() string {
	return ADMIN_METRICS_REFRESH_JOB
}

func (j *AdminMetricsRefreshJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	metrics, err := j.admin.Refresh(ctx)
	if err != nil {
		return log.Err("failed to refresh admin metrics", err)
	}

	log.Info("Admin metrics refreshed", "inspections", metrics.Totals.Inspections)
	return nil
}

func (j *AdminMetricsRefreshJob) Schedule() services.Schedule {
	return j.schedule
}
