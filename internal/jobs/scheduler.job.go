package jobs

import (
	"vistoria/config"
	"vistoria/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	service services.Service,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	metricsJob := NewAdminMetricsRefreshJob(service.Admin, services.Hourly)
	if err := schedulerService.AddJob(metricsJob); err != nil {
		return log.Err("failed to register admin metrics job", err)
	}

	if service.UploadCleanup != nil {
		cleanupJob := NewUploadCleanupJob(service.UploadCleanup, services.Daily)
		if err := schedulerService.AddJob(cleanupJob); err != nil {
			return log.Err("failed to register upload cleanup job", err)
		}
	}

	return nil
}
