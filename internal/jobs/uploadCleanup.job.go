package jobs

import (
	"context"
	"vistoria/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const UPLOAD_CLEANUP_JOB = "OrphanedUploadCleanup"

type UploadCleanupJob struct {
	cleanup  *services.UploadCleanupService
	log      logger.Logger
	schedule services.Schedule
}

func NewUploadCleanupJob(
	cleanup *services.UploadCleanupService,
	schedule services.Schedule,
) *UploadCleanupJob {
	return &UploadCleanupJob{
		cleanup:  cleanup,
		log:      logger.New("uploadCleanupJob"),
		schedule: schedule,
	}
}

func (j *UploadCleanupJob) Name() string {
	return UPLOAD_CLEANUP_JOB
}

func (j *UploadCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	if _, err := j.cleanup.CleanupOrphans(ctx); err != nil {
		return log.Err("upload cleanup failed", err)
	}
	return nil
}

func (j *UploadCleanupJob) Schedule() services.Schedule {
	return j.schedule
}
