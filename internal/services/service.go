package services

import (
	"vistoria/config"
	"vistoria/internal/database"
	"vistoria/internal/events"
	"vistoria/internal/repositories"
)

type Service struct {
	Transaction  *TransactionService
	Scheduler    *SchedulerService
	Token        *TokenService
	Blob         BlobStore
	Settings     *SettingsService
	Mailer       Mailer
	Chat         ChatRelay
	Notification *NotificationService
	Report       *ReportService
	Admin        *AdminService
	// Nil unless uploads are kept on local disk.
	UploadCleanup *UploadCleanupService
}

func New(
	db database.DB,
	cfg config.Config,
	eventBus *events.EventBus,
	repos repositories.Repository,
) (Service, error) {
	settingsService := NewSettingsService(db, repos.Setting)
	mailer := NewSMTPMailer(cfg)
	chat := NewChatwootService(cfg, settingsService)
	notificationService := NewNotificationService(db, repos.Inspection, mailer, chat, cfg)
	adminService := NewAdminService(db, repos.Metrics)

	if err := notificationService.Register(eventBus); err != nil {
		return Service{}, err
	}
	if err := adminService.Register(eventBus); err != nil {
		return Service{}, err
	}

	var uploadCleanup *UploadCleanupService
	if cfg.StorageType == config.StorageLocal {
		uploadCleanup = NewUploadCleanupService(db, repos.Photo, cfg.UploadDir)
	}

	return Service{
		Transaction:   NewTransactionService(db),
		Scheduler:     NewSchedulerService(),
		Token:         NewTokenService(cfg),
		Blob:          NewBlobStore(cfg),
		Settings:      settingsService,
		Mailer:        mailer,
		Chat:          chat,
		Notification:  notificationService,
		Report:        NewReportService(db, repos.Inspection, cfg),
		Admin:         adminService,
		UploadCleanup: uploadCleanup,
	}, nil
}
