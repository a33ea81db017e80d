package controllers

import (
	"vistoria/internal/database"
	"vistoria/internal/events"
	"vistoria/internal/repositories"
	"vistoria/internal/services"

	adminController "vistoria/internal/controllers/admin"
	authController "vistoria/internal/controllers/auth"
	inspectionController "vistoria/internal/controllers/inspections"
	propertyController "vistoria/internal/controllers/properties"
	reportController "vistoria/internal/controllers/reports"
	settingsController "vistoria/internal/controllers/settings"
	uploadController "vistoria/internal/controllers/uploads"
	userController "vistoria/internal/controllers/users"
)

type Controllers struct {
	Auth       authController.AuthControllerInterface
	User       userController.UserControllerInterface
	Property   propertyController.PropertyControllerInterface
	Inspection inspectionController.InspectionControllerInterface
	Upload     uploadController.UploadControllerInterface
	Report     reportController.ReportControllerInterface
	Admin      adminController.AdminControllerInterface
	Settings   settingsController.SettingsControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	db database.DB,
) Controllers {
	return Controllers{
		Auth:       authController.New(repos, services, db),
		User:       userController.New(repos, services, db),
		Property:   propertyController.New(repos, services, db),
		Inspection: inspectionController.New(repos, services, eventBus, db),
		Upload:     uploadController.New(repos, services, db),
		Report:     reportController.New(services),
		Admin:      adminController.New(services),
		Settings:   settingsController.New(repos, services, db),
	}
}
