package app

import (
	"context"
	"vistoria/config"
	"vistoria/internal/controllers"
	"vistoria/internal/database"
	"vistoria/internal/events"
	"vistoria/internal/handlers/middleware"
	"vistoria/internal/jobs"
	"vistoria/internal/repositories"
	"vistoria/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	return Build(config, db)
}

// Build wires repositories, services and controllers over an opened database.
func Build(config config.Config, db database.DB) (*App, error) {
	log := logger.New("app").Function("Build")

	eventBus := events.New(db.Cache.Events)
	repos := repositories.New(db)

	service, err := services.New(db, config, eventBus, repos)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	if err := jobs.RegisterAllJobs(service.Scheduler, config, service); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	ctrls := controllers.New(service, repos, eventBus, db)

	app := &App{
		Database:    db,
		Config:      config,
		EventBus:    eventBus,
		Services:    service,
		Repos:       repos,
		Controllers: ctrls,
		Middleware:  middleware.New(ctrls.Auth, config),
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	nilChecks := []any{
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Token,
		a.Services.Blob,
		a.Controllers.Auth,
		a.Controllers.Inspection,
		a.Controllers.Property,
		a.Repos.User,
		a.Repos.Inspection,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil && a.Services.Scheduler.IsRunning() {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
