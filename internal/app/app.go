package app

import (
	"context"

	"filatrack/config"
	"filatrack/internal/controllers"
	"filatrack/internal/database"
	"filatrack/internal/repositories"
	"filatrack/internal/services"
	"filatrack/pkg/logger"
)

type App struct {
	Database    database.DB
	Config      config.Config
	Repos       repositories.Repository
	Services    services.Service
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

	if err := db.MigrateModels(); err != nil {
		return &App{}, log.Err("failed to migrate database", err)
	}

	repos := repositories.New()

	services, err := services.New(db, config, repos)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	controllers := controllers.New(services, repos, db)

	if config.SchedulerEnabled && config.BackupEnabled {
		if err := services.Scheduler.AddJob(services.Backup); err != nil {
			return &App{}, log.Err("failed to register backup job", err)
		}
		if err := services.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
		log.Info("Registered database backup job with scheduler")
	}

	app := &App{
		Database:    db,
		Config:      config,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
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

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Services.Transaction,
		a.Services.Aggregation,
		a.Services.Inventory,
		a.Services.Report,
		a.Services.Backup,
		a.Services.Scheduler,
		a.Repos.Filament,
		a.Repos.IdealQuantity,
		a.Repos.LinkGroup,
		a.Repos.Printer,
		a.Repos.PrintJob,
		a.Controllers.Filament,
		a.Controllers.Printer,
		a.Controllers.Job,
		a.Controllers.LinkGroup,
		a.Controllers.Inventory,
		a.Controllers.Report,
		a.Controllers.Backup,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
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
