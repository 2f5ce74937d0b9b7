package controllers

import (
	"filatrack/internal/database"
	"filatrack/internal/repositories"
	"filatrack/internal/services"

	backupController "filatrack/internal/controllers/backup"
	filamentController "filatrack/internal/controllers/filament"
	inventoryController "filatrack/internal/controllers/inventory"
	jobController "filatrack/internal/controllers/job"
	linkGroupController "filatrack/internal/controllers/linkgroup"
	printerController "filatrack/internal/controllers/printer"
	reportController "filatrack/internal/controllers/report"
)

type Controllers struct {
	Filament  filamentController.FilamentControllerInterface
	Printer   printerController.PrinterControllerInterface
	Job       jobController.JobControllerInterface
	LinkGroup linkGroupController.LinkGroupControllerInterface
	Inventory inventoryController.InventoryControllerInterface
	Report    reportController.ReportControllerInterface
	Backup    backupController.BackupControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	db database.DB,
) Controllers {
	return Controllers{
		Filament:  filamentController.New(repos, services, db),
		Printer:   printerController.New(repos, services, db),
		Job:       jobController.New(repos, services, db),
		LinkGroup: linkGroupController.New(repos, services, db),
		Inventory: inventoryController.New(repos, services, db),
		Report:    reportController.New(services, db),
		Backup:    backupController.New(services),
	}
}
