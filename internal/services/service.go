package services

import (
	"filatrack/config"
	"filatrack/internal/database"
	"filatrack/internal/repositories"
)

type Service struct {
	Transaction *TransactionService
	Aggregation *AggregationService
	Inventory   *InventoryService
	Report      *ReportService
	Backup      *BackupService
	Scheduler   *SchedulerService
}

func New(db database.DB, config config.Config, repos repositories.Repository) (Service, error) {
	transactionService := NewTransactionService(db)
	aggregationService := NewAggregationService(repos.Filament)
	inventoryService := NewInventoryService(aggregationService, repos.LinkGroup, repos.IdealQuantity)
	reportService := NewReportService(repos.PrintJob, repos.Filament, repos.Printer, config)
	backupService := NewBackupService(db, config)
	schedulerService := NewSchedulerService()

	return Service{
		Transaction: transactionService,
		Aggregation: aggregationService,
		Inventory:   inventoryService,
		Report:      reportService,
		Backup:      backupService,
		Scheduler:   schedulerService,
	}, nil
}
