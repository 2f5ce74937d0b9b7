package database

import (
	"filatrack/internal/models"
	"filatrack/pkg/logger"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.Filament{},
		&models.IdealQuantity{},
		&models.LinkGroup{},
		&models.LinkedIdentity{},
		&models.Printer{},
		&models.PrinterComponent{},
		&models.PrintJob{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}
