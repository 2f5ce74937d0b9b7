package backupController

import (
	"context"

	"filatrack/internal/services"
	"filatrack/pkg/logger"
)

type BackupController struct {
	backupService *services.BackupService
}

type BackupResult struct {
	Path string `json:"path"`
}

type BackupControllerInterface interface {
	RunBackup(ctx context.Context) (*BackupResult, error)
}

func New(services services.Service) BackupControllerInterface {
	return &BackupController{backupService: services.Backup}
}

func (c *BackupController) RunBackup(ctx context.Context) (*BackupResult, error) {
	log := logger.NewWithContext(ctx, "backupController").Function("RunBackup")

	path, err := c.backupService.Run(ctx)
	if err != nil {
		return nil, err
	}

	log.Info("Backup created", "path", path)
	return &BackupResult{Path: path}, nil
}
