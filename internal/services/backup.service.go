package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"filatrack/config"
	"filatrack/internal/database"
	"filatrack/pkg/logger"
)

// BackupService copies the database file into the configured backup
// directory. The store must be quiescent when copied: Run checkpoints the
// WAL first, and the single-writer model keeps no transaction open across
// the copy.
type BackupService struct {
	db     database.DB
	config config.Config
	log    logger.Logger
}

func NewBackupService(db database.DB, config config.Config) *BackupService {
	return &BackupService{
		db:     db,
		config: config,
		log:    logger.New("backupService"),
	}
}

// Name implements the scheduler Job interface
func (s *BackupService) Name() string { return "database-backup" }

// Schedule implements the scheduler Job interface
func (s *BackupService) Schedule() Schedule { return Daily }

// Execute implements the scheduler Job interface
func (s *BackupService) Execute(ctx context.Context) error {
	_, err := s.Run(ctx)
	return err
}

// Run copies the database file to a timestamped file in the backup directory
// and returns the destination path.
func (s *BackupService) Run(ctx context.Context) (string, error) {
	log := s.log.TraceFromContext(ctx).Function("Run")

	if s.config.BackupDirectory == "" {
		return "", log.Error("backup directory not configured")
	}

	if err := os.MkdirAll(s.config.BackupDirectory, 0o755); err != nil {
		return "", log.Err("failed to create backup directory", err, "dir", s.config.BackupDirectory)
	}

	// Flush the WAL so the main file alone is a complete snapshot
	if err := s.db.SQL.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		return "", log.Err("failed to checkpoint database before backup", err)
	}

	stamp := time.Now().UTC().Format("20060102T150405Z")
	destination := filepath.Join(
		s.config.BackupDirectory,
		fmt.Sprintf("%s.%s.bak", filepath.Base(s.db.Path), stamp),
	)

	if err := copyFile(s.db.Path, destination); err != nil {
		return "", log.Err("failed to copy database file", err, "destination", destination)
	}

	log.Info("Database backup written", "destination", destination)
	return destination, nil
}

func copyFile(source, destination string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(destination)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
