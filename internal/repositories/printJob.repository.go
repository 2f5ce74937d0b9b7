package repositories

import (
	"context"
	"time"

	"filatrack/pkg/logger"

	. "filatrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrintJobRepository interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*PrintJob, error)
	GetByDateRange(ctx context.Context, tx *gorm.DB, from, to *time.Time) ([]*PrintJob, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*PrintJob, error)
	Create(ctx context.Context, tx *gorm.DB, job *PrintJob) error
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) (*PrintJob, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CountByFilament(ctx context.Context, tx *gorm.DB, filamentID uuid.UUID) (int64, error)
	CountByPrinter(ctx context.Context, tx *gorm.DB, printerID uuid.UUID) (int64, error)
}

type printJobRepository struct{}

func NewPrintJobRepository() PrintJobRepository {
	return &printJobRepository{}
}

func (r *printJobRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*PrintJob, error) {
	log := logger.NewWithContext(ctx, "printJobRepository").Function("GetAll")

	var jobs []*PrintJob
	if err := tx.WithContext(ctx).
		Preload("Printer").
		Preload("Filament").
		Order("date DESC, created_at DESC").
		Find(&jobs).Error; err != nil {
		return nil, log.Err("failed to get print jobs", err)
	}

	return jobs, nil
}

// GetByDateRange returns jobs whose date falls inside [from, to]. Either
// bound may be nil to leave that side open.
func (r *printJobRepository) GetByDateRange(
	ctx context.Context,
	tx *gorm.DB,
	from, to *time.Time,
) ([]*PrintJob, error) {
	log := logger.NewWithContext(ctx, "printJobRepository").Function("GetByDateRange")

	query := tx.WithContext(ctx).
		Preload("Printer").
		Preload("Filament").
		Order("date DESC, created_at DESC")
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		query = query.Where("date <= ?", *to)
	}

	var jobs []*PrintJob
	if err := query.Find(&jobs).Error; err != nil {
		return nil, log.Err("failed to get print jobs by date range", err)
	}

	return jobs, nil
}

func (r *printJobRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*PrintJob, error) {
	log := logger.NewWithContext(ctx, "printJobRepository").Function("GetByID")

	var job PrintJob
	if err := tx.WithContext(ctx).
		Preload("Printer").
		Preload("Filament").
		Where("id = ?", id).
		First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get print job", err, "id", id)
	}

	return &job, nil
}

func (r *printJobRepository) Create(ctx context.Context, tx *gorm.DB, job *PrintJob) error {
	log := logger.NewWithContext(ctx, "printJobRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(job).Error; err != nil {
		return log.Err("failed to create print job", err, "project", job.ProjectName)
	}

	log.Info("Print job created", "id", job.ID, "project", job.ProjectName)
	return nil
}

func (r *printJobRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) (*PrintJob, error) {
	log := logger.NewWithContext(ctx, "printJobRepository").Function("Update")

	result := tx.WithContext(ctx).Model(&PrintJob{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, log.Err("failed to update print job", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, tx, id)
}

func (r *printJobRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "printJobRepository").Function("Delete")

	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&PrintJob{})
	if result.Error != nil {
		return log.Err("failed to delete print job", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	log.Info("Print job deleted", "id", id)
	return nil
}

// CountByFilament counts jobs holding the filament in any of the four slots.
// Used as the referential guard before a spool delete.
func (r *printJobRepository) CountByFilament(
	ctx context.Context,
	tx *gorm.DB,
	filamentID uuid.UUID,
) (int64, error) {
	log := logger.NewWithContext(ctx, "printJobRepository").Function("CountByFilament")

	var count int64
	if err := tx.WithContext(ctx).Model(&PrintJob{}).
		Where(
			"filament_id = ? OR filament_id2 = ? OR filament_id3 = ? OR filament_id4 = ?",
			filamentID, filamentID, filamentID, filamentID,
		).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count jobs by filament", err, "filamentID", filamentID)
	}

	return count, nil
}

func (r *printJobRepository) CountByPrinter(
	ctx context.Context,
	tx *gorm.DB,
	printerID uuid.UUID,
) (int64, error) {
	log := logger.NewWithContext(ctx, "printJobRepository").Function("CountByPrinter")

	var count int64
	if err := tx.WithContext(ctx).Model(&PrintJob{}).
		Where("printer_id = ?", printerID).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count jobs by printer", err, "printerID", printerID)
	}

	return count, nil
}
