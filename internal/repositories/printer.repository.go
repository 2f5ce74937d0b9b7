package repositories

import (
	"context"

	"filatrack/pkg/logger"

	. "filatrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrinterRepository interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*Printer, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Printer, error)
	Create(ctx context.Context, tx *gorm.DB, printer *Printer) error
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) (*Printer, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	CreateComponent(ctx context.Context, tx *gorm.DB, component *PrinterComponent) error
	GetComponent(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*PrinterComponent, error)
	UpdateComponent(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) (*PrinterComponent, error)
	DeleteComponent(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	AccumulateComponentUsage(ctx context.Context, tx *gorm.DB, printerID uuid.UUID, hours float64) error
}

type printerRepository struct{}

func NewPrinterRepository() PrinterRepository {
	return &printerRepository{}
}

func (r *printerRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*Printer, error) {
	log := logger.NewWithContext(ctx, "printerRepository").Function("GetAll")

	var printers []*Printer
	if err := tx.WithContext(ctx).
		Preload("Components").
		Order("name ASC").
		Find(&printers).Error; err != nil {
		return nil, log.Err("failed to get printers", err)
	}

	return printers, nil
}

func (r *printerRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Printer, error) {
	log := logger.NewWithContext(ctx, "printerRepository").Function("GetByID")

	var printer Printer
	if err := tx.WithContext(ctx).
		Preload("Components").
		Where("id = ?", id).
		First(&printer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get printer", err, "id", id)
	}

	return &printer, nil
}

func (r *printerRepository) Create(ctx context.Context, tx *gorm.DB, printer *Printer) error {
	log := logger.NewWithContext(ctx, "printerRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(printer).Error; err != nil {
		return log.Err("failed to create printer", err, "name", printer.Name)
	}

	log.Info("Printer created", "id", printer.ID, "name", printer.Name)
	return nil
}

func (r *printerRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) (*Printer, error) {
	log := logger.NewWithContext(ctx, "printerRepository").Function("Update")

	result := tx.WithContext(ctx).Model(&Printer{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, log.Err("failed to update printer", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, tx, id)
}

// Delete removes the printer and its components. Callers guard against jobs
// still referencing the printer.
func (r *printerRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "printerRepository").Function("Delete")

	if err := tx.WithContext(ctx).
		Where("printer_id = ?", id).
		Delete(&PrinterComponent{}).Error; err != nil {
		return log.Err("failed to delete printer components", err, "printerID", id)
	}

	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&Printer{})
	if result.Error != nil {
		return log.Err("failed to delete printer", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	log.Info("Printer deleted", "id", id)
	return nil
}

func (r *printerRepository) CreateComponent(
	ctx context.Context,
	tx *gorm.DB,
	component *PrinterComponent,
) error {
	log := logger.NewWithContext(ctx, "printerRepository").Function("CreateComponent")

	if err := tx.WithContext(ctx).Create(component).Error; err != nil {
		return log.Err(
			"failed to create printer component",
			err,
			"printerID", component.PrinterID,
			"name", component.Name,
		)
	}

	log.Info("Printer component created", "id", component.ID, "name", component.Name)
	return nil
}

func (r *printerRepository) GetComponent(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*PrinterComponent, error) {
	log := logger.NewWithContext(ctx, "printerRepository").Function("GetComponent")

	var component PrinterComponent
	if err := tx.WithContext(ctx).Where("id = ?", id).First(&component).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get printer component", err, "id", id)
	}

	return &component, nil
}

func (r *printerRepository) UpdateComponent(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) (*PrinterComponent, error) {
	log := logger.NewWithContext(ctx, "printerRepository").Function("UpdateComponent")

	result := tx.WithContext(ctx).Model(&PrinterComponent{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, log.Err("failed to update printer component", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.GetComponent(ctx, tx, id)
}

func (r *printerRepository) DeleteComponent(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "printerRepository").Function("DeleteComponent")

	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&PrinterComponent{})
	if result.Error != nil {
		return log.Err("failed to delete printer component", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	log.Info("Printer component deleted", "id", id)
	return nil
}

// AccumulateComponentUsage adds a job's duration to the usage odometer of
// every component on the printer. Usage is never decremented.
func (r *printerRepository) AccumulateComponentUsage(
	ctx context.Context,
	tx *gorm.DB,
	printerID uuid.UUID,
	hours float64,
) error {
	log := logger.NewWithContext(ctx, "printerRepository").Function("AccumulateComponentUsage")

	if err := tx.WithContext(ctx).Model(&PrinterComponent{}).
		Where("printer_id = ?", printerID).
		Update("usage_hours", gorm.Expr("usage_hours + ?", hours)).Error; err != nil {
		return log.Err(
			"failed to accumulate component usage",
			err,
			"printerID", printerID,
			"hours", hours,
		)
	}

	return nil
}
