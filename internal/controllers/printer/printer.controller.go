package printerController

import (
	"context"
	"errors"
	"time"

	"filatrack/internal/database"
	"filatrack/internal/repositories"
	"filatrack/internal/services"
	"filatrack/pkg/logger"

	. "filatrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrPrinterInUse = errors.New("printer referenced by print jobs")
)

type PrinterController struct {
	printerRepo        repositories.PrinterRepository
	jobRepo            repositories.PrintJobRepository
	transactionService *services.TransactionService
	db                 database.DB
}

type CreatePrinterRequest struct {
	Name             string  `json:"name"`
	Model            *string `json:"model,omitempty"`
	PowerConsumption float64 `json:"powerConsumption"`
	Notes            *string `json:"notes,omitempty"`
}

type UpdatePrinterRequest struct {
	Name             *string  `json:"name,omitempty"`
	Model            *string  `json:"model,omitempty"`
	PowerConsumption *float64 `json:"powerConsumption,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
}

type CreateComponentRequest struct {
	Name                string   `json:"name"`
	InstallationDate    *string  `json:"installationDate,omitempty"`
	ReplacementInterval *float64 `json:"replacementInterval,omitempty"`
}

type UpdateComponentRequest struct {
	Name                *string  `json:"name,omitempty"`
	InstallationDate    *string  `json:"installationDate,omitempty"`
	ReplacementInterval *float64 `json:"replacementInterval,omitempty"`
	UsageHours          *float64 `json:"usageHours,omitempty"`
}

type PrinterControllerInterface interface {
	GetPrinters(ctx context.Context) ([]*Printer, error)
	GetPrinter(ctx context.Context, id uuid.UUID) (*Printer, error)
	CreatePrinter(ctx context.Context, request *CreatePrinterRequest) (*Printer, error)
	UpdatePrinter(ctx context.Context, id uuid.UUID, request *UpdatePrinterRequest) (*Printer, error)
	DeletePrinter(ctx context.Context, id uuid.UUID) error
	CreateComponent(ctx context.Context, printerID uuid.UUID, request *CreateComponentRequest) (*PrinterComponent, error)
	UpdateComponent(ctx context.Context, componentID uuid.UUID, request *UpdateComponentRequest) (*PrinterComponent, error)
	DeleteComponent(ctx context.Context, componentID uuid.UUID) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) PrinterControllerInterface {
	return &PrinterController{
		printerRepo:        repos.Printer,
		jobRepo:            repos.PrintJob,
		transactionService: services.Transaction,
		db:                 db,
	}
}

func parseDate(dateStr string) (datatypes.Date, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return datatypes.Date{}, errors.New("invalid date format, expected YYYY-MM-DD")
	}
	return datatypes.Date(t), nil
}

func (c *PrinterController) GetPrinters(ctx context.Context) ([]*Printer, error) {
	return c.printerRepo.GetAll(ctx, c.db.SQL)
}

func (c *PrinterController) GetPrinter(ctx context.Context, id uuid.UUID) (*Printer, error) {
	log := logger.NewWithContext(ctx, "printerController").Function("GetPrinter")

	printer, err := c.printerRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "printer not found", "id", id)
		}
		return nil, err
	}

	return printer, nil
}

func (c *PrinterController) CreatePrinter(
	ctx context.Context,
	request *CreatePrinterRequest,
) (*Printer, error) {
	log := logger.NewWithContext(ctx, "printerController").Function("CreatePrinter")

	if request.Name == "" {
		return nil, log.ErrorWithType(ErrValidation, "name is required")
	}
	if request.PowerConsumption < 0 {
		return nil, log.ErrorWithType(ErrValidation, "power consumption cannot be negative")
	}

	printer := &Printer{
		Name:             request.Name,
		Model:            request.Model,
		PowerConsumption: request.PowerConsumption,
		Notes:            request.Notes,
	}

	if err := c.printerRepo.Create(ctx, c.db.SQL, printer); err != nil {
		return nil, err
	}

	log.Info("Printer created", "id", printer.ID, "name", printer.Name)
	return printer, nil
}

func (c *PrinterController) UpdatePrinter(
	ctx context.Context,
	id uuid.UUID,
	request *UpdatePrinterRequest,
) (*Printer, error) {
	log := logger.NewWithContext(ctx, "printerController").Function("UpdatePrinter")

	updates := make(map[string]any)

	if request.Name != nil {
		if *request.Name == "" {
			return nil, log.ErrorWithType(ErrValidation, "name cannot be empty")
		}
		updates["name"] = *request.Name
	}
	if request.Model != nil {
		updates["model"] = *request.Model
	}
	if request.PowerConsumption != nil {
		if *request.PowerConsumption < 0 {
			return nil, log.ErrorWithType(ErrValidation, "power consumption cannot be negative")
		}
		updates["power_consumption"] = *request.PowerConsumption
	}
	if request.Notes != nil {
		updates["notes"] = *request.Notes
	}

	if len(updates) == 0 {
		return nil, log.ErrorWithType(ErrValidation, "no fields to update")
	}

	printer, err := c.printerRepo.Update(ctx, c.db.SQL, id, updates)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "printer not found", "id", id)
		}
		return nil, err
	}

	log.Info("Printer updated", "id", id)
	return printer, nil
}

// DeletePrinter removes a printer and its components. Printers referenced by
// recorded jobs are protected.
func (c *PrinterController) DeletePrinter(ctx context.Context, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "printerController").Function("DeletePrinter")

	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.printerRepo.GetByID(ctx, tx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return log.ErrorWithType(ErrNotFound, "printer not found", "id", id)
			}
			return err
		}

		references, err := c.jobRepo.CountByPrinter(ctx, tx, id)
		if err != nil {
			return err
		}
		if references > 0 {
			return log.ErrorWithType(
				ErrPrinterInUse,
				"printer is referenced by print jobs",
				"id", id,
				"jobs", references,
			)
		}

		return c.printerRepo.Delete(ctx, tx, id)
	})
}

func (c *PrinterController) CreateComponent(
	ctx context.Context,
	printerID uuid.UUID,
	request *CreateComponentRequest,
) (*PrinterComponent, error) {
	log := logger.NewWithContext(ctx, "printerController").Function("CreateComponent")

	if request.Name == "" {
		return nil, log.ErrorWithType(ErrValidation, "name is required")
	}

	if _, err := c.printerRepo.GetByID(ctx, c.db.SQL, printerID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "printer not found", "id", printerID)
		}
		return nil, err
	}

	component := &PrinterComponent{
		PrinterID:           printerID,
		Name:                request.Name,
		ReplacementInterval: request.ReplacementInterval,
	}

	if request.InstallationDate != nil {
		date, err := parseDate(*request.InstallationDate)
		if err != nil {
			return nil, log.ErrorWithType(ErrValidation, "invalid installationDate", "error", err)
		}
		component.InstallationDate = &date
	}

	if err := c.printerRepo.CreateComponent(ctx, c.db.SQL, component); err != nil {
		return nil, err
	}

	log.Info("Printer component created", "id", component.ID, "printerID", printerID)
	return component, nil
}

func (c *PrinterController) UpdateComponent(
	ctx context.Context,
	componentID uuid.UUID,
	request *UpdateComponentRequest,
) (*PrinterComponent, error) {
	log := logger.NewWithContext(ctx, "printerController").Function("UpdateComponent")

	updates := make(map[string]any)

	if request.Name != nil {
		if *request.Name == "" {
			return nil, log.ErrorWithType(ErrValidation, "name cannot be empty")
		}
		updates["name"] = *request.Name
	}
	if request.InstallationDate != nil {
		date, err := parseDate(*request.InstallationDate)
		if err != nil {
			return nil, log.ErrorWithType(ErrValidation, "invalid installationDate", "error", err)
		}
		updates["installation_date"] = date
	}
	if request.ReplacementInterval != nil {
		updates["replacement_interval"] = *request.ReplacementInterval
	}
	if request.UsageHours != nil {
		if *request.UsageHours < 0 {
			return nil, log.ErrorWithType(ErrValidation, "usage hours cannot be negative")
		}
		updates["usage_hours"] = *request.UsageHours
	}

	if len(updates) == 0 {
		return nil, log.ErrorWithType(ErrValidation, "no fields to update")
	}

	component, err := c.printerRepo.UpdateComponent(ctx, c.db.SQL, componentID, updates)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "component not found", "id", componentID)
		}
		return nil, err
	}

	return component, nil
}

func (c *PrinterController) DeleteComponent(ctx context.Context, componentID uuid.UUID) error {
	log := logger.NewWithContext(ctx, "printerController").Function("DeleteComponent")

	if err := c.printerRepo.DeleteComponent(ctx, c.db.SQL, componentID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return log.ErrorWithType(ErrNotFound, "component not found", "id", componentID)
		}
		return err
	}

	return nil
}
