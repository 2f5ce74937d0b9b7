package filamentController

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
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrFilamentInUse = errors.New("filament referenced by print jobs")
)

type FilamentController struct {
	filamentRepo       repositories.FilamentRepository
	jobRepo            repositories.PrintJobRepository
	transactionService *services.TransactionService
	db                 database.DB
}

type CreateFilamentRequest struct {
	Type              string           `json:"type"`
	Color             string           `json:"color"`
	Brand             string           `json:"brand"`
	SpoolWeight       float64          `json:"spoolWeight"`
	QuantityRemaining *float64         `json:"quantityRemaining,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	PurchaseDate      *string          `json:"purchaseDate,omitempty"`
}

type UpdateFilamentRequest struct {
	Type              *string          `json:"type,omitempty"`
	Color             *string          `json:"color,omitempty"`
	Brand             *string          `json:"brand,omitempty"`
	SpoolWeight       *float64         `json:"spoolWeight,omitempty"`
	QuantityRemaining *float64         `json:"quantityRemaining,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	PurchaseDate      *string          `json:"purchaseDate,omitempty"`
}

type AdjustQuantityRequest struct {
	Delta float64 `json:"delta"`
}

type FilamentControllerInterface interface {
	GetFilaments(ctx context.Context) ([]*Filament, error)
	GetFilament(ctx context.Context, id uuid.UUID) (*Filament, error)
	CreateFilament(ctx context.Context, request *CreateFilamentRequest) (*Filament, error)
	UpdateFilament(ctx context.Context, id uuid.UUID, request *UpdateFilamentRequest) (*Filament, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, request *AdjustQuantityRequest) (*Filament, error)
	DeleteFilament(ctx context.Context, id uuid.UUID) error
	ListIdentities(ctx context.Context) ([]FilamentIdentity, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) FilamentControllerInterface {
	return &FilamentController{
		filamentRepo:       repos.Filament,
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

func (c *FilamentController) GetFilaments(ctx context.Context) ([]*Filament, error) {
	return c.filamentRepo.GetAll(ctx, c.db.SQL)
}

func (c *FilamentController) GetFilament(ctx context.Context, id uuid.UUID) (*Filament, error) {
	log := logger.NewWithContext(ctx, "filamentController").Function("GetFilament")

	filament, err := c.filamentRepo.GetByID(ctx, c.db.SQL, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "filament not found", "id", id)
		}
		return nil, err
	}

	return filament, nil
}

func (c *FilamentController) CreateFilament(
	ctx context.Context,
	request *CreateFilamentRequest,
) (*Filament, error) {
	log := logger.NewWithContext(ctx, "filamentController").Function("CreateFilament")

	identity := FilamentIdentity{Type: request.Type, Color: request.Color, Brand: request.Brand}
	if !identity.IsComplete() {
		return nil, log.ErrorWithType(ErrValidation, "type, color and brand are required")
	}

	if request.SpoolWeight <= 0 {
		return nil, log.ErrorWithType(
			ErrValidation,
			"spool weight must be positive",
			"spoolWeight", request.SpoolWeight,
		)
	}

	// A new spool defaults to full
	quantity := request.SpoolWeight
	if request.QuantityRemaining != nil {
		if *request.QuantityRemaining < 0 {
			return nil, log.ErrorWithType(ErrValidation, "quantity remaining cannot be negative")
		}
		quantity = *request.QuantityRemaining
	}

	if request.Price != nil && request.Price.IsNegative() {
		return nil, log.ErrorWithType(ErrValidation, "price cannot be negative")
	}

	filament := &Filament{
		Type:              request.Type,
		Color:             request.Color,
		Brand:             request.Brand,
		SpoolWeight:       request.SpoolWeight,
		QuantityRemaining: quantity,
		Price:             request.Price,
	}

	if request.PurchaseDate != nil {
		date, err := parseDate(*request.PurchaseDate)
		if err != nil {
			return nil, log.ErrorWithType(ErrValidation, "invalid purchaseDate", "error", err)
		}
		filament.PurchaseDate = &date
	}

	if err := c.filamentRepo.Create(ctx, c.db.SQL, filament); err != nil {
		return nil, err
	}

	log.Info("Filament created", "id", filament.ID, "identity", identity)
	return filament, nil
}

func (c *FilamentController) UpdateFilament(
	ctx context.Context,
	id uuid.UUID,
	request *UpdateFilamentRequest,
) (*Filament, error) {
	log := logger.NewWithContext(ctx, "filamentController").Function("UpdateFilament")

	updates := make(map[string]any)

	if request.Type != nil {
		if *request.Type == "" {
			return nil, log.ErrorWithType(ErrValidation, "type cannot be empty")
		}
		updates["type"] = *request.Type
	}
	if request.Color != nil {
		if *request.Color == "" {
			return nil, log.ErrorWithType(ErrValidation, "color cannot be empty")
		}
		updates["color"] = *request.Color
	}
	if request.Brand != nil {
		if *request.Brand == "" {
			return nil, log.ErrorWithType(ErrValidation, "brand cannot be empty")
		}
		updates["brand"] = *request.Brand
	}
	if request.SpoolWeight != nil {
		if *request.SpoolWeight <= 0 {
			return nil, log.ErrorWithType(ErrValidation, "spool weight must be positive")
		}
		updates["spool_weight"] = *request.SpoolWeight
	}
	if request.QuantityRemaining != nil {
		if *request.QuantityRemaining < 0 {
			return nil, log.ErrorWithType(ErrValidation, "quantity remaining cannot be negative")
		}
		updates["quantity_remaining"] = *request.QuantityRemaining
	}
	if request.Price != nil {
		if request.Price.IsNegative() {
			return nil, log.ErrorWithType(ErrValidation, "price cannot be negative")
		}
		updates["price"] = *request.Price
	}
	if request.PurchaseDate != nil {
		date, err := parseDate(*request.PurchaseDate)
		if err != nil {
			return nil, log.ErrorWithType(ErrValidation, "invalid purchaseDate", "error", err)
		}
		updates["purchase_date"] = date
	}

	if len(updates) == 0 {
		return nil, log.ErrorWithType(ErrValidation, "no fields to update")
	}

	filament, err := c.filamentRepo.Update(ctx, c.db.SQL, id, updates)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "filament not found", "id", id)
		}
		return nil, err
	}

	log.Info("Filament updated", "id", id)
	return filament, nil
}

// AdjustQuantity applies a raw debit or credit to a spool. No clamping is
// applied here: job creation pre-validates its debits, and credits are
// allowed to exceed the spool weight.
func (c *FilamentController) AdjustQuantity(
	ctx context.Context,
	id uuid.UUID,
	request *AdjustQuantityRequest,
) (*Filament, error) {
	log := logger.NewWithContext(ctx, "filamentController").Function("AdjustQuantity")

	if request.Delta == 0 {
		return nil, log.ErrorWithType(ErrValidation, "delta cannot be zero")
	}

	if err := c.filamentRepo.AdjustQuantity(ctx, c.db.SQL, id, request.Delta); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, log.ErrorWithType(ErrNotFound, "filament not found", "id", id)
		}
		return nil, err
	}

	return c.filamentRepo.GetByID(ctx, c.db.SQL, id)
}

// DeleteFilament removes a spool. A spool referenced by any print job slot is
// protected: the delete fails with ErrFilamentInUse and no state changes.
func (c *FilamentController) DeleteFilament(ctx context.Context, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "filamentController").Function("DeleteFilament")

	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.filamentRepo.GetByID(ctx, tx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return log.ErrorWithType(ErrNotFound, "filament not found", "id", id)
			}
			return err
		}

		references, err := c.jobRepo.CountByFilament(ctx, tx, id)
		if err != nil {
			return err
		}
		if references > 0 {
			return log.ErrorWithType(
				ErrFilamentInUse,
				"filament is referenced by print jobs",
				"id", id,
				"jobs", references,
			)
		}

		return c.filamentRepo.Delete(ctx, tx, id)
	})
}

func (c *FilamentController) ListIdentities(ctx context.Context) ([]FilamentIdentity, error) {
	return c.filamentRepo.ListIdentities(ctx, c.db.SQL)
}
