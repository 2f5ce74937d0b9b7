package inventoryController

import (
	"context"
	"errors"

	"filatrack/internal/database"
	"filatrack/internal/repositories"
	"filatrack/internal/services"
	"filatrack/pkg/logger"

	. "filatrack/internal/models"
)

var ErrValidation = errors.New("validation error")

type InventoryController struct {
	idealRepo          repositories.IdealQuantityRepository
	aggregationService *services.AggregationService
	inventoryService   *services.InventoryService
	db                 database.DB
}

type SetIdealQuantityRequest struct {
	Type     string  `json:"type"`
	Color    string  `json:"color"`
	Brand    string  `json:"brand"`
	Quantity float64 `json:"quantity"`
}

type InventoryControllerInterface interface {
	GetAggregates(ctx context.Context) ([]FilamentAggregate, error)
	GetStatus(ctx context.Context) ([]InventoryStatusEntry, error)
	SetIdealQuantity(ctx context.Context, request *SetIdealQuantityRequest) (*IdealQuantity, error)
	GetIdealQuantities(ctx context.Context) ([]*IdealQuantity, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) InventoryControllerInterface {
	return &InventoryController{
		idealRepo:          repos.IdealQuantity,
		aggregationService: services.Aggregation,
		inventoryService:   services.Inventory,
		db:                 db,
	}
}

func (c *InventoryController) GetAggregates(ctx context.Context) ([]FilamentAggregate, error) {
	return c.aggregationService.Aggregate(ctx, c.db.SQL)
}

func (c *InventoryController) GetStatus(ctx context.Context) ([]InventoryStatusEntry, error) {
	return c.inventoryService.Status(ctx, c.db.SQL)
}

// SetIdealQuantity upserts the target for an identity. A quantity of zero
// keeps the record but the identity stops producing a shortfall.
func (c *InventoryController) SetIdealQuantity(
	ctx context.Context,
	request *SetIdealQuantityRequest,
) (*IdealQuantity, error) {
	log := logger.NewWithContext(ctx, "inventoryController").Function("SetIdealQuantity")

	identity := FilamentIdentity{
		Type:  request.Type,
		Color: request.Color,
		Brand: request.Brand,
	}
	if !identity.IsComplete() {
		return nil, log.ErrorWithType(ErrValidation, "type, color, and brand are all required")
	}
	if request.Quantity < 0 {
		return nil, log.ErrorWithType(ErrValidation, "quantity cannot be negative")
	}

	ideal, err := c.idealRepo.Set(ctx, c.db.SQL, identity, request.Quantity)
	if err != nil {
		return nil, err
	}

	log.Info(
		"Ideal quantity set",
		"type", identity.Type,
		"color", identity.Color,
		"brand", identity.Brand,
		"quantity", request.Quantity,
	)
	return ideal, nil
}

func (c *InventoryController) GetIdealQuantities(ctx context.Context) ([]*IdealQuantity, error) {
	return c.idealRepo.GetAll(ctx, c.db.SQL)
}
