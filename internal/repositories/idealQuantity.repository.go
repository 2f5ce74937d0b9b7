package repositories

import (
	"context"

	"filatrack/pkg/logger"

	. "filatrack/internal/models"

	"gorm.io/gorm"
)

type IdealQuantityRepository interface {
	Set(ctx context.Context, tx *gorm.DB, identity FilamentIdentity, quantity float64) (*IdealQuantity, error)
	Get(ctx context.Context, tx *gorm.DB, identity FilamentIdentity) (float64, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*IdealQuantity, error)
}

type idealQuantityRepository struct{}

func NewIdealQuantityRepository() IdealQuantityRepository {
	return &idealQuantityRepository{}
}

// Set upserts the target for an identity: one row per (type, color, brand),
// an existing row is overwritten.
func (r *idealQuantityRepository) Set(
	ctx context.Context,
	tx *gorm.DB,
	identity FilamentIdentity,
	quantity float64,
) (*IdealQuantity, error) {
	log := logger.NewWithContext(ctx, "idealQuantityRepository").Function("Set")

	var existing IdealQuantity
	err := tx.WithContext(ctx).
		Where("type = ? AND color = ? AND brand = ?", identity.Type, identity.Color, identity.Brand).
		First(&existing).Error

	switch {
	case err == nil:
		if err := tx.WithContext(ctx).Model(&existing).
			Update("quantity", quantity).Error; err != nil {
			return nil, log.Err("failed to update ideal quantity", err, "identity", identity)
		}
		existing.Quantity = quantity
		return &existing, nil

	case err == gorm.ErrRecordNotFound:
		ideal := &IdealQuantity{
			Type:     identity.Type,
			Color:    identity.Color,
			Brand:    identity.Brand,
			Quantity: quantity,
		}
		if err := tx.WithContext(ctx).Create(ideal).Error; err != nil {
			return nil, log.Err("failed to create ideal quantity", err, "identity", identity)
		}
		log.Info("Ideal quantity created", "identity", identity, "quantity", quantity)
		return ideal, nil

	default:
		return nil, log.Err("failed to look up ideal quantity", err, "identity", identity)
	}
}

// Get returns the target for an identity, or 0 when none is set.
func (r *idealQuantityRepository) Get(
	ctx context.Context,
	tx *gorm.DB,
	identity FilamentIdentity,
) (float64, error) {
	log := logger.NewWithContext(ctx, "idealQuantityRepository").Function("Get")

	var ideal IdealQuantity
	err := tx.WithContext(ctx).
		Where("type = ? AND color = ? AND brand = ?", identity.Type, identity.Color, identity.Brand).
		First(&ideal).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, log.Err("failed to get ideal quantity", err, "identity", identity)
	}

	return ideal.Quantity, nil
}

func (r *idealQuantityRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*IdealQuantity, error) {
	log := logger.NewWithContext(ctx, "idealQuantityRepository").Function("GetAll")

	var ideals []*IdealQuantity
	if err := tx.WithContext(ctx).
		Order("type ASC, color ASC, brand ASC").
		Find(&ideals).Error; err != nil {
		return nil, log.Err("failed to get ideal quantities", err)
	}

	return ideals, nil
}
