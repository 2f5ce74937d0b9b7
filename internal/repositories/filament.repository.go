package repositories

import (
	"context"

	"filatrack/pkg/logger"

	. "filatrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FilamentRepository interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]*Filament, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Filament, error)
	Create(ctx context.Context, tx *gorm.DB, filament *Filament) error
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]any) (*Filament, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	AdjustQuantity(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta float64) error
	ListIdentities(ctx context.Context, tx *gorm.DB) ([]FilamentIdentity, error)
}

type filamentRepository struct{}

func NewFilamentRepository() FilamentRepository {
	return &filamentRepository{}
}

func (r *filamentRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*Filament, error) {
	log := logger.NewWithContext(ctx, "filamentRepository").Function("GetAll")

	var filaments []*Filament
	if err := tx.WithContext(ctx).
		Order("type ASC, color ASC, brand ASC, created_at ASC").
		Find(&filaments).Error; err != nil {
		return nil, log.Err("failed to get filaments", err)
	}

	return filaments, nil
}

func (r *filamentRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Filament, error) {
	log := logger.NewWithContext(ctx, "filamentRepository").Function("GetByID")

	var filament Filament
	if err := tx.WithContext(ctx).Where("id = ?", id).First(&filament).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get filament", err, "id", id)
	}

	return &filament, nil
}

func (r *filamentRepository) Create(ctx context.Context, tx *gorm.DB, filament *Filament) error {
	log := logger.NewWithContext(ctx, "filamentRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(filament).Error; err != nil {
		return log.Err(
			"failed to create filament",
			err,
			"type", filament.Type,
			"color", filament.Color,
			"brand", filament.Brand,
		)
	}

	log.Info("Filament created", "id", filament.ID)
	return nil
}

func (r *filamentRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) (*Filament, error) {
	log := logger.NewWithContext(ctx, "filamentRepository").Function("Update")

	result := tx.WithContext(ctx).Model(&Filament{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, log.Err("failed to update filament", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, tx, id)
}

func (r *filamentRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "filamentRepository").Function("Delete")

	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&Filament{})
	if result.Error != nil {
		return log.Err("failed to delete filament", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	log.Info("Filament deleted", "id", id)
	return nil
}

// AdjustQuantity applies a raw delta to quantity_remaining. No clamping:
// callers validate debits, and restoration credits intentionally never
// re-check against the spool weight.
func (r *filamentRepository) AdjustQuantity(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	delta float64,
) error {
	log := logger.NewWithContext(ctx, "filamentRepository").Function("AdjustQuantity")

	result := tx.WithContext(ctx).Model(&Filament{}).
		Where("id = ?", id).
		Update("quantity_remaining", gorm.Expr("quantity_remaining + ?", delta))
	if result.Error != nil {
		return log.Err("failed to adjust filament quantity", result.Error, "id", id, "delta", delta)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *filamentRepository) ListIdentities(
	ctx context.Context,
	tx *gorm.DB,
) ([]FilamentIdentity, error) {
	log := logger.NewWithContext(ctx, "filamentRepository").Function("ListIdentities")

	var identities []FilamentIdentity
	if err := tx.WithContext(ctx).Model(&Filament{}).
		Distinct("type", "color", "brand").
		Order("type ASC, color ASC, brand ASC").
		Scan(&identities).Error; err != nil {
		return nil, log.Err("failed to list filament identities", err)
	}

	return identities, nil
}
