package models

import (
	"gorm.io/gorm"
)

// IdealQuantity is the standalone stock target for one filament identity.
// One row per identity; Set is an upsert.
type IdealQuantity struct {
	BaseUUIDModel
	Type     string  `gorm:"type:text;not null;uniqueIndex:idx_ideal_identity" json:"type"`
	Color    string  `gorm:"type:text;not null;uniqueIndex:idx_ideal_identity" json:"color"`
	Brand    string  `gorm:"type:text;not null;uniqueIndex:idx_ideal_identity" json:"brand"`
	Quantity float64 `gorm:"type:real;not null;default:0"                      json:"quantity"`
}

func (q *IdealQuantity) Identity() FilamentIdentity {
	return FilamentIdentity{Type: q.Type, Color: q.Color, Brand: q.Brand}
}

func (q *IdealQuantity) BeforeCreate(tx *gorm.DB) (err error) {
	if err := q.EnsureID(); err != nil {
		return err
	}
	if !q.Identity().IsComplete() {
		return gorm.ErrInvalidValue
	}
	if q.Quantity < 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}
