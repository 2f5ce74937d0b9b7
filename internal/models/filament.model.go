package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FilamentIdentity is the (type, color, brand) tuple that groups spools of the
// same material. Aggregation, ideal targets and link groups all key on it.
type FilamentIdentity struct {
	Type  string `gorm:"type:text;not null" json:"type"`
	Color string `gorm:"type:text;not null" json:"color"`
	Brand string `gorm:"type:text;not null" json:"brand"`
}

func (i FilamentIdentity) IsComplete() bool {
	return i.Type != "" && i.Color != "" && i.Brand != ""
}

// Filament is a single physical spool. QuantityRemaining is mutated by job
// creation (debit), job deletion (credit) and failure restoration (credit);
// credits never re-check against SpoolWeight.
type Filament struct {
	BaseUUIDModel
	Type              string           `gorm:"type:text;not null;index:idx_filaments_identity" json:"type"`
	Color             string           `gorm:"type:text;not null;index:idx_filaments_identity" json:"color"`
	Brand             string           `gorm:"type:text;not null;index:idx_filaments_identity" json:"brand"`
	SpoolWeight       float64          `gorm:"type:real;not null"                              json:"spoolWeight"`
	QuantityRemaining float64          `gorm:"type:real;not null"                              json:"quantityRemaining"`
	Price             *decimal.Decimal `gorm:"type:decimal(10,2)"                              json:"price,omitempty"`
	PurchaseDate      *datatypes.Date  `gorm:"type:date"                                       json:"purchaseDate,omitempty"`
}

func (f *Filament) Identity() FilamentIdentity {
	return FilamentIdentity{Type: f.Type, Color: f.Color, Brand: f.Brand}
}

func (f *Filament) BeforeCreate(tx *gorm.DB) (err error) {
	if err := f.EnsureID(); err != nil {
		return err
	}
	if !f.Identity().IsComplete() {
		return gorm.ErrInvalidValue
	}
	if f.SpoolWeight <= 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}
