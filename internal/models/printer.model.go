package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Printer struct {
	BaseUUIDModel
	Name             string  `gorm:"type:text;not null"           json:"name"`
	Model            *string `gorm:"type:text"                    json:"model,omitempty"`
	PowerConsumption float64 `gorm:"type:real;not null;default:0" json:"powerConsumption"` // kW
	Notes            *string `gorm:"type:text"                    json:"notes,omitempty"`

	Components []PrinterComponent `gorm:"foreignKey:PrinterID;constraint:OnDelete:CASCADE" json:"components,omitempty"`
}

// PrinterComponent tracks a wearing part (nozzle, belt, PTFE tube).
// UsageHours is an odometer: every job recorded against the printer adds its
// duration to every component, and job deletion never subtracts it.
type PrinterComponent struct {
	BaseUUIDModel
	PrinterID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_components_printer" json:"printerId"`
	Name                string          `gorm:"type:text;not null"                              json:"name"`
	InstallationDate    *datatypes.Date `gorm:"type:date"                                       json:"installationDate,omitempty"`
	ReplacementInterval *float64        `gorm:"type:real"                                       json:"replacementInterval,omitempty"` // hours
	UsageHours          float64         `gorm:"type:real;not null;default:0"                    json:"usageHours"`
}

func (p *Printer) BeforeCreate(tx *gorm.DB) (err error) {
	if err := p.EnsureID(); err != nil {
		return err
	}
	if p.Name == "" {
		return gorm.ErrInvalidValue
	}
	if p.PowerConsumption < 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}

func (c *PrinterComponent) BeforeCreate(tx *gorm.DB) (err error) {
	if err := c.EnsureID(); err != nil {
		return err
	}
	if c.PrinterID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if c.Name == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}
