package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const MaxFilamentSlots = 4

// PrintJob records one print. Slot 1 (FilamentID/FilamentUsed) is mandatory;
// slots 2-4 are optional. FailurePercentage is meaningful only while IsFailed
// is set. The failure transition rewrites Duration but never the stored
// FilamentUsed fields.
type PrintJob struct {
	BaseUUIDModel
	ProjectName       string         `gorm:"type:text;not null"            json:"projectName"`
	Date              datatypes.Date `gorm:"type:date;not null"            json:"date"`
	PrinterID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_jobs_printer" json:"printerId"`
	Printer           *Printer       `gorm:"foreignKey:PrinterID"          json:"printer,omitempty"`
	Duration          float64        `gorm:"type:real;not null"            json:"duration"` // hours
	Notes             *string        `gorm:"type:text"                     json:"notes,omitempty"`
	IsFailed          bool           `gorm:"type:bool;not null;default:false" json:"isFailed"`
	FailurePercentage *float64       `gorm:"type:real"                     json:"failurePercentage,omitempty"`

	FilamentID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_jobs_filament" json:"filamentId"`
	Filament      *Filament  `gorm:"foreignKey:FilamentID"                      json:"filament,omitempty"`
	FilamentUsed  float64    `gorm:"type:real;not null"                         json:"filamentUsed"` // grams
	FilamentID2   *uuid.UUID `gorm:"type:uuid;index:idx_jobs_filament2"         json:"filamentId2,omitempty"`
	FilamentUsed2 *float64   `gorm:"type:real"                                  json:"filamentUsed2,omitempty"`
	FilamentID3   *uuid.UUID `gorm:"type:uuid;index:idx_jobs_filament3"         json:"filamentId3,omitempty"`
	FilamentUsed3 *float64   `gorm:"type:real"                                  json:"filamentUsed3,omitempty"`
	FilamentID4   *uuid.UUID `gorm:"type:uuid;index:idx_jobs_filament4"         json:"filamentId4,omitempty"`
	FilamentUsed4 *float64   `gorm:"type:real"                                  json:"filamentUsed4,omitempty"`
}

// FilamentSlot is one populated (filament, grams used) pair of a job.
type FilamentSlot struct {
	Slot       int       `json:"slot"`
	FilamentID uuid.UUID `json:"filamentId"`
	Used       float64   `json:"used"`
}

// Slots returns the populated filament slots in slot order. A secondary slot
// counts as populated when both its id and its quantity are present.
func (j *PrintJob) Slots() []FilamentSlot {
	slots := []FilamentSlot{{Slot: 1, FilamentID: j.FilamentID, Used: j.FilamentUsed}}

	secondary := []struct {
		id   *uuid.UUID
		used *float64
	}{
		{j.FilamentID2, j.FilamentUsed2},
		{j.FilamentID3, j.FilamentUsed3},
		{j.FilamentID4, j.FilamentUsed4},
	}
	for i, s := range secondary {
		if s.id != nil && s.used != nil {
			slots = append(slots, FilamentSlot{Slot: i + 2, FilamentID: *s.id, Used: *s.used})
		}
	}
	return slots
}

func (j *PrintJob) BeforeCreate(tx *gorm.DB) (err error) {
	if err := j.EnsureID(); err != nil {
		return err
	}
	if j.ProjectName == "" {
		return gorm.ErrInvalidValue
	}
	if j.PrinterID == uuid.Nil || j.FilamentID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if j.Duration < 0 || j.FilamentUsed < 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}
