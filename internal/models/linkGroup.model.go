package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LinkGroup bundles several filament identities under one shared ideal
// quantity target, e.g. "all black PLA" across brands.
type LinkGroup struct {
	BaseUUIDModel
	Name          string  `gorm:"type:text;not null"           json:"name"`
	Description   *string `gorm:"type:text"                    json:"description,omitempty"`
	IdealQuantity float64 `gorm:"type:real;not null;default:0" json:"idealQuantity"`

	Identities []LinkedIdentity `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"identities,omitempty"`
}

// LinkedIdentity ties one filament identity to a group. The unique index over
// (type, color, brand) enforces membership in at most one group. Links are
// plain join rows without the soft-delete column: an unlink hard-deletes the
// row so the identity is immediately free to join another group.
type LinkedIdentity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                               json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"                                     json:"createdAt"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index:idx_linked_group"          json:"groupId"`
	Type      string    `gorm:"type:text;not null;uniqueIndex:idx_linked_identity" json:"type"`
	Color     string    `gorm:"type:text;not null;uniqueIndex:idx_linked_identity" json:"color"`
	Brand     string    `gorm:"type:text;not null;uniqueIndex:idx_linked_identity" json:"brand"`
}

func (l *LinkedIdentity) Identity() FilamentIdentity {
	return FilamentIdentity{Type: l.Type, Color: l.Color, Brand: l.Brand}
}

func (g *LinkGroup) BeforeCreate(tx *gorm.DB) (err error) {
	if err := g.EnsureID(); err != nil {
		return err
	}
	if g.Name == "" {
		return gorm.ErrInvalidValue
	}
	if g.IdealQuantity < 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}

func (l *LinkedIdentity) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		l.ID = id
	}
	if l.GroupID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if !l.Identity().IsComplete() {
		return gorm.ErrInvalidValue
	}
	return nil
}
