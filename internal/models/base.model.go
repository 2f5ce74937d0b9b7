package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseUUIDModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime"       json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"       json:"updatedAt"`
	DeletedAt gorm.DeletedAt `                            json:"deletedAt"`
}

// EnsureID assigns a UUIDv7 primary key when none is set. SQLite has no
// server-side uuid default, so models call this from their BeforeCreate hooks.
func (b *BaseUUIDModel) EnsureID() error {
	if b.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		b.ID = id
	}
	return nil
}

func (b *BaseUUIDModel) BeforeCreate(tx *gorm.DB) error {
	return b.EnsureID()
}
