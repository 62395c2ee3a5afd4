package models

import (
	"time"

	"gastocerto/internal/uuid"

	"gorm.io/gorm"
)

// Base contains the columns shared by every household-scoped table.
// Rows are immutable once written, so there is no updated_at.
type Base struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

