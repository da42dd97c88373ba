package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag labels articles across categories.
type Tag struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate sets the UUID before insert.
func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
