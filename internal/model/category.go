package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups articles under a tech-solutions section. A protected
// category carries a password hash; readers must verify the password before
// the access gate lets article pages through.
type Category struct {
	ID           uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Slug         string         `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Name         string         `json:"name" gorm:"size:255;not null"`
	Description  string         `json:"description,omitempty" gorm:"type:text"`
	IsProtected  bool           `json:"is_protected" gorm:"default:false;index"`
	PasswordHash string         `json:"-" gorm:"size:255"` // set iff IsProtected
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets the UUID before insert.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
