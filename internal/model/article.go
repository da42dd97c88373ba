package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article publication states.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

// Article is a knowledge-base entry belonging to a category.
type Article struct {
	ID         uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Slug       string         `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Title      string         `json:"title" gorm:"size:255;not null"`
	Excerpt    string         `json:"excerpt,omitempty" gorm:"size:500"`
	Body       string         `json:"body" gorm:"type:longtext"`
	Status     string         `json:"status" gorm:"size:20;default:'DRAFT';index"`
	ReadTime   int            `json:"read_time"` // minutes, derived from body length
	AuthorID   uuid.UUID      `json:"author_id" gorm:"type:char(36);not null;index"`
	CategoryID uuid.UUID      `json:"category_id" gorm:"type:char(36);not null;index"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Author   *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Tags     []Tag     `json:"tags,omitempty" gorm:"many2many:article_tags"`
}

// Published reports whether the article is visible to readers.
func (a *Article) Published() bool {
	return a.Status == StatusPublished
}

// BeforeCreate sets the UUID before insert.
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
