package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OAuthAccount links a user to an external identity provider account.
// Users holding only OAuth links have no local password hash.
type OAuthAccount struct {
	ID                uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID            uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Provider          string    `json:"provider" gorm:"size:100;not null;uniqueIndex:idx_provider_account"`
	ProviderAccountID string    `json:"provider_account_id" gorm:"size:255;not null;uniqueIndex:idx_provider_account"`
	CreatedAt         time.Time `json:"created_at"`
}

// BeforeCreate sets the UUID before insert.
func (a *OAuthAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
