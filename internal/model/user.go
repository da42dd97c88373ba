package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles assignable to users. Route guards list allowed roles explicitly;
// there is no implicit hierarchy between them.
const (
	RoleAdmin  = "ADMIN"
	RoleEditor = "EDITOR"
	RoleAuthor = "AUTHOR"
)

// User represents an authenticated user of the knowledge base.
type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string         `json:"-" gorm:"size:255"` // empty for OAuth-only users
	Name         string         `json:"name,omitempty" gorm:"size:255"`
	Role         string         `json:"role" gorm:"size:50;default:'AUTHOR';index"`
	IsActive     bool           `json:"is_active" gorm:"default:true;index"`
	LastLogin    *time.Time     `json:"last_login,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	OAuthAccounts []OAuthAccount `json:"oauth_accounts,omitempty" gorm:"foreignKey:UserID"`
}

// ValidRole reports whether role is one of the assignable roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleAuthor:
		return true
	}
	return false
}

// BeforeCreate sets the UUID and normalizes the email before insert.
// Emails are stored lowercased so uniqueness is case-insensitive.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(u.Email)
	return nil
}
