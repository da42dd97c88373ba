package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"techkb/internal/model"
)

// OAuthAccountRepository defines OAuth link persistence operations.
type OAuthAccountRepository interface {
	Link(ctx context.Context, account *model.OAuthAccount) error
	Unlink(ctx context.Context, userID uuid.UUID, provider string) error
	FindByProviderAccount(ctx context.Context, provider, providerAccountID string) (*model.OAuthAccount, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.OAuthAccount, error)
}

type oauthAccountRepository struct {
	db *gorm.DB
}

// NewOAuthAccountRepository creates a new OAuth account repository.
func NewOAuthAccountRepository(db *gorm.DB) OAuthAccountRepository {
	return &oauthAccountRepository{db: db}
}

// Link creates a provider link for a user.
func (r *oauthAccountRepository) Link(ctx context.Context, account *model.OAuthAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// Unlink removes a user's link for the given provider.
func (r *oauthAccountRepository) Unlink(ctx context.Context, userID uuid.UUID, provider string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		Delete(&model.OAuthAccount{}).Error
}

// FindByProviderAccount resolves a provider identity to a link record.
func (r *oauthAccountRepository) FindByProviderAccount(ctx context.Context, provider, providerAccountID string) (*model.OAuthAccount, error) {
	var account model.OAuthAccount
	if err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// ListByUser returns all provider links for a user.
func (r *oauthAccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.OAuthAccount, error) {
	var accounts []model.OAuthAccount
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
