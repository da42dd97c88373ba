package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"techkb/internal/auth"
	apperrors "techkb/internal/errors"
	"techkb/internal/model"
	"techkb/internal/repository"
)

var (
	// ErrInvalidRole is returned when a user update names an unknown role.
	ErrInvalidRole = errors.New("invalid role")
	// ErrOAuthAccountTaken is returned when a provider identity is already linked.
	ErrOAuthAccountTaken = errors.New("provider account already linked")
)

// UserUpdate carries the mutable user fields for admin updates. Nil pointers
// leave the field unchanged.
type UserUpdate struct {
	Name     *string
	Role     *string
	IsActive *bool
}

// UserService handles user administration and OAuth account links.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]model.User, error)
	Create(ctx context.Context, email, password, name, role string) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, update UserUpdate) (*model.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	ListOAuthAccounts(ctx context.Context, userID uuid.UUID) ([]model.OAuthAccount, error)
	LinkOAuthAccount(ctx context.Context, userID uuid.UUID, provider, providerAccountID string) (*model.OAuthAccount, error)
	UnlinkOAuthAccount(ctx context.Context, userID uuid.UUID, provider string) error
}

type userService struct {
	userRepo  repository.UserRepository
	oauthRepo repository.OAuthAccountRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, oauthRepo repository.OAuthAccountRepository) UserService {
	return &userService{userRepo: userRepo, oauthRepo: oauthRepo}
}

// Get retrieves a user by ID.
func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns a page of users.
func (s *userService) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.userRepo.List(ctx, offset, limit)
}

// Create adds a user with an explicit role, for admin provisioning.
func (s *userService) Create(ctx context.Context, email, password, name, role string) (*model.User, error) {
	if !model.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	email = strings.ToLower(email)
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	if result := auth.CheckStrength(password); !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, strings.Join(result.Errors, "; "))
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashed,
		Name:         name,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Update applies an admin update to a user.
func (s *userService) Update(ctx context.Context, id uuid.UUID, update UserUpdate) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Role != nil {
		if !model.ValidRole(*update.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = *update.Role
	}
	if update.IsActive != nil {
		user.IsActive = *update.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Deactivate blocks a user from authenticating. Outstanding tokens keep
// verifying but the authenticator's account-state check rejects them.
func (s *userService) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	user.IsActive = false
	return s.userRepo.Update(ctx, user)
}

// ListOAuthAccounts returns the user's provider links.
func (s *userService) ListOAuthAccounts(ctx context.Context, userID uuid.UUID) ([]model.OAuthAccount, error) {
	return s.oauthRepo.ListByUser(ctx, userID)
}

// LinkOAuthAccount attaches a provider identity to a user. A provider
// identity can only ever belong to one user.
func (s *userService) LinkOAuthAccount(ctx context.Context, userID uuid.UUID, provider, providerAccountID string) (*model.OAuthAccount, error) {
	existing, err := s.oauthRepo.FindByProviderAccount(ctx, provider, providerAccountID)
	if err == nil && existing != nil {
		return nil, ErrOAuthAccountTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check provider link: %w", err)
	}

	account := &model.OAuthAccount{
		ID:                uuid.New(),
		UserID:            userID,
		Provider:          provider,
		ProviderAccountID: providerAccountID,
	}
	if err := s.oauthRepo.Link(ctx, account); err != nil {
		return nil, fmt.Errorf("link provider account: %w", err)
	}
	return account, nil
}

// UnlinkOAuthAccount removes a provider link. Unlinking a provider that was
// never linked is a no-op.
func (s *userService) UnlinkOAuthAccount(ctx context.Context, userID uuid.UUID, provider string) error {
	return s.oauthRepo.Unlink(ctx, userID, provider)
}
