package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"techkb/internal/auth"
	"techkb/internal/cache"
	apperrors "techkb/internal/errors"
	"techkb/internal/model"
)

// A nil cache client behaves as a permanent miss, so these tests exercise
// the repository path directly.
func newCategoryService(repo *MockCategoryRepository) CategoryService {
	return NewCategoryService(repo, (*cache.Client)(nil))
}

func TestCategoryService_SetProtection(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := newCategoryService(repo)
	categoryID := uuid.New()

	repo.On("FindByID", mock.Anything, categoryID).
		Return(&model.Category{ID: categoryID, Slug: "security", Name: "Security"}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)

	category, err := svc.SetProtection(context.Background(), categoryID, "S3cret!pass")
	assert.NoError(t, err)
	// Both fields flip together so the gate never sees a protected
	// category without a hash.
	assert.True(t, category.IsProtected)
	assert.NotEmpty(t, category.PasswordHash)
	assert.True(t, auth.VerifyPassword("S3cret!pass", category.PasswordHash))
}

func TestCategoryService_ClearProtection(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := newCategoryService(repo)
	categoryID := uuid.New()

	hash, err := auth.HashPassword("S3cret!pass")
	assert.NoError(t, err)
	repo.On("FindByID", mock.Anything, categoryID).
		Return(&model.Category{ID: categoryID, Slug: "security", IsProtected: true, PasswordHash: hash}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)

	category, err := svc.ClearProtection(context.Background(), categoryID)
	assert.NoError(t, err)
	assert.False(t, category.IsProtected)
	assert.Empty(t, category.PasswordHash)
}

func TestCategoryService_VerifyPassword(t *testing.T) {
	hash, err := auth.HashPassword("S3cret!pass")
	assert.NoError(t, err)

	repo := new(MockCategoryRepository)
	repo.On("FindBySlug", mock.Anything, "locked").
		Return(&model.Category{Slug: "locked", IsProtected: true, PasswordHash: hash}, nil)
	repo.On("FindBySlug", mock.Anything, "open").
		Return(&model.Category{Slug: "open"}, nil)
	svc := newCategoryService(repo)

	t.Run("correct password", func(t *testing.T) {
		assert.NoError(t, svc.VerifyPassword(context.Background(), "locked", "S3cret!pass"))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := svc.VerifyPassword(context.Background(), "locked", "wrong")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCategoryPassword)
	})

	t.Run("unprotected category", func(t *testing.T) {
		err := svc.VerifyPassword(context.Background(), "open", "anything")
		assert.ErrorIs(t, err, apperrors.ErrCategoryNotProtected)
	})
}
