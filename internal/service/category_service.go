package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"techkb/internal/auth"
	"techkb/internal/cache"
	apperrors "techkb/internal/errors"
	"techkb/internal/model"
	"techkb/internal/repository"
)

const categoryCacheTTL = 5 * time.Minute

// CategoryUpdate carries the mutable category fields. Nil pointers leave the
// field unchanged.
type CategoryUpdate struct {
	Name        *string
	Description *string
}

// CategoryService handles category operations, including the password
// protection that the access gate relies on.
type CategoryService interface {
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, name, description string) (*model.Category, error)
	Update(ctx context.Context, id uuid.UUID, update CategoryUpdate) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetProtection(ctx context.Context, id uuid.UUID, password string) (*model.Category, error)
	ClearProtection(ctx context.Context, id uuid.UUID) (*model.Category, error)
	VerifyPassword(ctx context.Context, slug, password string) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache *cache.Client
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo repository.CategoryRepository, cache *cache.Client) CategoryService {
	return &categoryService{repo: repo, cache: cache}
}

func (s *categoryService) cacheKey(slug string) string {
	return "category:slug:" + slug
}

// GetBySlug retrieves a category by slug with caching. The access gate calls
// this on every protected-content request.
func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var cached model.Category
	if s.cache.GetJSON(ctx, s.cacheKey(slug), &cached) {
		return &cached, nil
	}

	category, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, s.cacheKey(slug), category, categoryCacheTTL)
	return category, nil
}

// List returns all categories.
func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

// Create adds a category with a slug derived from its name.
func (s *categoryService) Create(ctx context.Context, name, description string) (*model.Category, error) {
	slug := Slugify(name)
	if existing, err := s.repo.FindBySlug(ctx, slug); err == nil && existing != nil {
		return nil, apperrors.ErrSlugTaken
	}

	category := &model.Category{
		ID:          uuid.New(),
		Slug:        slug,
		Name:        name,
		Description: description,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// Update applies field changes to a category.
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, update CategoryUpdate) (*model.Category, error) {
	category, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		category.Name = *update.Name
	}
	if update.Description != nil {
		category.Description = *update.Description
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	s.invalidate(ctx, category.Slug)
	return category, nil
}

// Delete removes a category.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, category.Slug)
	return nil
}

// SetProtection marks a category as password protected. The password is
// strength-checked and stored hashed; IsProtected and PasswordHash change
// together so the gate never sees a protected category without a hash.
func (s *categoryService) SetProtection(ctx context.Context, id uuid.UUID, password string) (*model.Category, error) {
	category, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	category.IsProtected = true
	category.PasswordHash = hashed
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	s.invalidate(ctx, category.Slug)
	return category, nil
}

// ClearProtection removes password protection from a category.
func (s *categoryService) ClearProtection(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.IsProtected = false
	category.PasswordHash = ""
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	s.invalidate(ctx, category.Slug)
	return category, nil
}

// VerifyPassword checks a reader-supplied password against a protected
// category. On success the handler issues the verification cookie the
// access gate trusts. Reads the repository directly: cached copies are
// serialized without the password hash.
func (s *categoryService) VerifyPassword(ctx context.Context, slug, password string) error {
	category, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrCategoryNotFound
		}
		return err
	}
	if !category.IsProtected || category.PasswordHash == "" {
		return apperrors.ErrCategoryNotProtected
	}
	if !auth.VerifyPassword(password, category.PasswordHash) {
		return apperrors.ErrInvalidCategoryPassword
	}
	return nil
}

func (s *categoryService) getByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) invalidate(ctx context.Context, slug string) {
	_ = s.cache.Delete(ctx, s.cacheKey(slug))
}
