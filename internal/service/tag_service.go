package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "techkb/internal/errors"
	"techkb/internal/model"
	"techkb/internal/repository"
)

// TagService handles tag operations.
type TagService interface {
	List(ctx context.Context) ([]model.Tag, error)
	Create(ctx context.Context, name string) (*model.Tag, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type tagService struct {
	repo repository.TagRepository
}

// NewTagService creates a new tag service.
func NewTagService(repo repository.TagRepository) TagService {
	return &tagService{repo: repo}
}

// List returns all tags.
func (s *tagService) List(ctx context.Context) ([]model.Tag, error) {
	return s.repo.List(ctx)
}

// Create adds a tag with a slug derived from its name.
func (s *tagService) Create(ctx context.Context, name string) (*model.Tag, error) {
	slug := Slugify(name)
	if existing, err := s.repo.FindBySlug(ctx, slug); err == nil && existing != nil {
		return nil, apperrors.ErrSlugTaken
	}

	tag := &model.Tag{
		ID:   uuid.New(),
		Slug: slug,
		Name: name,
	}
	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

// Delete removes a tag.
func (s *tagService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrTagNotFound
		}
		return err
	}
	return nil
}
