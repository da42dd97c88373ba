package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"techkb/internal/model"
)

// TagRepository defines tag persistence operations.
type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindBySlug(ctx context.Context, slug string) (*model.Tag, error)
	FindOrCreateBySlugs(ctx context.Context, slugs []string) ([]model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// Create creates a new tag.
func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// Delete removes a tag.
func (r *tagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Tag{}, "id = ?", id).Error
}

// FindBySlug finds a tag by its unique slug.
func (r *tagRepository) FindBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindOrCreateBySlugs resolves tag slugs to records, creating missing ones
// with the slug as the display name.
func (r *tagRepository) FindOrCreateBySlugs(ctx context.Context, slugs []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(slugs))
	for _, slug := range slugs {
		var tag model.Tag
		err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error
		if err == gorm.ErrRecordNotFound {
			tag = model.Tag{Slug: slug, Name: slug}
			err = r.db.WithContext(ctx).Create(&tag).Error
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// List returns all tags ordered by name.
func (r *tagRepository) List(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
