package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"techkb/internal/model"
)

// ArticleFilter narrows article listings.
type ArticleFilter struct {
	CategorySlug string
	TagSlug      string
	Status       string
	AuthorID     uuid.UUID
	Offset       int
	Limit        int
}

// ArticleRepository defines article persistence operations.
type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	Update(ctx context.Context, article *model.Article) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error)
	FindBySlug(ctx context.Context, slug string) (*model.Article, error)
	List(ctx context.Context, filter ArticleFilter) ([]model.Article, int64, error)
	ReplaceTags(ctx context.Context, article *model.Article, tags []model.Tag) error
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// Create creates a new article with its tag associations.
func (r *articleRepository) Create(ctx context.Context, article *model.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

// Update updates an existing article. Tag associations are replaced
// separately via ReplaceTags.
func (r *articleRepository) Update(ctx context.Context, article *model.Article) error {
	return r.db.WithContext(ctx).Omit("Tags").Save(article).Error
}

// Delete soft-deletes an article.
func (r *articleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Article{}, "id = ?", id).Error
}

// FindByID finds an article by ID with its relations.
func (r *articleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	var article model.Article
	if err := r.db.WithContext(ctx).
		Preload("Author").Preload("Category").Preload("Tags").
		Where("id = ?", id).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// FindBySlug finds an article by its unique slug with its relations.
func (r *articleRepository) FindBySlug(ctx context.Context, slug string) (*model.Article, error) {
	var article model.Article
	if err := r.db.WithContext(ctx).
		Preload("Author").Preload("Category").Preload("Tags").
		Where("slug = ?", slug).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// List returns a filtered page of articles and the unpaged total.
func (r *articleRepository) List(ctx context.Context, filter ArticleFilter) ([]model.Article, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Article{})

	if filter.Status != "" {
		query = query.Where("articles.status = ?", filter.Status)
	}
	if filter.AuthorID != uuid.Nil {
		query = query.Where("articles.author_id = ?", filter.AuthorID)
	}
	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = articles.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.TagSlug != "" {
		query = query.Joins("JOIN article_tags ON article_tags.article_id = articles.id").
			Joins("JOIN tags ON tags.id = article_tags.tag_id").
			Where("tags.slug = ?", filter.TagSlug)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var articles []model.Article
	if err := query.
		Preload("Author").Preload("Category").Preload("Tags").
		Order("articles.created_at DESC").
		Offset(filter.Offset).Limit(limit).
		Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// ReplaceTags swaps the article's tag set.
func (r *articleRepository) ReplaceTags(ctx context.Context, article *model.Article, tags []model.Tag) error {
	return r.db.WithContext(ctx).Model(article).Association("Tags").Replace(tags)
}
