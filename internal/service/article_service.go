package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "techkb/internal/errors"
	"techkb/internal/model"
	"techkb/internal/repository"
)

// readWordsPerMinute is the reading speed used to derive the read-time
// estimate from the body word count.
const readWordsPerMinute = 200

// ArticleInput carries the writable article fields.
type ArticleInput struct {
	Title        string
	Excerpt      string
	Body         string
	CategorySlug string
	TagSlugs     []string
}

// ArticleService handles article operations.
type ArticleService interface {
	GetPublishedBySlug(ctx context.Context, slug string) (*model.Article, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Article, error)
	ListPublished(ctx context.Context, categorySlug, tagSlug string, offset, limit int) ([]model.Article, int64, error)
	ListAll(ctx context.Context, filter repository.ArticleFilter) ([]model.Article, int64, error)
	Create(ctx context.Context, author *model.User, input ArticleInput) (*model.Article, error)
	Update(ctx context.Context, editor *model.User, id uuid.UUID, input ArticleInput) (*model.Article, error)
	Publish(ctx context.Context, id uuid.UUID) (*model.Article, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*model.Article, error)
	Delete(ctx context.Context, editor *model.User, id uuid.UUID) error
}

type articleService struct {
	articleRepo  repository.ArticleRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
}

// NewArticleService creates a new article service.
func NewArticleService(articleRepo repository.ArticleRepository, categoryRepo repository.CategoryRepository, tagRepo repository.TagRepository) ArticleService {
	return &articleService{
		articleRepo:  articleRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
	}
}

// GetPublishedBySlug retrieves a published article for readers. Drafts are
// indistinguishable from missing articles.
func (s *articleService) GetPublishedBySlug(ctx context.Context, slug string) (*model.Article, error) {
	article, err := s.articleRepo.FindBySlug(ctx, slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrArticleNotFound
		}
		return nil, err
	}
	if !article.Published() {
		return nil, apperrors.ErrArticleNotFound
	}
	return article, nil
}

// GetByID retrieves an article regardless of status, for editors.
func (s *articleService) GetByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrArticleNotFound
		}
		return nil, err
	}
	return article, nil
}

// ListPublished returns a page of published articles, optionally filtered by
// category or tag slug.
func (s *articleService) ListPublished(ctx context.Context, categorySlug, tagSlug string, offset, limit int) ([]model.Article, int64, error) {
	return s.articleRepo.List(ctx, repository.ArticleFilter{
		Status:       model.StatusPublished,
		CategorySlug: categorySlug,
		TagSlug:      tagSlug,
		Offset:       offset,
		Limit:        limit,
	})
}

// ListAll returns a filtered page of articles in any status, for editors.
func (s *articleService) ListAll(ctx context.Context, filter repository.ArticleFilter) ([]model.Article, int64, error) {
	return s.articleRepo.List(ctx, filter)
}

// Create adds a draft article owned by the author.
func (s *articleService) Create(ctx context.Context, author *model.User, input ArticleInput) (*model.Article, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, input.CategorySlug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, err
	}

	slug := Slugify(input.Title)
	if existing, err := s.articleRepo.FindBySlug(ctx, slug); err == nil && existing != nil {
		return nil, apperrors.ErrSlugTaken
	}

	tags, err := s.tagRepo.FindOrCreateBySlugs(ctx, input.TagSlugs)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}

	article := &model.Article{
		ID:         uuid.New(),
		Slug:       slug,
		Title:      input.Title,
		Excerpt:    input.Excerpt,
		Body:       input.Body,
		Status:     model.StatusDraft,
		ReadTime:   EstimateReadTime(input.Body),
		AuthorID:   author.ID,
		CategoryID: category.ID,
		Tags:       tags,
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return article, nil
}

// Update rewrites an article's content. Authors may only edit their own
// articles; editors and admins may edit any.
func (s *articleService) Update(ctx context.Context, editor *model.User, id uuid.UUID, input ArticleInput) (*model.Article, error) {
	article, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(editor, article); err != nil {
		return nil, err
	}

	if input.CategorySlug != "" {
		category, err := s.categoryRepo.FindBySlug(ctx, input.CategorySlug)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, err
		}
		article.CategoryID = category.ID
	}

	article.Title = input.Title
	article.Excerpt = input.Excerpt
	article.Body = input.Body
	article.ReadTime = EstimateReadTime(input.Body)

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}

	if input.TagSlugs != nil {
		tags, err := s.tagRepo.FindOrCreateBySlugs(ctx, input.TagSlugs)
		if err != nil {
			return nil, fmt.Errorf("resolve tags: %w", err)
		}
		if err := s.articleRepo.ReplaceTags(ctx, article, tags); err != nil {
			return nil, fmt.Errorf("replace tags: %w", err)
		}
		article.Tags = tags
	}

	return article, nil
}

// Publish makes an article visible to readers.
func (s *articleService) Publish(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	return s.setStatus(ctx, id, model.StatusPublished)
}

// Unpublish returns an article to draft.
func (s *articleService) Unpublish(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	return s.setStatus(ctx, id, model.StatusDraft)
}

// Delete removes an article, subject to the same ownership rule as Update.
func (s *articleService) Delete(ctx context.Context, editor *model.User, id uuid.UUID) error {
	article, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(editor, article); err != nil {
		return err
	}
	return s.articleRepo.Delete(ctx, id)
}

func (s *articleService) setStatus(ctx context.Context, id uuid.UUID, status string) (*model.Article, error) {
	article, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	article.Status = status
	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	return article, nil
}

func (s *articleService) checkOwnership(editor *model.User, article *model.Article) error {
	if editor.Role == model.RoleAuthor && article.AuthorID != editor.ID {
		return apperrors.ErrNotArticleAuthor
	}
	return nil
}

// EstimateReadTime derives a read-time estimate in minutes from the body
// word count, rounding up with a floor of one minute.
func EstimateReadTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 1
	}
	return (words + readWordsPerMinute - 1) / readWordsPerMinute
}
