package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "techkb/internal/errors"
	"techkb/internal/model"
	"techkb/internal/repository"
)

// MockArticleRepository is a mock implementation of ArticleRepository.
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, article *model.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) Update(ctx context.Context, article *model.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleRepository) FindBySlug(ctx context.Context, slug string) (*model.Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleRepository) List(ctx context.Context, filter repository.ArticleFilter) ([]model.Article, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Article), args.Get(1).(int64), args.Error(2)
}

func (m *MockArticleRepository) ReplaceTags(ctx context.Context, article *model.Article, tags []model.Tag) error {
	args := m.Called(ctx, article, tags)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

// MockTagRepository is a mock implementation of TagRepository.
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) Create(ctx context.Context, tag *model.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTagRepository) FindBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagRepository) FindOrCreateBySlugs(ctx context.Context, slugs []string) ([]model.Tag, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *MockTagRepository) List(ctx context.Context) ([]model.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func TestEstimateReadTime(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "empty body floors to one minute", body: "", want: 1},
		{name: "short body", body: "a few words here", want: 1},
		{name: "exactly one minute", body: strings.Repeat("word ", 200), want: 1},
		{name: "rounds up", body: strings.Repeat("word ", 201), want: 2},
		{name: "long article", body: strings.Repeat("word ", 1000), want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateReadTime(tt.body))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "Fixing DNS Resolution", want: "fixing-dns-resolution"},
		{title: "  TLS 1.3 -- quick notes!  ", want: "tls-1-3-quick-notes"},
		{title: "already-a-slug", want: "already-a-slug"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestArticleService_Create(t *testing.T) {
	author := &model.User{ID: uuid.New(), Role: model.RoleAuthor}
	category := &model.Category{ID: uuid.New(), Slug: "networking"}

	t.Run("creates a draft with derived slug and read time", func(t *testing.T) {
		articleRepo := new(MockArticleRepository)
		categoryRepo := new(MockCategoryRepository)
		tagRepo := new(MockTagRepository)

		categoryRepo.On("FindBySlug", mock.Anything, "networking").Return(category, nil)
		articleRepo.On("FindBySlug", mock.Anything, "fixing-dns-resolution").Return(nil, gorm.ErrRecordNotFound)
		tagRepo.On("FindOrCreateBySlugs", mock.Anything, []string{"dns"}).Return([]model.Tag{{Slug: "dns", Name: "dns"}}, nil)
		articleRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Article")).Return(nil)

		svc := NewArticleService(articleRepo, categoryRepo, tagRepo)
		article, err := svc.Create(context.Background(), author, ArticleInput{
			Title:        "Fixing DNS Resolution",
			Body:         strings.Repeat("word ", 450),
			CategorySlug: "networking",
			TagSlugs:     []string{"dns"},
		})

		assert.NoError(t, err)
		assert.Equal(t, "fixing-dns-resolution", article.Slug)
		assert.Equal(t, model.StatusDraft, article.Status)
		assert.Equal(t, 3, article.ReadTime)
		assert.Equal(t, author.ID, article.AuthorID)
		assert.Equal(t, category.ID, article.CategoryID)
		articleRepo.AssertExpectations(t)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		articleRepo := new(MockArticleRepository)
		categoryRepo := new(MockCategoryRepository)
		tagRepo := new(MockTagRepository)

		categoryRepo.On("FindBySlug", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

		svc := NewArticleService(articleRepo, categoryRepo, tagRepo)
		_, err := svc.Create(context.Background(), author, ArticleInput{
			Title:        "Some Title",
			Body:         "body",
			CategorySlug: "missing",
		})
		assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
	})

	t.Run("slug collision rejected", func(t *testing.T) {
		articleRepo := new(MockArticleRepository)
		categoryRepo := new(MockCategoryRepository)
		tagRepo := new(MockTagRepository)

		categoryRepo.On("FindBySlug", mock.Anything, "networking").Return(category, nil)
		articleRepo.On("FindBySlug", mock.Anything, "taken-title").Return(&model.Article{Slug: "taken-title"}, nil)

		svc := NewArticleService(articleRepo, categoryRepo, tagRepo)
		_, err := svc.Create(context.Background(), author, ArticleInput{
			Title:        "Taken Title",
			Body:         "body",
			CategorySlug: "networking",
		})
		assert.ErrorIs(t, err, apperrors.ErrSlugTaken)
	})
}

func TestArticleService_OwnershipRule(t *testing.T) {
	owner := &model.User{ID: uuid.New(), Role: model.RoleAuthor}
	other := &model.User{ID: uuid.New(), Role: model.RoleAuthor}
	editor := &model.User{ID: uuid.New(), Role: model.RoleEditor}
	articleID := uuid.New()
	article := &model.Article{ID: articleID, Slug: "owned", Title: "Owned", AuthorID: owner.ID, Status: model.StatusDraft}

	newSvc := func() (ArticleService, *MockArticleRepository) {
		articleRepo := new(MockArticleRepository)
		articleRepo.On("FindByID", mock.Anything, articleID).Return(article, nil)
		return NewArticleService(articleRepo, new(MockCategoryRepository), new(MockTagRepository)), articleRepo
	}

	t.Run("another author cannot delete", func(t *testing.T) {
		svc, _ := newSvc()
		err := svc.Delete(context.Background(), other, articleID)
		assert.ErrorIs(t, err, apperrors.ErrNotArticleAuthor)
	})

	t.Run("owner can delete", func(t *testing.T) {
		svc, articleRepo := newSvc()
		articleRepo.On("Delete", mock.Anything, articleID).Return(nil)
		assert.NoError(t, svc.Delete(context.Background(), owner, articleID))
	})

	t.Run("editor can delete any", func(t *testing.T) {
		svc, articleRepo := newSvc()
		articleRepo.On("Delete", mock.Anything, articleID).Return(nil)
		assert.NoError(t, svc.Delete(context.Background(), editor, articleID))
	})
}

func TestArticleService_GetPublishedBySlug(t *testing.T) {
	articleRepo := new(MockArticleRepository)
	svc := NewArticleService(articleRepo, new(MockCategoryRepository), new(MockTagRepository))

	articleRepo.On("FindBySlug", mock.Anything, "draft-article").Return(&model.Article{
		Slug: "draft-article", Status: model.StatusDraft,
	}, nil)
	articleRepo.On("FindBySlug", mock.Anything, "live-article").Return(&model.Article{
		Slug: "live-article", Status: model.StatusPublished,
	}, nil)

	// Drafts are indistinguishable from missing articles for readers.
	_, err := svc.GetPublishedBySlug(context.Background(), "draft-article")
	assert.ErrorIs(t, err, apperrors.ErrArticleNotFound)

	article, err := svc.GetPublishedBySlug(context.Background(), "live-article")
	assert.NoError(t, err)
	assert.Equal(t, "live-article", article.Slug)
}
