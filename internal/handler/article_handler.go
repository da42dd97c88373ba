package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "techkb/internal/errors"
	"techkb/internal/middleware"
	"techkb/internal/model"
	"techkb/internal/repository"
	"techkb/internal/service"
)

// ArticleHandler handles article endpoints.
type ArticleHandler struct {
	articleService service.ArticleService
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(articleService service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// ArticleRequest represents an article create/update payload.
type ArticleRequest struct {
	Title        string   `json:"title" validate:"required"`
	Excerpt      string   `json:"excerpt"`
	Body         string   `json:"body" validate:"required"`
	CategorySlug string   `json:"category_slug" validate:"required"`
	TagSlugs     []string `json:"tag_slugs"`
}

// ArticleListResponse represents a paged article listing.
type ArticleListResponse struct {
	Articles []model.Article `json:"articles"`
	Total    int64           `json:"total"`
	Offset   int             `json:"offset"`
	Limit    int             `json:"limit"`
}

// ListPublished godoc
// @Summary List published articles
// @Tags articles
// @Produce json
// @Param category query string false "Category slug"
// @Param tag query string false "Tag slug"
// @Param offset query int false "Offset"
// @Param limit query int false "Limit"
// @Success 200 {object} ArticleListResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /articles [get]
func (h *ArticleHandler) ListPublished(c echo.Context) error {
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	articles, total, err := h.articleService.ListPublished(
		c.Request().Context(), c.QueryParam("category"), c.QueryParam("tag"), offset, limit)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ArticleListResponse{
		Articles: articles,
		Total:    total,
		Offset:   offset,
		Limit:    limit,
	})
}

// GetContent godoc
// @Summary Read a published article page
// @Description Content route gated by the category access check.
// @Tags articles
// @Produce json
// @Param category path string true "Category slug"
// @Param article path string true "Article slug"
// @Success 200 {object} model.Article
// @Failure 302 {string} string "Redirect to the category landing page when access is denied"
// @Failure 404 {object} errors.ErrorResponse
// @Router /tech-solutions/{category}/{article} [get]
func (h *ArticleHandler) GetContent(c echo.Context) error {
	article, err := h.articleService.GetPublishedBySlug(c.Request().Context(), c.Param("article"))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	// The slug pair must agree; an article is only served under its own category.
	if article.Category == nil || article.Category.Slug != c.Param("category") {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrArticleNotFound)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, article)
}

// ListAll godoc
// @Summary List articles in any status
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param category query string false "Category slug"
// @Param offset query int false "Offset"
// @Param limit query int false "Limit"
// @Success 200 {object} ArticleListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /editor/articles [get]
func (h *ArticleHandler) ListAll(c echo.Context) error {
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	filter := repository.ArticleFilter{
		Status:       c.QueryParam("status"),
		CategorySlug: c.QueryParam("category"),
		Offset:       offset,
		Limit:        limit,
	}
	// Authors see only their own articles.
	if user, ok := middleware.UserFromContext(c); ok && user.Role == model.RoleAuthor {
		filter.AuthorID = user.ID
	}

	articles, total, err := h.articleService.ListAll(c.Request().Context(), filter)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ArticleListResponse{
		Articles: articles,
		Total:    total,
		Offset:   offset,
		Limit:    limit,
	})
}

// Create godoc
// @Summary Create a draft article
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ArticleRequest true "Article payload"
// @Success 201 {object} model.Article
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /editor/articles [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrMissingToken)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req ArticleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	article, err := h.articleService.Create(c.Request().Context(), user, service.ArticleInput{
		Title:        req.Title,
		Excerpt:      req.Excerpt,
		Body:         req.Body,
		CategorySlug: req.CategorySlug,
		TagSlugs:     req.TagSlugs,
	})
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, article)
}

// Update godoc
// @Summary Update an article
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Param request body ArticleRequest true "Article payload"
// @Success 200 {object} model.Article
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /editor/articles/{id} [put]
func (h *ArticleHandler) Update(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrMissingToken)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid article ID",
			Code:  "INVALID_UUID",
		})
	}

	var req ArticleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	article, err := h.articleService.Update(c.Request().Context(), user, id, service.ArticleInput{
		Title:        req.Title,
		Excerpt:      req.Excerpt,
		Body:         req.Body,
		CategorySlug: req.CategorySlug,
		TagSlugs:     req.TagSlugs,
	})
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, article)
}

// Publish godoc
// @Summary Publish an article
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Success 200 {object} model.Article
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /editor/articles/{id}/publish [post]
func (h *ArticleHandler) Publish(c echo.Context) error {
	return h.setStatus(c, h.articleService.Publish)
}

// Unpublish godoc
// @Summary Return an article to draft
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Success 200 {object} model.Article
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /editor/articles/{id}/unpublish [post]
func (h *ArticleHandler) Unpublish(c echo.Context) error {
	return h.setStatus(c, h.articleService.Unpublish)
}

// Delete godoc
// @Summary Delete an article
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /editor/articles/{id} [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrMissingToken)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid article ID",
			Code:  "INVALID_UUID",
		})
	}

	if err := h.articleService.Delete(c.Request().Context(), user, id); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "article deleted",
	})
}

func (h *ArticleHandler) setStatus(c echo.Context, op func(ctx context.Context, id uuid.UUID) (*model.Article, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid article ID",
			Code:  "INVALID_UUID",
		})
	}

	article, err := op(c.Request().Context(), id)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, article)
}
