package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "techkb/internal/errors"
	"techkb/internal/model"
)

// VerifiedHeader asserts prior category verification when set to exactly "true".
const VerifiedHeader = "x-category-verified"

// VerifiedCookieName returns the per-category verification cookie name.
// The gate checks presence only; the value is not validated.
func VerifiedCookieName(slug string) string {
	return "category-" + slug + "-verified"
}

// CategoryLookup resolves a category slug to its protection settings.
type CategoryLookup interface {
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
}

// CategoryGate blocks article pages of protected categories unless the
// request carries verification evidence. It is a coarse gate: password
// validation happens at the verify endpoint, which issues the cookie this
// gate later trusts.
type CategoryGate struct {
	categories CategoryLookup
	failClosed bool
	logger     *slog.Logger
}

// NewCategoryGate creates a category gate. failClosed switches lookup
// failures from allow to deny for stricter threat models.
func NewCategoryGate(categories CategoryLookup, failClosed bool, logger *slog.Logger) *CategoryGate {
	return &CategoryGate{
		categories: categories,
		failClosed: failClosed,
		logger:     logger,
	}
}

// Middleware gates the /tech-solutions/:category/:article content routes.
func (g *CategoryGate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			slug := c.Param("category")

			category, err := g.categories.GetBySlug(c.Request().Context(), slug)
			if err != nil {
				if errors.Is(err, apperrors.ErrCategoryNotFound) {
					// Unknown slug: let the article handler 404.
					return next(c)
				}
				g.logger.Error("category lookup failed at gate", "slug", slug, "err", err)
				if g.failClosed {
					return g.deny(c, slug)
				}
				// Fail open: transient lookup errors must not block content.
				return next(c)
			}

			if !category.IsProtected {
				return next(c)
			}

			if cookie, err := c.Cookie(VerifiedCookieName(slug)); err == nil && cookie != nil {
				return next(c)
			}
			if c.Request().Header.Get(VerifiedHeader) == "true" {
				return next(c)
			}

			return g.deny(c, slug)
		}
	}
}

// deny redirects to the category landing page with a marker so it can
// prompt for the category password.
func (g *CategoryGate) deny(c echo.Context, slug string) error {
	return c.Redirect(http.StatusFound, "/tech-solutions/"+slug+"?access_denied=true")
}
