package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	apperrors "techkb/internal/errors"
	"techkb/internal/model"
)

// stubCategoryLookup serves fixed categories keyed by slug.
type stubCategoryLookup struct {
	categories map[string]*model.Category
	err        error
}

func (s *stubCategoryLookup) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	if category, ok := s.categories[slug]; ok {
		return category, nil
	}
	return nil, apperrors.ErrCategoryNotFound
}

func gateRequest(t *testing.T, gate *CategoryGate, categorySlug string, decorate func(*http.Request)) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/tech-solutions/"+categorySlug+"/some-article", nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("category", "article")
	c.SetParamValues(categorySlug, "some-article")

	reached := false
	handler := func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	}
	err := gate.Middleware()(handler)(c)
	return rec, reached, err
}

func newTestGate(lookup CategoryLookup, failClosed bool) *CategoryGate {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCategoryGate(lookup, failClosed, logger)
}

func TestCategoryGate(t *testing.T) {
	lookup := &stubCategoryLookup{categories: map[string]*model.Category{
		"open":   {Slug: "open", Name: "Open", IsProtected: false},
		"locked": {Slug: "locked", Name: "Locked", IsProtected: true, PasswordHash: "x"},
	}}

	t.Run("unknown slug allows", func(t *testing.T) {
		_, reached, err := gateRequest(t, newTestGate(lookup, false), "missing", nil)
		assert.NoError(t, err)
		assert.True(t, reached)
	})

	t.Run("unprotected category allows", func(t *testing.T) {
		_, reached, err := gateRequest(t, newTestGate(lookup, false), "open", nil)
		assert.NoError(t, err)
		assert.True(t, reached)
	})

	t.Run("protected without evidence redirects", func(t *testing.T) {
		rec, reached, err := gateRequest(t, newTestGate(lookup, false), "locked", nil)
		assert.NoError(t, err)
		assert.False(t, reached)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/tech-solutions/locked?access_denied=true", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("verification cookie allows", func(t *testing.T) {
		_, reached, err := gateRequest(t, newTestGate(lookup, false), "locked", func(req *http.Request) {
			// Presence-only check: the cookie value is not validated.
			req.AddCookie(&http.Cookie{Name: VerifiedCookieName("locked"), Value: "anything"})
		})
		assert.NoError(t, err)
		assert.True(t, reached)
	})

	t.Run("verification header allows", func(t *testing.T) {
		_, reached, err := gateRequest(t, newTestGate(lookup, false), "locked", func(req *http.Request) {
			req.Header.Set(VerifiedHeader, "true")
		})
		assert.NoError(t, err)
		assert.True(t, reached)
	})

	t.Run("header must be exactly true", func(t *testing.T) {
		rec, reached, err := gateRequest(t, newTestGate(lookup, false), "locked", func(req *http.Request) {
			req.Header.Set(VerifiedHeader, "yes")
		})
		assert.NoError(t, err)
		assert.False(t, reached)
		assert.Equal(t, http.StatusFound, rec.Code)
	})

	t.Run("cookie for another category does not allow", func(t *testing.T) {
		rec, reached, err := gateRequest(t, newTestGate(lookup, false), "locked", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: VerifiedCookieName("open"), Value: "true"})
		})
		assert.NoError(t, err)
		assert.False(t, reached)
		assert.Equal(t, http.StatusFound, rec.Code)
	})
}

func TestCategoryGate_LookupFailure(t *testing.T) {
	broken := &stubCategoryLookup{err: errors.New("datastore unreachable")}

	t.Run("fail-open allows by default", func(t *testing.T) {
		_, reached, err := gateRequest(t, newTestGate(broken, false), "locked", nil)
		assert.NoError(t, err)
		assert.True(t, reached)
	})

	t.Run("fail-closed denies when configured", func(t *testing.T) {
		rec, reached, err := gateRequest(t, newTestGate(broken, true), "locked", nil)
		assert.NoError(t, err)
		assert.False(t, reached)
		assert.Equal(t, http.StatusFound, rec.Code)
	})
}
