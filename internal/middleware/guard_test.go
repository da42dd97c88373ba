package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"techkb/internal/auth"
	apperrors "techkb/internal/errors"
	"techkb/internal/model"
)

// stubUserRepo serves a fixed set of users for authenticator tests.
type stubUserRepo struct {
	users   map[uuid.UUID]*model.User
	findErr error
}

func (s *stubUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (s *stubUserRepo) Update(ctx context.Context, user *model.User) error { return nil }
func (s *stubUserRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }
func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	return nil, nil
}
func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}
func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestAuthenticator(repo *stubUserRepo) (*Authenticator, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthenticator(jwtService, repo, logger), jwtService
}

func doGuarded(t *testing.T, authn *Authenticator, authorization string, handlerCalls *int, roles ...string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		*handlerCalls++
		return c.String(http.StatusOK, "handler response")
	}
	err := authn.RequireAuth(roles...)(handler)(c)
	return rec, err
}

func TestRequireAuth_NoToken(t *testing.T) {
	repo := &stubUserRepo{users: map[uuid.UUID]*model.User{}}
	authn, _ := newTestAuthenticator(repo)

	calls := 0
	_, err := doGuarded(t, authn, "", &calls)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	// The wrapped handler never runs on failure.
	assert.Equal(t, 0, calls)
}

func TestRequireAuth_RoleAllowList(t *testing.T) {
	adminID := uuid.New()
	editorID := uuid.New()
	repo := &stubUserRepo{users: map[uuid.UUID]*model.User{
		adminID:  {ID: adminID, Email: "admin@example.com", Role: model.RoleAdmin, IsActive: true},
		editorID: {ID: editorID, Email: "editor@example.com", Role: model.RoleEditor, IsActive: true},
	}}
	authn, jwtService := newTestAuthenticator(repo)

	adminToken, err := jwtService.IssueAccessToken(adminID, "admin@example.com", model.RoleAdmin)
	assert.NoError(t, err)
	editorToken, err := jwtService.IssueAccessToken(editorID, "editor@example.com", model.RoleEditor)
	assert.NoError(t, err)

	t.Run("editor rejected on admin-only route", func(t *testing.T) {
		calls := 0
		_, err := doGuarded(t, authn, "Bearer "+editorToken, &calls, model.RoleAdmin)

		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)
		assert.Equal(t, 0, calls)
	})

	t.Run("admin reaches the handler unchanged", func(t *testing.T) {
		calls := 0
		rec, err := doGuarded(t, authn, "Bearer "+adminToken, &calls, model.RoleAdmin)

		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "handler response", rec.Body.String())
	})

	t.Run("no implicit hierarchy: admin not in editor-only list", func(t *testing.T) {
		calls := 0
		_, err := doGuarded(t, authn, "Bearer "+adminToken, &calls, model.RoleEditor)

		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)
		assert.Equal(t, 0, calls)
	})
}

func TestAuthenticate_DistinctFailures(t *testing.T) {
	activeID := uuid.New()
	disabledID := uuid.New()
	deletedID := uuid.New()
	repo := &stubUserRepo{users: map[uuid.UUID]*model.User{
		activeID:   {ID: activeID, Email: "active@example.com", Role: model.RoleAuthor, IsActive: true},
		disabledID: {ID: disabledID, Email: "disabled@example.com", Role: model.RoleAuthor, IsActive: false},
	}}
	authn, jwtService := newTestAuthenticator(repo)

	mustToken := func(id uuid.UUID, email string) string {
		token, err := jwtService.IssueAccessToken(id, email, model.RoleAuthor)
		assert.NoError(t, err)
		return token
	}

	tests := []struct {
		name          string
		authorization string
		expectedErr   error
	}{
		{name: "missing token", authorization: "", expectedErr: apperrors.ErrMissingToken},
		{name: "garbage token", authorization: "Bearer nope", expectedErr: apperrors.ErrInvalidToken},
		{name: "deleted user", authorization: "Bearer " + mustToken(deletedID, "gone@example.com"), expectedErr: apperrors.ErrUserNotFound},
		{
			// Valid unexpired token, but the account was disabled after issue.
			name:          "disabled account",
			authorization: "Bearer " + mustToken(disabledID, "disabled@example.com"),
			expectedErr:   apperrors.ErrAccountDisabled,
		},
		{name: "active account", authorization: "Bearer " + mustToken(activeID, "active@example.com"), expectedErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authorization != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.authorization)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			user, err := authn.Authenticate(c)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, activeID, user.ID)
			}
		})
	}
}

func TestRequireAuth_StoresUserInContext(t *testing.T) {
	userID := uuid.New()
	repo := &stubUserRepo{users: map[uuid.UUID]*model.User{
		userID: {ID: userID, Email: "user@example.com", Role: model.RoleAuthor, IsActive: true},
	}}
	authn, jwtService := newTestAuthenticator(repo)

	token, err := jwtService.IssueAccessToken(userID, "user@example.com", model.RoleAuthor)
	assert.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	c := e.NewContext(req, httptest.NewRecorder())

	handler := func(c echo.Context) error {
		user, ok := UserFromContext(c)
		assert.True(t, ok)
		assert.Equal(t, userID, user.ID)
		return c.NoContent(http.StatusOK)
	}
	assert.NoError(t, authn.RequireAuth()(handler)(c))
}
