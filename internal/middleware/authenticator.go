package middleware

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"techkb/internal/auth"
	apperrors "techkb/internal/errors"
	"techkb/internal/model"
	"techkb/internal/repository"
)

// Authenticator resolves a request's bearer token to an active user record.
type Authenticator struct {
	jwtService *auth.JWTService
	userRepo   repository.UserRepository
	logger     *slog.Logger
}

// NewAuthenticator creates a new authenticator.
func NewAuthenticator(jwtService *auth.JWTService, userRepo repository.UserRepository, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		jwtService: jwtService,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// Authenticate extracts and verifies the bearer token, then loads the
// current user record. Token validity is checked before account state on
// purpose: tokens are stateless and cannot be revoked, so a still-valid
// token for a since-disabled or since-deleted account must not authenticate.
func (a *Authenticator) Authenticate(c echo.Context) (*model.User, error) {
	token := auth.ExtractFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
	if token == "" {
		return nil, apperrors.ErrMissingToken
	}

	claims, err := a.jwtService.Verify(token)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := a.userRepo.FindByID(c.Request().Context(), userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			// Lookup failure counts as authentication failure here,
			// unlike the category gate which fails open.
			a.logger.Error("user lookup failed during authentication", "user_id", userID, "err", err)
		}
		return nil, apperrors.ErrUserNotFound
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	return user, nil
}
