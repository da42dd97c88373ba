package middleware

import (
	"slices"

	"github.com/labstack/echo/v4"

	apperrors "techkb/internal/errors"
	"techkb/internal/model"
)

// userContextKey is where the guard stores the authenticated user.
const userContextKey = "authenticated_user"

// RequireAuth wraps handlers with authentication and an optional role check.
// On failure the wrapped handler is never invoked. Roles are an explicit
// allow-list matched exactly: ADMIN does not satisfy an EDITOR-only route
// unless listed. Guards are ordinary echo middleware and compose by nesting.
func (a *Authenticator) RequireAuth(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := a.Authenticate(c)
			if err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}

			if len(roles) > 0 && !slices.Contains(roles, user.Role) {
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInsufficientRole)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// UserFromContext returns the user resolved by RequireAuth, if any.
func UserFromContext(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userContextKey).(*model.User)
	return user, ok
}
