package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"techkb/internal/handler"
	"techkb/internal/middleware"
	"techkb/internal/model"
	"techkb/internal/obs"
)

// Register wires routes and middleware. Every guarded route names its
// allowed roles explicitly; there is no role hierarchy.
func Register(
	e *echo.Echo,
	authn *middleware.Authenticator,
	gate *middleware.CategoryGate,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	articleHandler *handler.ArticleHandler,
	categoryHandler *handler.CategoryHandler,
	tagHandler *handler.TagHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(obs.Instrument())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", obs.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public auth routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/me", authHandler.Me, authn.RequireAuth())
	api.GET("/me/oauth", userHandler.ListMyOAuthAccounts, authn.RequireAuth())
	api.POST("/me/oauth", userHandler.LinkMyOAuthAccount, authn.RequireAuth())
	api.DELETE("/me/oauth/:provider", userHandler.UnlinkMyOAuthAccount, authn.RequireAuth())

	// Public content routes
	api.GET("/articles", articleHandler.ListPublished)
	api.GET("/categories", categoryHandler.List)
	api.GET("/categories/:slug", categoryHandler.Get)
	api.GET("/tags", tagHandler.List)

	// Gated content pages: category slug then article slug under the fixed prefix.
	api.GET("/tech-solutions/:category/:article", articleHandler.GetContent, gate.Middleware())
	api.POST("/tech-solutions/:slug/verify", categoryHandler.Verify)

	// Editorial routes
	editor := api.Group("/editor")
	editor.GET("/articles", articleHandler.ListAll, authn.RequireAuth(model.RoleAdmin, model.RoleEditor, model.RoleAuthor))
	editor.POST("/articles", articleHandler.Create, authn.RequireAuth(model.RoleAdmin, model.RoleEditor, model.RoleAuthor))
	editor.PUT("/articles/:id", articleHandler.Update, authn.RequireAuth(model.RoleAdmin, model.RoleEditor, model.RoleAuthor))
	editor.DELETE("/articles/:id", articleHandler.Delete, authn.RequireAuth(model.RoleAdmin, model.RoleEditor, model.RoleAuthor))
	editor.POST("/articles/:id/publish", articleHandler.Publish, authn.RequireAuth(model.RoleAdmin, model.RoleEditor))
	editor.POST("/articles/:id/unpublish", articleHandler.Unpublish, authn.RequireAuth(model.RoleAdmin, model.RoleEditor))

	// Admin routes
	admin := api.Group("/admin", authn.RequireAuth(model.RoleAdmin))
	admin.GET("/users", userHandler.ListUsers)
	admin.POST("/users", userHandler.CreateUser)
	admin.GET("/users/:id", userHandler.GetUser)
	admin.PUT("/users/:id", userHandler.UpdateUser)
	admin.DELETE("/users/:id", userHandler.DeactivateUser)
	admin.POST("/categories", categoryHandler.Create)
	admin.PUT("/categories/:id", categoryHandler.Update)
	admin.DELETE("/categories/:id", categoryHandler.Delete)
	admin.POST("/categories/:id/protect", categoryHandler.Protect)
	admin.DELETE("/categories/:id/protect", categoryHandler.Unprotect)
	admin.POST("/tags", tagHandler.Create)
	admin.DELETE("/tags/:id", tagHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
