package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"techkb/docs"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"techkb/internal/auth"
	"techkb/internal/cache"
	"techkb/internal/config"
	"techkb/internal/db"
	"techkb/internal/handler"
	"techkb/internal/middleware"
	"techkb/internal/model"
	"techkb/internal/obs"
	"techkb/internal/repository"
	"techkb/internal/router"
	"techkb/internal/service"
)

// @title Tech Solutions Knowledge Base API
// @version 1.0
// @description Knowledge base API with articles, categories, tags, JWT authentication, and password-protected sections.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(echomw.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.OAuthAccount{},
		&model.Category{},
		&model.Tag{},
		&model.Article{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	oauthRepo := repository.NewOAuthAccountRepository(gormDB)
	articleRepo := repository.NewArticleRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	tagRepo := repository.NewTagRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	authenticator := middleware.NewAuthenticator(jwtService, userRepo, logger)

	// Services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, logger)
	userService := service.NewUserService(userRepo, oauthRepo)
	articleService := service.NewArticleService(articleRepo, categoryRepo, tagRepo)
	categoryService := service.NewCategoryService(categoryRepo, cacheClient)
	tagService := service.NewTagService(tagRepo)

	gate := middleware.NewCategoryGate(categoryService, cfg.GateFailClosed, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	articleHandler := handler.NewArticleHandler(articleService)
	categoryHandler := handler.NewCategoryHandler(categoryService, cfg.VerifiedCookieTTL)
	tagHandler := handler.NewTagHandler(tagService)

	obs.Init()

	router.Register(
		e,
		authenticator,
		gate,
		authHandler,
		userHandler,
		articleHandler,
		categoryHandler,
		tagHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
