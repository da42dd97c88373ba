package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"techkb/internal/auth"
	"techkb/internal/config"
	"techkb/internal/db"
	"techkb/internal/model"
	"techkb/internal/repository"
)

// defaultCategories are created on first seed so the site has sections to
// publish into.
var defaultCategories = []model.Category{
	{Slug: "networking", Name: "Networking", Description: "Connectivity, DNS, and routing solutions"},
	{Slug: "security", Name: "Security", Description: "Hardening, auth, and incident response"},
	{Slug: "databases", Name: "Databases", Description: "Storage, queries, and migrations"},
}

func main() {
	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

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

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)

	seedAdmin(ctx, userRepo)
	seedCategories(ctx, categoryRepo)

	log.Println("Seed complete")
}

func seedAdmin(ctx context.Context, userRepo repository.UserRepository) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	if existing, err := userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		log.Printf("admin %s already exists, skipping", email)
		return
	}

	if result := auth.CheckStrength(password); !result.Valid {
		slog.Error("admin password rejected", "violations", result.Errors)
		os.Exit(1)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}

	admin := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashed,
		Name:         "Administrator",
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("created admin %s", email)
}

func seedCategories(ctx context.Context, categoryRepo repository.CategoryRepository) {
	for _, category := range defaultCategories {
		_, err := categoryRepo.FindBySlug(ctx, category.Slug)
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("check category %s: %v", category.Slug, err)
		}

		c := category
		c.ID = uuid.New()
		if err := categoryRepo.Create(ctx, &c); err != nil {
			log.Fatalf("create category %s: %v", c.Slug, err)
		}
		log.Printf("created category %s", c.Slug)
	}
}
