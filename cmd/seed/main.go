// Command seed populates the database with demo catalog data for local
// development.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/salamchy/furniture/internal/config"
	"github.com/salamchy/furniture/internal/domain"
	"github.com/salamchy/furniture/internal/repository/postgres"
	"github.com/salamchy/furniture/pkg/database"
	"github.com/salamchy/furniture/pkg/logger"
)

const productsPerCategory = 8

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("furniture-seed", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, database.PostgresConfig{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DBName:   cfg.PostgresDB,
		SSLMode:  cfg.PostgresSSLMode,
	}, log)
	if err != nil {
		log.Error("connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, postgres.Migrations, log); err != nil {
		log.Error("run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := seed(ctx, pool, log); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("seed complete")
}

func seed(ctx context.Context, pool database.DBTX, log *slog.Logger) error {
	if err := seedAdmin(ctx, pool, log); err != nil {
		return err
	}
	if err := seedProducts(ctx, pool, log); err != nil {
		return err
	}
	return seedPosts(ctx, pool, log)
}

func seedAdmin(ctx context.Context, pool database.DBTX, log *slog.Logger) error {
	repo := postgres.NewUserRepository(pool)

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin-change-me"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()
	err = repo.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Username:     "admin",
		Email:        "admin@furniture.local",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// Re-running the seed against an existing database is fine.
		log.Warn("admin user not created", slog.String("error", err.Error()))
		return nil
	}

	log.Info("admin user created", slog.String("email", "admin@furniture.local"))
	return nil
}

func seedProducts(ctx context.Context, pool database.DBTX, log *slog.Logger) error {
	repo := postgres.NewProductRepository(pool)

	for _, category := range domain.ValidCategories() {
		for i := 0; i < productsPerCategory; i++ {
			now := time.Now().UTC()
			product := &domain.Product{
				ID:          uuid.NewString(),
				Name:        fmt.Sprintf("%s %s", gofakeit.AdjectiveDescriptive(), category),
				Category:    category,
				Price:       decimal.NewFromFloat(gofakeit.Price(20, 900)).Round(2),
				Description: gofakeit.Sentence(12),
				ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s-%d/600/400", category, i),
				Stock:       gofakeit.Number(1, 25),
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := repo.Create(ctx, product); err != nil {
				return fmt.Errorf("create product: %w", err)
			}
		}
		log.Info("seeded products", slog.String("category", category), slog.Int("count", productsPerCategory))
	}

	return nil
}

func seedPosts(ctx context.Context, pool database.DBTX, log *slog.Logger) error {
	repo := postgres.NewPostRepository(pool)

	for i := 0; i < 5; i++ {
		now := time.Now().UTC()
		post := &domain.Post{
			ID:    uuid.NewString(),
			Title: gofakeit.Sentence(5),
			Paragraphs: []string{
				gofakeit.Paragraph(1, 4, 10, " "),
				gofakeit.Paragraph(1, 4, 10, " "),
				gofakeit.Paragraph(1, 3, 10, " "),
			},
			ImageURL:    fmt.Sprintf("https://picsum.photos/seed/post-%d/900/500", i),
			PublishedAt: now.AddDate(0, 0, -i*3),
			UpdatedAt:   now,
		}
		if err := repo.Create(ctx, post); err != nil {
			return fmt.Errorf("create post: %w", err)
		}
	}

	log.Info("seeded posts", slog.Int("count", 5))
	return nil
}
