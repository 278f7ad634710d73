package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/salamchy/furniture/internal/auth"
	"github.com/salamchy/furniture/internal/config"
	"github.com/salamchy/furniture/internal/event"
	handler "github.com/salamchy/furniture/internal/handler/http"
	"github.com/salamchy/furniture/internal/media"
	"github.com/salamchy/furniture/internal/repository/postgres"
	redisrepo "github.com/salamchy/furniture/internal/repository/redis"
	"github.com/salamchy/furniture/internal/service"
	"github.com/salamchy/furniture/pkg/database"
	"github.com/salamchy/furniture/pkg/health"
	"github.com/salamchy/furniture/pkg/httpclient"
	pkgkafka "github.com/salamchy/furniture/pkg/kafka"
	"github.com/salamchy/furniture/pkg/tracing"
)

// App wires together all dependencies and runs the storefront server.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	pool            *pgxpool.Pool
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tracingShutdown, err := tracing.Init(ctx, tracing.Config{
		ServiceName:  "furniture-store",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.TracingEndpoint,
		SampleRate:   cfg.TracingSampleRate,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, database.PostgresConfig{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DBName:   cfg.PostgresDB,
		SSLMode:  cfg.PostgresSSLMode,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, postgres.Migrations, logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))

	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Image storage falls back to an in-process store when no external
	// image host is configured, which keeps local development simple.
	var storage media.Storage
	if cfg.ImageHostBaseURL != "" {
		client := httpclient.New(httpclient.DefaultConfig())
		breaker := httpclient.NewBreakerClient(client, httpclient.DefaultBreakerConfig("image-host"))
		storage = media.NewImageHost(breaker, cfg.ImageHostBaseURL, cfg.ImageHostAPIKey)
	} else {
		logger.Warn("no image host configured, storing images in memory")
		storage = media.NewMemory()
	}

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.AuthTokenTTL)*time.Hour)
	eventProducer := event.NewProducer(producer, logger)

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	postRepo := postgres.NewPostRepository(pool)
	bannerRepo := postgres.NewBannerRepository(pool)
	cartRepo := redisrepo.NewCartRepository(rdb, time.Duration(cfg.CartTTL)*time.Hour, logger)

	userService := service.NewUserService(userRepo, jwtManager, eventProducer, logger)
	productService := service.NewProductService(productRepo, storage, eventProducer, logger)
	postService := service.NewPostService(postRepo, storage, logger)
	bannerService := service.NewBannerService(bannerRepo, storage, logger)
	cartService := service.NewCartService(cartRepo, eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	router := handler.NewRouter(handler.RouterConfig{
		UserHandler:    handler.NewUserHandler(userService, time.Duration(cfg.AuthTokenTTL)*time.Hour, cfg.CookieSecure, logger),
		ProductHandler: handler.NewProductHandler(productService, logger),
		PostHandler:    handler.NewPostHandler(postService, logger),
		BannerHandler:  handler.NewBannerHandler(bannerService, logger),
		CartHandler:    handler.NewCartHandler(cartService, logger),
		HealthHandler:  healthHandler,
		JWTManager:     jwtManager,
		CORSOrigins:    cfg.CORSOrigins,
		SecureCookies:  cfg.CookieSecure,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		rdb:             rdb,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
