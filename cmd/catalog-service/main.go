package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"funstar-catalog/internal/auth"
	"funstar-catalog/internal/config"
	"funstar-catalog/internal/database"
	"funstar-catalog/internal/handler"
	applog "funstar-catalog/internal/logger"
	"funstar-catalog/internal/metrics"
	"funstar-catalog/internal/middleware"
	"funstar-catalog/internal/playback"
	"funstar-catalog/internal/repository"
	"funstar-catalog/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging
	slog.SetDefault(applog.New(cfg.Log))

	// Open the catalog store
	store, closeStore, err := repository.OpenMovieStore(cfg)
	if err != nil {
		slog.Error("failed to open catalog store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Connect to Redis (non-fatal if unavailable)
	rdb, err := database.NewRedis(context.Background(), cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
	} else {
		defer rdb.Close()
	}

	authenticator, err := newAuthenticator(cfg.Auth)
	if err != nil {
		slog.Error("failed to configure authentication", "error", err)
		os.Exit(1)
	}

	// Initialize layers
	var favStore repository.FavouriteStore = repository.NewMemoryFavouriteRepository()
	if rdb != nil {
		favStore = repository.NewRedisFavouriteRepository(rdb)
	}
	movies := service.NewMovieService(store, rdb, service.Options{
		CacheTTL:       cfg.CacheTTL,
		MaxSearchLimit: cfg.Search.MaxLimit,
	})
	favourites := service.NewFavouriteService(favStore, movies)
	mh := handler.NewMovieHandler(movies, playback.Redirect{}, cfg.MoviePatchEnabled)
	fh := handler.NewFavouriteHandler(favourites)
	rateLimiter := middleware.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window)

	// Create Fiber app
	app := fiber.New(handler.NewConfig("Funstar Catalog"))

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.Metrics())

	app.Get("/health", mh.Health)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	// API routes, served at the root and under /api
	app.Use(rateLimiter.Handler())
	app.Use(middleware.Authenticate(authenticator))
	handler.RegisterRoutes(app, mh, fh)
	handler.RegisterRoutes(app.Group("/api"), mh, fh)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down catalog service...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting catalog service", "addr", addr, "store", cfg.StoreDriver, "auth", cfg.Auth.Mode)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newAuthenticator(cfg config.AuthConfig) (auth.Authenticator, error) {
	if cfg.Mode == config.AuthJWT {
		a, err := auth.NewJWT(cfg.JWTSecret)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	return auth.Noop{}, nil
}
