// Command seed replaces the catalog with the bundled demo titles.
//
// Usage:
//
//	go run ./cmd/seed                       # load the bundled catalog
//	go run ./cmd/seed --file=catalog.json   # load a catalog from disk
//	go run ./cmd/seed --dry-run             # validate and list, no writes
//
// Every existing movie is deleted first. Run in development only.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"funstar-catalog/internal/config"
	"funstar-catalog/internal/database"
	applog "funstar-catalog/internal/logger"
	"funstar-catalog/internal/models"
	"funstar-catalog/internal/repository"
	"funstar-catalog/internal/seed"
	"funstar-catalog/internal/service"
)

func main() {
	file := flag.String("file", "", "JSON catalog to load instead of the bundled one")
	dryRun := flag.Bool("dry-run", false, "validate and print the catalog without writing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(applog.New(cfg.Log))

	movies, err := loadCatalog(*file)
	if err != nil {
		slog.Error("failed to load seed catalog", "error", err)
		os.Exit(1)
	}

	if *dryRun {
		for i, m := range movies {
			if err := m.Validate(); err != nil {
				slog.Error("invalid seed entry", "index", i, "title", m.Title, "error", err)
				os.Exit(1)
			}
			slog.Info("would create movie", "title", m.Title, "category", m.Category, "trending", m.IsTrending)
		}
		return
	}

	store, closeStore, err := repository.OpenMovieStore(cfg)
	if err != nil {
		slog.Error("failed to open catalog store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	slog.Info("start seeding", "count", len(movies), "store", cfg.StoreDriver)
	created, err := replaceCatalog(ctx, cfg, store, movies)
	for _, m := range created {
		slog.Info("created movie", "id", m.ID, "title", m.Title)
	}
	if err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seeding finished", "created", len(created))
}

// replaceCatalog seeds store through a service wired to the server's Redis
// cache, so list, search and detail entries a running server holds are dropped.
func replaceCatalog(ctx context.Context, cfg *config.Config, store repository.MovieStore, movies []models.MovieInput) ([]models.Movie, error) {
	rdb, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, server caches expire on their own", "error", err)
	} else {
		defer rdb.Close()
	}

	svc := service.NewMovieService(store, rdb, service.Options{CacheTTL: cfg.CacheTTL})
	return svc.ReplaceCatalog(ctx, movies)
}

func loadCatalog(path string) ([]models.MovieInput, error) {
	if path == "" {
		return seed.Demo()
	}
	return seed.FromFile(path)
}
