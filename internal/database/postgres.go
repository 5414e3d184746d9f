package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"funstar-catalog/internal/config"
)

// NewPostgres opens the catalog database, checks it is reachable and brings
// the schema up to date.
func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.DBName, err)
	}
	slog.Info("connected to PostgreSQL", "host", cfg.Host, "db", cfg.DBName)

	if err := RunPostgresMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// RunPostgresMigrations creates the movies table and its indexes if missing.
func RunPostgresMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS movies (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			video_url TEXT NOT NULL,
			thumbnail_url TEXT NOT NULL,
			genre TEXT[] NOT NULL DEFAULT '{}',
			duration VARCHAR(100) NOT NULL DEFAULT '',
			category VARCHAR(100) NOT NULL,
			is_trending BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,
		// Indexes for list filters and genre membership
		`CREATE INDEX IF NOT EXISTS idx_movies_category ON movies(category)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_is_trending ON movies(is_trending)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_genre ON movies USING GIN (genre)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_created_at ON movies(created_at, id)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
