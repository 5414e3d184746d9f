package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"funstar-catalog/internal/config"
)

// sqliteDriverName is go-sqlite3 with unicode_lower(text) registered on every
// connection. SQLite's built-in LOWER folds ASCII only.
const sqliteDriverName = "sqlite3_catalog"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("unicode_lower", strings.ToLower, true)
		},
	})
}

// NewSQLite opens the SQLite catalog through gorm and runs migrations.
// Path ":memory:" gives a private in-memory database.
func NewSQLite(cfg config.SQLiteConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: cfg.Path}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single connection keeps ":memory:" databases from splitting per connection.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	slog.Info("opened SQLite database", "path", cfg.Path)

	if err := RunSQLiteMigrations(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// RunSQLiteMigrations creates the movies table and its indexes if missing.
func RunSQLiteMigrations(db *gorm.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS movies (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			video_url TEXT NOT NULL,
			thumbnail_url TEXT NOT NULL,
			genre TEXT NOT NULL DEFAULT '[]',
			duration TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			is_trending BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_category ON movies(category)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_created_at ON movies(created_at, id)`,
	}

	for _, m := range migrations {
		if err := db.Exec(m).Error; err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed", "driver", "sqlite")
	return nil
}
