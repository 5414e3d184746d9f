package repository

import (
	"fmt"

	"funstar-catalog/internal/config"
	"funstar-catalog/internal/database"
)

// OpenMovieStore connects the MovieStore selected by cfg.StoreDriver. The
// returned close func releases the underlying connection.
func OpenMovieStore(cfg *config.Config) (MovieStore, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.NewPostgres(cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return NewMovieRepository(db), db.Close, nil

	case config.DriverSQLite:
		db, err := database.NewSQLite(cfg.SQLite)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		return NewGormMovieRepository(db), sqlDB.Close, nil

	case config.DriverMemory:
		return NewMemoryMovieRepository(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
