package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Authentication modes.
const (
	AuthNone = "none"
	AuthJWT  = "jwt"
)

// Config holds all configuration for the catalog service.
type Config struct {
	DB        DBConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	Log       LogConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Search    SearchConfig

	Port              string
	StoreDriver       string
	CacheTTL          time.Duration
	MoviePatchEnabled bool
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// SQLiteConfig holds the gorm/SQLite store configuration.
type SQLiteConfig struct {
	Path string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LogConfig controls slog output.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// AuthConfig selects the request authenticator.
type AuthConfig struct {
	Mode      string
	JWTSecret string
}

// RateLimitConfig holds per-client request limits. Max 0 disables limiting.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

// SearchConfig holds search endpoint and search client settings.
type SearchConfig struct {
	MaxLimit   int
	Debounce   time.Duration
	CatalogURL string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	cacheTTL, _ := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "300"))
	rateLimitMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "100"))
	rateLimitWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	searchMax, _ := strconv.Atoi(getEnv("SEARCH_MAX_LIMIT", "100"))
	debounceMS, _ := strconv.Atoi(getEnv("SEARCH_DEBOUNCE_MS", "300"))
	patchEnabled, _ := strconv.ParseBool(getEnv("MOVIE_PATCH_ENABLED", "false"))

	cfg := &Config{
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "funstar_catalog"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "catalog.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   getEnv("LOG_FILE", ""),
		},
		Auth: AuthConfig{
			Mode:      getEnv("AUTH_MODE", AuthNone),
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		RateLimit: RateLimitConfig{
			Max:    rateLimitMax,
			Window: time.Duration(rateLimitWindow) * time.Second,
		},
		Search: SearchConfig{
			MaxLimit:   searchMax,
			Debounce:   time.Duration(debounceMS) * time.Millisecond,
			CatalogURL: getEnv("CATALOG_URL", "http://localhost:8080"),
		},
		Port:              getEnv("SERVER_PORT", "8080"),
		StoreDriver:       getEnv("STORE_DRIVER", DriverPostgres),
		CacheTTL:          time.Duration(cacheTTL) * time.Second,
		MoviePatchEnabled: patchEnabled,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.Auth.Mode {
	case AuthNone:
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("AUTH_MODE=jwt requires JWT_SECRET")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode)
	}
	if c.Search.Debounce <= 0 {
		c.Search.Debounce = 300 * time.Millisecond
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
