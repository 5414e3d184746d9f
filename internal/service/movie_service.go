package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"funstar-catalog/internal/metrics"
	"funstar-catalog/internal/models"
	"funstar-catalog/internal/repository"
)

const defaultCacheTTL = 5 * time.Minute

// Options tunes a MovieService.
type Options struct {
	CacheTTL       time.Duration
	MaxSearchLimit int
}

// MovieService handles business logic for the catalog.
type MovieService struct {
	store    repository.MovieStore
	redis    *redis.Client
	cacheTTL time.Duration
	maxLimit int
	newID    func() string
}

// NewMovieService creates a new MovieService. rdb may be nil, in which case
// every read goes to the store.
func NewMovieService(store repository.MovieStore, rdb *redis.Client, opts Options) *MovieService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.MaxSearchLimit < 1 {
		opts.MaxSearchLimit = models.MaxSearchLimit
	}
	return &MovieService{
		store:    store,
		redis:    rdb,
		cacheTTL: opts.CacheTTL,
		maxLimit: opts.MaxSearchLimit,
		newID:    uuid.NewString,
	}
}

// ListMovies returns the movies matching filter.
func (s *MovieService) ListMovies(ctx context.Context, filter models.ListFilter) ([]models.Movie, error) {
	category := filter.Category
	if !filter.HasCategory() {
		category = models.CategoryAll
	}
	cacheKey := fmt.Sprintf("movies:list:%s:%t", category, filter.Trending)

	var cached []models.Movie
	if s.readCache(ctx, "list", cacheKey, &cached) {
		return cached, nil
	}

	movies, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	s.writeCache(ctx, cacheKey, movies)
	return movies, nil
}

// GetMovie returns a movie by ID.
func (s *MovieService) GetMovie(ctx context.Context, id string) (*models.Movie, error) {
	cacheKey := detailKey(id)

	var cached models.Movie
	if s.readCache(ctx, "detail", cacheKey, &cached) {
		return &cached, nil
	}

	movie, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	s.writeCache(ctx, cacheKey, movie)
	return movie, nil
}

// CreateMovie validates in, assigns a new ID and stores the movie.
func (s *MovieService) CreateMovie(ctx context.Context, in models.MovieInput) (*models.Movie, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	movie := in.ToMovie(s.newID())
	err := s.store.Create(ctx, movie)
	metrics.Mutations.WithLabelValues("create", metrics.Result(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	s.invalidateCache(ctx, movie.ID)
	slog.Info("movie created", "id", movie.ID, "title", movie.Title)
	return movie, nil
}

// UpdateMovie replaces every field of the movie. Omitted optional fields
// (genre, duration, isTrending) are cleared, not preserved.
func (s *MovieService) UpdateMovie(ctx context.Context, id string, in models.MovieInput) (*models.Movie, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.replace(ctx, "update", in.ToMovie(id))
}

// PatchMovie changes only the fields present in patch.
func (s *MovieService) PatchMovie(ctx context.Context, id string, patch models.MoviePatch) (*models.Movie, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load movie: %w", err)
	}

	in := patch.Apply(*current)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.replace(ctx, "patch", in.ToMovie(id))
}

func (s *MovieService) replace(ctx context.Context, op string, movie *models.Movie) (*models.Movie, error) {
	updated, err := s.store.Update(ctx, movie)
	metrics.Mutations.WithLabelValues(op, metrics.Result(err)).Inc()
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}

	s.invalidateCache(ctx, movie.ID)
	slog.Info("movie updated", "id", movie.ID, "op", op)
	return updated, nil
}

// DeleteMovie removes a movie.
func (s *MovieService) DeleteMovie(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	metrics.Mutations.WithLabelValues("delete", metrics.Result(err)).Inc()
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	s.invalidateCache(ctx, id)
	slog.Info("movie deleted", "id", id)
	return nil
}

// SearchMovies runs a free-text search. A blank query is rejected before the
// store is consulted.
func (s *MovieService) SearchMovies(ctx context.Context, params models.SearchParams) ([]models.Movie, error) {
	if err := params.Validate(s.maxLimit); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("movies:search:%s:%d:%s", params.Category, params.Limit, params.Query)

	var cached []models.Movie
	if s.readCache(ctx, "search", cacheKey, &cached) {
		return cached, nil
	}

	movies, err := s.store.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}

	s.writeCache(ctx, cacheKey, movies)
	return movies, nil
}

// ReplaceCatalog clears the store and inserts inputs in order. It stops at the
// first invalid input before anything is deleted.
func (s *MovieService) ReplaceCatalog(ctx context.Context, inputs []models.MovieInput) ([]models.Movie, error) {
	for i, in := range inputs {
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("seed entry %d (%q): %w", i, in.Title, err)
		}
	}

	removed, err := s.store.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to clear catalog: %w", err)
	}
	slog.Info("cleared existing movies", "count", removed)

	created := make([]models.Movie, 0, len(inputs))
	for _, in := range inputs {
		movie := in.ToMovie(s.newID())
		err := s.store.Create(ctx, movie)
		metrics.Mutations.WithLabelValues("seed", metrics.Result(err)).Inc()
		if err != nil {
			return created, fmt.Errorf("failed to create %q: %w", in.Title, err)
		}
		created = append(created, *movie)
	}

	s.invalidateCache(ctx, "")
	return created, nil
}

// ---- Redis Helpers ----

func detailKey(id string) string {
	return fmt.Sprintf("movie:detail:%s", id)
}

func (s *MovieService) readCache(ctx context.Context, kind, key string, dst any) bool {
	if s.redis == nil {
		return false
	}
	cached, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		metrics.CacheLookups.WithLabelValues(kind, "miss").Inc()
		return false
	}
	if err := json.Unmarshal([]byte(cached), dst); err != nil {
		metrics.CacheLookups.WithLabelValues(kind, "miss").Inc()
		return false
	}
	slog.Debug("cache hit", "key", key)
	metrics.CacheLookups.WithLabelValues(kind, "hit").Inc()
	return true
}

func (s *MovieService) writeCache(ctx context.Context, key string, value any) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}

// invalidateCache drops every list and search entry, plus the detail entry for id.
func (s *MovieService) invalidateCache(ctx context.Context, id string) {
	if s.redis == nil {
		return
	}
	if id != "" {
		if err := s.redis.Del(ctx, detailKey(id)).Err(); err != nil {
			slog.Error("failed to invalidate movie cache", "id", id, "error", err)
		}
	} else {
		s.deletePattern(ctx, "movie:detail:*")
	}
	s.deletePattern(ctx, "movies:*")
}

func (s *MovieService) deletePattern(ctx context.Context, pattern string) {
	iter := s.redis.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		s.redis.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Error("failed to invalidate cache", "pattern", pattern, "error", err)
	}
}
