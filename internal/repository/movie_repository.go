package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"funstar-catalog/internal/models"
)

const movieColumns = `id, title, description, video_url, thumbnail_url,
	genre, duration, category, is_trending`

// MovieRepository handles PostgreSQL operations for movies.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new MovieRepository.
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// List returns the movies matching the given filter in insertion order.
func (r *MovieRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Movie, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.HasCategory() {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, filter.Category)
		argIdx++
	}
	if filter.Trending {
		conditions = append(conditions, "is_trending = TRUE")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM movies
		WHERE %s
		ORDER BY created_at, id
	`, movieColumns, strings.Join(conditions, " AND "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query failed: %w", err)
	}
	defer rows.Close()
	return scanMovies(rows)
}

// Search returns up to params.Limit movies whose title or description contains
// the query (case-insensitive) or whose genre list holds the query exactly.
func (r *MovieRepository) Search(ctx context.Context, params models.SearchParams) ([]models.Movie, error) {
	args := []interface{}{likePattern(params.Query), params.Query}
	where := `(title ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\' OR $2 = ANY(genre))`
	argIdx := 3

	if params.HasCategory() {
		where += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, params.Category)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT %s FROM movies
		WHERE %s
		ORDER BY created_at, id
		LIMIT $%d
	`, movieColumns, where, argIdx)
	args = append(args, params.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()
	return scanMovies(rows)
}

// Get returns a movie by ID.
func (r *MovieRepository) Get(ctx context.Context, id string) (*models.Movie, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns), id)
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get movie %s: %w", id, err)
	}
	return m, nil
}

// Create inserts a movie whose ID has already been assigned.
func (r *MovieRepository) Create(ctx context.Context, m *models.Movie) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO movies (id, title, description, video_url, thumbnail_url,
			genre, duration, category, is_trending, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`, m.ID, m.Title, m.Description, m.VideoURL, m.ThumbnailURL,
		pq.Array(nonNilGenre(m.Genre)), m.Duration, m.Category, m.IsTrending)
	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

// Update replaces every mutable field of the movie with m.ID.
func (r *MovieRepository) Update(ctx context.Context, m *models.Movie) (*models.Movie, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		UPDATE movies SET
			title = $2,
			description = $3,
			video_url = $4,
			thumbnail_url = $5,
			genre = $6,
			duration = $7,
			category = $8,
			is_trending = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, movieColumns), m.ID, m.Title, m.Description, m.VideoURL, m.ThumbnailURL,
		pq.Array(nonNilGenre(m.Genre)), m.Duration, m.Category, m.IsTrending)

	updated, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}
	return updated, nil
}

// Delete removes a movie by ID.
func (r *MovieRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteAll clears the catalog.
func (r *MovieRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear movies: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMovie(row rowScanner) (*models.Movie, error) {
	var m models.Movie
	if err := row.Scan(
		&m.ID, &m.Title, &m.Description, &m.VideoURL, &m.ThumbnailURL,
		pq.Array(&m.Genre), &m.Duration, &m.Category, &m.IsTrending,
	); err != nil {
		return nil, err
	}
	m.Genre = nonNilGenre(m.Genre)
	return &m, nil
}

// rowIterator is the part of *sql.Rows scanMovies needs.
type rowIterator interface {
	rowScanner
	Next() bool
	Err() error
}

func scanMovies(rows rowIterator) ([]models.Movie, error) {
	movies := make([]models.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie row: %w", err)
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return movies, nil
}
