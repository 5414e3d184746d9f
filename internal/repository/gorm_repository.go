package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"funstar-catalog/internal/models"
)

// movieRecord maps the movies table for gorm. Genre is stored as a JSON array.
type movieRecord struct {
	ID           string   `gorm:"primaryKey"`
	Title        string   `gorm:"not null"`
	Description  string   `gorm:"not null"`
	VideoURL     string   `gorm:"column:video_url;not null"`
	ThumbnailURL string   `gorm:"column:thumbnail_url;not null"`
	Genre        []string `gorm:"serializer:json"`
	Duration     string
	Category     string `gorm:"not null;index"`
	IsTrending   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (movieRecord) TableName() string { return "movies" }

func toRecord(m *models.Movie) movieRecord {
	return movieRecord{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		VideoURL:     m.VideoURL,
		ThumbnailURL: m.ThumbnailURL,
		Genre:        nonNilGenre(m.Genre),
		Duration:     m.Duration,
		Category:     m.Category,
		IsTrending:   m.IsTrending,
	}
}

func (rec movieRecord) toMovie() models.Movie {
	return models.Movie{
		ID:           rec.ID,
		Title:        rec.Title,
		Description:  rec.Description,
		VideoURL:     rec.VideoURL,
		ThumbnailURL: rec.ThumbnailURL,
		Genre:        nonNilGenre(rec.Genre),
		Duration:     rec.Duration,
		Category:     rec.Category,
		IsTrending:   rec.IsTrending,
	}
}

// GormMovieRepository stores movies through gorm. It targets SQLite; search
// uses SQLite's json_each to test genre membership.
type GormMovieRepository struct {
	db *gorm.DB
}

// NewGormMovieRepository creates a new GormMovieRepository.
func NewGormMovieRepository(db *gorm.DB) *GormMovieRepository {
	return &GormMovieRepository{db: db}
}

// List returns the movies matching the given filter in insertion order.
func (r *GormMovieRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Movie, error) {
	q := r.db.WithContext(ctx).Model(&movieRecord{})
	if filter.HasCategory() {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Trending {
		q = q.Where("is_trending = ?", true)
	}

	var recs []movieRecord
	if err := q.Order("created_at, id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list query failed: %w", err)
	}
	return toMovies(recs), nil
}

// Search returns up to params.Limit movies matching the query.
func (r *GormMovieRepository) Search(ctx context.Context, params models.SearchParams) ([]models.Movie, error) {
	pattern := likePattern(strings.ToLower(params.Query))
	q := r.db.WithContext(ctx).Model(&movieRecord{}).Where(
		`(unicode_lower(title) LIKE ? ESCAPE '\' OR unicode_lower(description) LIKE ? ESCAPE '\'
			OR EXISTS (SELECT 1 FROM json_each(movies.genre) WHERE json_each.value = ?))`,
		pattern, pattern, params.Query,
	)
	if params.HasCategory() {
		q = q.Where("category = ?", params.Category)
	}

	var recs []movieRecord
	if err := q.Order("created_at, id").Limit(params.Limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	return toMovies(recs), nil
}

// Get returns a movie by ID.
func (r *GormMovieRepository) Get(ctx context.Context, id string) (*models.Movie, error) {
	var rec movieRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get movie %s: %w", id, err)
	}
	m := rec.toMovie()
	return &m, nil
}

// Create inserts a movie whose ID has already been assigned.
func (r *GormMovieRepository) Create(ctx context.Context, m *models.Movie) error {
	rec := toRecord(m)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

// Update replaces every mutable field of the movie with m.ID.
func (r *GormMovieRepository) Update(ctx context.Context, m *models.Movie) (*models.Movie, error) {
	rec := toRecord(m)
	rec.UpdatedAt = time.Now()

	res := r.db.WithContext(ctx).
		Model(&movieRecord{ID: m.ID}).
		Select("title", "description", "video_url", "thumbnail_url",
			"genre", "duration", "category", "is_trending", "updated_at").
		Updates(rec)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}
	return r.Get(ctx, m.ID)
}

// Delete removes a movie by ID.
func (r *GormMovieRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&movieRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteAll clears the catalog.
func (r *GormMovieRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&movieRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear movies: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func toMovies(recs []movieRecord) []models.Movie {
	movies := make([]models.Movie, 0, len(recs))
	for _, rec := range recs {
		movies = append(movies, rec.toMovie())
	}
	return movies
}
