package repository

import (
	"context"
	"strings"

	"funstar-catalog/internal/models"
)

// MovieStore is the persistence boundary for the catalog. Implementations
// return models.ErrNotFound when an ID does not exist.
type MovieStore interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Movie, error)
	Search(ctx context.Context, params models.SearchParams) ([]models.Movie, error)
	Get(ctx context.Context, id string) (*models.Movie, error)
	Create(ctx context.Context, m *models.Movie) error
	Update(ctx context.Context, m *models.Movie) (*models.Movie, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// FavouriteStore keeps the ordered set of favourite movie IDs per owner.
type FavouriteStore interface {
	Add(ctx context.Context, owner, movieID string) error
	Remove(ctx context.Context, owner, movieID string) error
	List(ctx context.Context, owner string) ([]string, error)
}

// likePattern builds a substring LIKE pattern in which %, _ and \ are literals.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

func nonNilGenre(g []string) []string {
	if g == nil {
		return []string{}
	}
	return g
}
