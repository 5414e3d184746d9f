package repository

import (
	"context"
	"sync"

	"funstar-catalog/internal/models"
)

// MemoryMovieRepository keeps the catalog in process memory, in insertion order.
type MemoryMovieRepository struct {
	mu     sync.RWMutex
	order  []string
	movies map[string]models.Movie
}

// NewMemoryMovieRepository creates an empty in-memory catalog.
func NewMemoryMovieRepository() *MemoryMovieRepository {
	return &MemoryMovieRepository{movies: make(map[string]models.Movie)}
}

func (r *MemoryMovieRepository) List(_ context.Context, filter models.ListFilter) ([]models.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Movie, 0)
	for _, id := range r.order {
		m := r.movies[id]
		if filter.Matches(m) {
			out = append(out, cloneMovie(m))
		}
	}
	return out, nil
}

func (r *MemoryMovieRepository) Search(_ context.Context, params models.SearchParams) ([]models.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Movie, 0)
	for _, id := range r.order {
		if params.Limit > 0 && len(out) >= params.Limit {
			break
		}
		m := r.movies[id]
		if params.Matches(m) {
			out = append(out, cloneMovie(m))
		}
	}
	return out, nil
}

func (r *MemoryMovieRepository) Get(_ context.Context, id string) (*models.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.movies[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := cloneMovie(m)
	return &c, nil
}

func (r *MemoryMovieRepository) Create(_ context.Context, m *models.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.movies[m.ID]; !exists {
		r.order = append(r.order, m.ID)
	}
	r.movies[m.ID] = cloneMovie(*m)
	return nil
}

func (r *MemoryMovieRepository) Update(_ context.Context, m *models.Movie) (*models.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.movies[m.ID]; !ok {
		return nil, models.ErrNotFound
	}
	r.movies[m.ID] = cloneMovie(*m)
	c := cloneMovie(*m)
	return &c, nil
}

func (r *MemoryMovieRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.movies[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.movies, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryMovieRepository) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.order))
	r.order = nil
	r.movies = make(map[string]models.Movie)
	return n, nil
}

func cloneMovie(m models.Movie) models.Movie {
	m.Genre = append([]string{}, m.Genre...)
	return m
}
