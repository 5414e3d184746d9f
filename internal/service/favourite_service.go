package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"funstar-catalog/internal/models"
	"funstar-catalog/internal/repository"
)

// FavouriteService manages per-owner watchlist markers.
type FavouriteService struct {
	store  repository.FavouriteStore
	movies *MovieService
}

func NewFavouriteService(store repository.FavouriteStore, movies *MovieService) *FavouriteService {
	return &FavouriteService{store: store, movies: movies}
}

// Add marks an existing movie as a favourite of owner.
func (s *FavouriteService) Add(ctx context.Context, owner, movieID string) (*models.FavouriteIDsResponse, error) {
	if _, err := s.movies.GetMovie(ctx, movieID); err != nil {
		return nil, err
	}
	if err := s.store.Add(ctx, owner, movieID); err != nil {
		return nil, err
	}
	return s.ids(ctx, owner)
}

// Remove clears a favourite marker. The movie need not exist any more.
func (s *FavouriteService) Remove(ctx context.Context, owner, movieID string) (*models.FavouriteIDsResponse, error) {
	if err := s.store.Remove(ctx, owner, movieID); err != nil {
		return nil, err
	}
	return s.ids(ctx, owner)
}

// List resolves owner's favourites to movies, skipping ones deleted from the catalog.
func (s *FavouriteService) List(ctx context.Context, owner string) ([]models.Movie, error) {
	ids, err := s.store.List(ctx, owner)
	if err != nil {
		return nil, err
	}

	movies := make([]models.Movie, 0, len(ids))
	for _, id := range ids {
		m, err := s.movies.GetMovie(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				slog.Debug("favourite refers to deleted movie", "owner", owner, "id", id)
				continue
			}
			return nil, fmt.Errorf("failed to resolve favourite %s: %w", id, err)
		}
		movies = append(movies, *m)
	}
	return movies, nil
}

func (s *FavouriteService) ids(ctx context.Context, owner string) (*models.FavouriteIDsResponse, error) {
	ids, err := s.store.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &models.FavouriteIDsResponse{Owner: owner, MovieIDs: ids}, nil
}
