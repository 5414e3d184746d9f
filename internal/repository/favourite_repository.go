package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisFavouriteRepository keeps favourites in one sorted set per owner,
// scored by the time the movie was added.
type RedisFavouriteRepository struct {
	rdb *redis.Client
}

// NewRedisFavouriteRepository creates a new RedisFavouriteRepository.
func NewRedisFavouriteRepository(rdb *redis.Client) *RedisFavouriteRepository {
	return &RedisFavouriteRepository{rdb: rdb}
}

func favouritesKey(owner string) string {
	return fmt.Sprintf("favourites:%s", owner)
}

// Add marks movieID as a favourite of owner. Re-adding keeps the original position.
func (r *RedisFavouriteRepository) Add(ctx context.Context, owner, movieID string) error {
	err := r.rdb.ZAddNX(ctx, favouritesKey(owner), redis.Z{
		Score:  float64(time.Now().UnixNano()),
		Member: movieID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to add favourite: %w", err)
	}
	return nil
}

// Remove clears the favourite marker. Removing an absent marker is not an error.
func (r *RedisFavouriteRepository) Remove(ctx context.Context, owner, movieID string) error {
	if err := r.rdb.ZRem(ctx, favouritesKey(owner), movieID).Err(); err != nil {
		return fmt.Errorf("failed to remove favourite: %w", err)
	}
	return nil
}

// List returns owner's favourite movie IDs, oldest first.
func (r *RedisFavouriteRepository) List(ctx context.Context, owner string) ([]string, error) {
	ids, err := r.rdb.ZRange(ctx, favouritesKey(owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list favourites: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// MemoryFavouriteRepository is the process-local FavouriteStore used when Redis is unavailable.
type MemoryFavouriteRepository struct {
	mu     sync.Mutex
	owners map[string][]string
}

func NewMemoryFavouriteRepository() *MemoryFavouriteRepository {
	return &MemoryFavouriteRepository{owners: make(map[string][]string)}
}

func (r *MemoryFavouriteRepository) Add(_ context.Context, owner, movieID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !slices.Contains(r.owners[owner], movieID) {
		r.owners[owner] = append(r.owners[owner], movieID)
	}
	return nil
}

func (r *MemoryFavouriteRepository) Remove(_ context.Context, owner, movieID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := slices.Index(r.owners[owner], movieID); i >= 0 {
		r.owners[owner] = slices.Delete(r.owners[owner], i, i+1)
	}
	return nil
}

func (r *MemoryFavouriteRepository) List(_ context.Context, owner string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string{}, r.owners[owner]...), nil
}
