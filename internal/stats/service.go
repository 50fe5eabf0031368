package stats

import (
	"context"
	"fmt"
)

// Service serves content counters through the versioned cache.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService constructs a Service.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Snapshot returns the current counters, cached until the TTL expires or
// the version is bumped by a content mutation.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	key, err := s.cache.BuildKey(ctx, "stats", "snapshot")
	if err != nil {
		return Snapshot{}, fmt.Errorf("build cache key: %w", err)
	}

	var snap Snapshot
	err = s.cache.FetchJSON(ctx, key, &snap, func(ctx context.Context) (interface{}, error) {
		return s.repo.Counts(ctx)
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("load stats: %w", err)
	}
	return snap, nil
}

// Invalidate bumps the cache version after a content mutation.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// Warm populates the cache ahead of traffic.
func (s *Service) Warm(ctx context.Context) error {
	_, err := s.Snapshot(ctx)
	return err
}
