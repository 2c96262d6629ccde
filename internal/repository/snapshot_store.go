package repository

import (
	"context"
	"errors"
	"time"

	"BetForge/internal/domain/models"
	"BetForge/internal/domain/repository"
	"BetForge/pkg/cache"
)

const snapshotKey = "engine:snapshot"

// CacheSnapshotStore keeps the latest engine snapshot in a cache backend
// (Redis in production, in-memory for tests). Snapshots never expire; each
// save overwrites the previous one.
type CacheSnapshotStore struct {
	cache cache.Service
}

// NewCacheSnapshotStore creates a snapshot store over a cache service.
func NewCacheSnapshotStore(c cache.Service) repository.SnapshotStore {
	return &CacheSnapshotStore{cache: c}
}

func (s *CacheSnapshotStore) Save(ctx context.Context, snap *models.EngineSnapshot) error {
	return s.cache.Set(ctx, snapshotKey, snap, time.Duration(0))
}

func (s *CacheSnapshotStore) Load(ctx context.Context) (*models.EngineSnapshot, error) {
	var snap models.EngineSnapshot
	err := s.cache.Get(ctx, snapshotKey, &snap)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *CacheSnapshotStore) Close() error {
	return nil // cache lifecycle owned by the provider
}
