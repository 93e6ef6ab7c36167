package redis

import (
	"context"
	"fmt"

	"fatefi-backend/internal/common/cache"
	"fatefi-backend/internal/features/market/models"
	"fatefi-backend/internal/features/market/repository"
)

const mirrorKeyPrefix = "market:snapshot:"

// snapshotMirror keeps a copy of every day's snapshot in Redis so resolved
// outcomes survive a lost local database and can be read by other deployments.
type snapshotMirror struct {
	cache *cache.Service
}

func NewSnapshotMirror(cacheService *cache.Service) repository.SnapshotMirror {
	return &snapshotMirror{cache: cacheService}
}

func (m *snapshotMirror) Upsert(ctx context.Context, snapshot *models.PriceSnapshot) error {
	return m.cache.Set(ctx, mirrorKey(snapshot.Date), snapshot, 0)
}

func (m *snapshotMirror) Get(ctx context.Context, date string) (*models.PriceSnapshot, error) {
	var snapshot models.PriceSnapshot
	if err := m.cache.Get(ctx, mirrorKey(date), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func mirrorKey(date string) string {
	return fmt.Sprintf("%s%s", mirrorKeyPrefix, date)
}
