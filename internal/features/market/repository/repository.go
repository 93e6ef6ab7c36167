package repository

import (
	"context"

	"fatefi-backend/internal/features/market/models"
)

type SnapshotRepository interface {
	GetByDate(ctx context.Context, date string) (*models.PriceSnapshot, error)
	// Create inserts the first observation of a day (open=high=low=latest).
	Create(ctx context.Context, snapshot *models.PriceSnapshot) error
	// UpdatePrices writes the running latest/high/low for an unresolved day.
	UpdatePrices(ctx context.Context, date string, latest, high, low float64) error
	// MarkResolved finalizes a day exactly once: close price and outcome are
	// written together with the resolved flag.
	MarkResolved(ctx context.Context, date string, closePrice float64, outcome string) error
	// LatestResolvedDate returns the most recent resolved day, or "" when none
	// exists. Used to seed the scheduler's resolution watermark.
	LatestResolvedDate(ctx context.Context) (string, error)
}

// SnapshotMirror is the best-effort secondary store. Implementations must
// never be load-bearing: the local store stays authoritative.
type SnapshotMirror interface {
	Upsert(ctx context.Context, snapshot *models.PriceSnapshot) error
	Get(ctx context.Context, date string) (*models.PriceSnapshot, error)
}
