package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fatefi-backend/internal/common/logger"
	"fatefi-backend/internal/common/timeutil"
	"fatefi-backend/internal/features/market/models"
	"fatefi-backend/internal/features/market/repository"
	"fatefi-backend/internal/features/scoring"
	tarotrepo "fatefi-backend/internal/features/tarot/repository"
)

// PriceFetcher is the external spot-price feed.
type PriceFetcher interface {
	FetchPrice(ctx context.Context) (float64, error)
}

// PoolResolver is the optional on-chain staking pool hook.
type PoolResolver interface {
	Enabled() bool
	TriggerResolution(ctx context.Context, outcome string) (string, error)
}

type MarketService interface {
	// FetchPrice returns the live spot price from the external feed.
	FetchPrice(ctx context.Context) (float64, error)
	// RecordPrice fetches once and folds the price into today's snapshot.
	RecordPrice(ctx context.Context) error
	TodaySnapshot(ctx context.Context) (*models.PriceSnapshot, error)
	// YesterdaySnapshot prefers the mirror copy and falls back to the local
	// store. A day with no data returns (nil, nil).
	YesterdaySnapshot(ctx context.Context) (*models.PriceSnapshot, error)
	// ResolveDay finalizes a completed day and scores its predictions.
	// Returns false when there was nothing to do; safe to call repeatedly.
	ResolveDay(ctx context.Context, date string) (bool, error)
	// LatestResolvedDate seeds the scheduler's resolution watermark.
	LatestResolvedDate(ctx context.Context) (string, error)
}

type marketService struct {
	snapshots repository.SnapshotRepository
	mirror    repository.SnapshotMirror
	fetcher   PriceFetcher
	scoring   scoring.Service
	draws     tarotrepo.TarotRepository
	pool      PoolResolver
	now       func() time.Time
}

func NewMarketService(
	snapshots repository.SnapshotRepository,
	mirror repository.SnapshotMirror,
	fetcher PriceFetcher,
	scoringService scoring.Service,
	draws tarotrepo.TarotRepository,
	poolResolver PoolResolver,
) MarketService {
	return &marketService{
		snapshots: snapshots,
		mirror:    mirror,
		fetcher:   fetcher,
		scoring:   scoringService,
		draws:     draws,
		pool:      poolResolver,
		now:       time.Now,
	}
}

func (s *marketService) FetchPrice(ctx context.Context) (float64, error) {
	return s.fetcher.FetchPrice(ctx)
}

func (s *marketService) RecordPrice(ctx context.Context) error {
	price, err := s.fetcher.FetchPrice(ctx)
	if err != nil {
		return err
	}

	date := timeutil.MarketDate(s.now())
	snapshot, err := s.snapshots.GetByDate(ctx, date)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First observation of the day sets the open.
		snapshot = &models.PriceSnapshot{
			Date:        date,
			OpenPrice:   price,
			HighPrice:   price,
			LowPrice:    price,
			LatestPrice: price,
		}
		if err := s.snapshots.Create(ctx, snapshot); err != nil {
			return err
		}
		logger.Info().Str("date", date).Float64("open", price).Msg("New market day opened")
	case err != nil:
		return err
	default:
		high := snapshot.HighPrice
		if price > high {
			high = price
		}
		low := snapshot.LowPrice
		if price < low {
			low = price
		}
		if err := s.snapshots.UpdatePrices(ctx, date, price, high, low); err != nil {
			return err
		}
		snapshot.LatestPrice = price
		snapshot.HighPrice = high
		snapshot.LowPrice = low
	}

	s.mirrorSnapshot(ctx, snapshot)
	return nil
}

// mirrorSnapshot pushes a copy to the secondary store. Failures are logged
// and swallowed; the local store stays authoritative.
func (s *marketService) mirrorSnapshot(ctx context.Context, snapshot *models.PriceSnapshot) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Upsert(ctx, snapshot); err != nil {
		logger.Warn().Err(err).Str("date", snapshot.Date).Msg("Snapshot mirror upsert failed")
	}
}

func (s *marketService) TodaySnapshot(ctx context.Context) (*models.PriceSnapshot, error) {
	snapshot, err := s.snapshots.GetByDate(ctx, timeutil.MarketDate(s.now()))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return snapshot, err
}

func (s *marketService) YesterdaySnapshot(ctx context.Context) (*models.PriceSnapshot, error) {
	date := timeutil.YesterdayMarketDate(s.now())

	if s.mirror != nil {
		if snapshot, err := s.mirror.Get(ctx, date); err == nil {
			return snapshot, nil
		}
	}

	snapshot, err := s.snapshots.GetByDate(ctx, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return snapshot, err
}

func (s *marketService) LatestResolvedDate(ctx context.Context) (string, error) {
	return s.snapshots.LatestResolvedDate(ctx)
}
