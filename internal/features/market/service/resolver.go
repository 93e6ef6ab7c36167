package service

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"

	"fatefi-backend/internal/common/logger"
	"fatefi-backend/internal/features/market/models"
)

// VolatilityThreshold is the fractional move above which a day counts as
// volatile regardless of direction. Policy constant carried over as-is.
const VolatilityThreshold = 0.03

// classifyOutcome maps a day's fractional change to its outcome. The
// threshold is strict: a move of exactly 3% is still directional.
func classifyOutcome(change float64) string {
	switch {
	case math.Abs(change) > VolatilityThreshold:
		return models.OutcomeVolatile
	case change > 0:
		return models.OutcomeBullish
	default:
		return models.OutcomeBearish
	}
}

func (s *marketService) ResolveDay(ctx context.Context, date string) (bool, error) {
	snapshot, err := s.snapshots.GetByDate(ctx, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Info().Str("date", date).Msg("Resolve skipped: no price data")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if snapshot.Resolved {
		logger.Info().Str("date", date).Msg("Resolve skipped: already resolved")
		return false, nil
	}

	if snapshot.OpenPrice == 0 || snapshot.LatestPrice == 0 {
		// A day with no usable observations never resolves.
		logger.Info().Str("date", date).Msg("Resolve skipped: missing open/latest price")
		return false, nil
	}

	closePrice := snapshot.LatestPrice
	change := (closePrice - snapshot.OpenPrice) / snapshot.OpenPrice
	outcome := classifyOutcome(change)

	if err := s.snapshots.MarkResolved(ctx, date, closePrice, outcome); err != nil {
		return false, err
	}

	snapshot.ClosePrice = &closePrice
	snapshot.LatestPrice = closePrice
	snapshot.Resolved = true
	snapshot.ResolvedOutcome = &outcome
	s.mirrorSnapshot(ctx, snapshot)

	logger.Info().Str("date", date).
		Float64("open", snapshot.OpenPrice).
		Float64("close", closePrice).
		Float64("change_pct", change*100).
		Str("outcome", outcome).
		Msg("Market day resolved")

	// Score predictions against the draw sharing this date, if one exists. A
	// day may legitimately resolve before its draw was ever created.
	draw, err := s.draws.GetByDate(ctx, date)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		logger.Info().Str("date", date).Msg("No tarot draw found for resolved day")
	case err != nil:
		logger.Error().Err(err).Str("date", date).Msg("Failed to look up draw for resolved day")
	default:
		if err := s.scoring.ResolveDrawPredictions(ctx, draw.ID, outcome); err != nil {
			logger.Error().Err(err).Uint("draw_id", draw.ID).Msg("Failed to score draw predictions")
		}
	}

	s.triggerPoolResolution(ctx, outcome)

	return true, nil
}

// triggerPoolResolution forwards the outcome to the staking contract when one
// is configured. Chain failures never undo or block local resolution.
func (s *marketService) triggerPoolResolution(ctx context.Context, outcome string) {
	if s.pool == nil || !s.pool.Enabled() {
		return
	}

	txHash, err := s.pool.TriggerResolution(ctx, outcome)
	if err != nil {
		logger.Error().Err(err).Str("outcome", outcome).Msg("On-chain pool resolution failed")
		return
	}
	logger.Info().Str("outcome", outcome).Str("tx", txHash).Msg("On-chain pool resolution sent")
}
