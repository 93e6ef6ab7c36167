package scheduler

import (
	"context"
	"sync"
	"time"

	"fatefi-backend/internal/common/logger"
	"fatefi-backend/internal/common/timeutil"
	marketservice "fatefi-backend/internal/features/market/service"
	tarotservice "fatefi-backend/internal/features/tarot/service"
)

const (
	priceInterval    = 5 * time.Minute
	boundaryInterval = time.Minute

	// Midnight windows in the market timezone. Resolution leads creation by a
	// minute so yesterday's outcome is settled before today's card appears.
	resolveWindowStart = 1
	resolveWindowEnd   = 4
	createWindowStart  = 2
	createWindowEnd    = 5
)

// Scheduler drives the daily game loop: periodic price sampling plus the
// midnight resolve/create sequence. All failures are logged and retried on the
// next tick; watermarks only advance on success.
type Scheduler struct {
	market marketservice.MarketService
	tarot  tarotservice.TarotService
	now    func() time.Time

	// Last market date each daily action completed for.
	resolvedWatermark string
	drawWatermark     string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(market marketservice.MarketService, tarot tarotservice.TarotService) *Scheduler {
	return &Scheduler{
		market: market,
		tarot:  tarot,
		now:    time.Now,
	}
}

// Start seeds the watermarks from storage, performs one immediate pass and
// launches the background loops.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.seedWatermarks(ctx)
	s.ensureTodayDraw(ctx)
	s.recordPrice(ctx)

	s.wg.Add(2)
	go s.loop(ctx, priceInterval, s.recordPrice)
	go s.loop(ctx, boundaryInterval, s.boundaryTick)

	logger.Info().
		Str("resolved_watermark", s.resolvedWatermark).
		Str("draw_watermark", s.drawWatermark).
		Msg("Scheduler started")
}

// Stop halts the loops and waits for in-flight ticks.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	logger.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, tick func(context.Context)) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick(ctx)
		}
	}
}

// seedWatermarks re-derives scheduler state from storage so a restart never
// repeats or skips a day.
func (s *Scheduler) seedWatermarks(ctx context.Context) {
	resolved, err := s.market.LatestResolvedDate(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to derive resolution watermark")
	} else {
		s.resolvedWatermark = resolved
	}

	drawn, err := s.tarot.LatestDrawDate(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to derive draw watermark")
	} else {
		s.drawWatermark = drawn
	}
}

func (s *Scheduler) recordPrice(ctx context.Context) {
	if err := s.market.RecordPrice(ctx); err != nil {
		logger.Warn().Err(err).Msg("Price tick failed")
	}
}

// boundaryTick runs every minute and fires the midnight actions inside their
// windows. Resolution is always attempted before creation.
func (s *Scheduler) boundaryTick(ctx context.Context) {
	now := s.now()
	hour, minute := timeutil.MarketClock(now)
	if hour != 0 {
		return
	}

	if minute >= resolveWindowStart && minute <= resolveWindowEnd {
		s.resolveYesterday(ctx, now)
	}
	if minute >= createWindowStart && minute <= createWindowEnd {
		s.ensureTodayDraw(ctx)
	}
}

func (s *Scheduler) resolveYesterday(ctx context.Context, now time.Time) {
	yesterday := timeutil.YesterdayMarketDate(now)
	if s.resolvedWatermark == yesterday {
		return
	}

	resolved, err := s.market.ResolveDay(ctx, yesterday)
	if err != nil {
		logger.Error().Err(err).Str("date", yesterday).Msg("Day resolution failed")
		return
	}
	if resolved {
		logger.Info().Str("date", yesterday).Msg("Day resolved")
	}
	s.resolvedWatermark = yesterday
}

func (s *Scheduler) ensureTodayDraw(ctx context.Context) {
	today := timeutil.MarketDate(s.now())
	if s.drawWatermark == today {
		return
	}

	if _, err := s.tarot.EnsureDrawForDate(ctx, today); err != nil {
		logger.Error().Err(err).Str("date", today).Msg("Draw creation failed")
		return
	}
	s.drawWatermark = today
}
