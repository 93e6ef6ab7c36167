package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	marketmodels "fatefi-backend/internal/features/market/models"
	tarotmodels "fatefi-backend/internal/features/tarot/models"
)

var ist = time.FixedZone("IST", 5*3600+30*60)

type fakeMarket struct {
	resolveCalls []string
	resolveErr   error
	priceCalls   int
	latestDate   string
	events       *[]string
}

func (m *fakeMarket) FetchPrice(ctx context.Context) (float64, error) { return 0, nil }
func (m *fakeMarket) RecordPrice(ctx context.Context) error {
	m.priceCalls++
	return nil
}
func (m *fakeMarket) TodaySnapshot(ctx context.Context) (*marketmodels.PriceSnapshot, error) {
	return nil, nil
}
func (m *fakeMarket) YesterdaySnapshot(ctx context.Context) (*marketmodels.PriceSnapshot, error) {
	return nil, nil
}
func (m *fakeMarket) ResolveDay(ctx context.Context, date string) (bool, error) {
	m.resolveCalls = append(m.resolveCalls, date)
	if m.events != nil {
		*m.events = append(*m.events, "resolve "+date)
	}
	if m.resolveErr != nil {
		return false, m.resolveErr
	}
	return true, nil
}
func (m *fakeMarket) LatestResolvedDate(ctx context.Context) (string, error) {
	return m.latestDate, nil
}

type fakeTarot struct {
	ensureCalls []string
	ensureErr   error
	latestDate  string
	events      *[]string
}

func (f *fakeTarot) TodayDraw(ctx context.Context) (*tarotmodels.TarotDraw, error) { return nil, nil }
func (f *fakeTarot) History(ctx context.Context) ([]tarotmodels.TarotDraw, error)  { return nil, nil }
func (f *fakeTarot) EnsureDrawForDate(ctx context.Context, date string) (*tarotmodels.TarotDraw, error) {
	f.ensureCalls = append(f.ensureCalls, date)
	if f.events != nil {
		*f.events = append(*f.events, "ensure "+date)
	}
	if f.ensureErr != nil {
		return nil, f.ensureErr
	}
	return &tarotmodels.TarotDraw{Date: date}, nil
}
func (f *fakeTarot) DrawForDate(ctx context.Context, date string) (*tarotmodels.TarotDraw, error) {
	return nil, nil
}
func (f *fakeTarot) LatestDrawDate(ctx context.Context) (string, error) {
	return f.latestDate, nil
}

func newTestScheduler(market *fakeMarket, tarot *fakeTarot, at time.Time) *Scheduler {
	s := New(market, tarot)
	s.now = func() time.Time { return at }
	s.seedWatermarks(context.Background())
	return s
}

func TestBoundaryTickOutsideMidnightHourDoesNothing(t *testing.T) {
	market := &fakeMarket{}
	tarot := &fakeTarot{}
	s := newTestScheduler(market, tarot, time.Date(2024, 1, 2, 12, 3, 0, 0, ist))

	s.boundaryTick(context.Background())

	assert.Empty(t, market.resolveCalls)
	assert.Empty(t, tarot.ensureCalls)
}

func TestBoundaryTickResolveWindowOnly(t *testing.T) {
	market := &fakeMarket{}
	tarot := &fakeTarot{}
	// 00:01 IST: resolution window open, creation window not yet.
	s := newTestScheduler(market, tarot, time.Date(2024, 1, 2, 0, 1, 0, 0, ist))

	s.boundaryTick(context.Background())

	assert.Equal(t, []string{"2024-01-01"}, market.resolveCalls)
	assert.Empty(t, tarot.ensureCalls)
}

func TestBoundaryTickResolvesBeforeCreating(t *testing.T) {
	var events []string
	market := &fakeMarket{events: &events}
	tarot := &fakeTarot{events: &events}
	s := newTestScheduler(market, tarot, time.Date(2024, 1, 2, 0, 2, 0, 0, ist))

	s.boundaryTick(context.Background())

	assert.Equal(t, []string{"resolve 2024-01-01", "ensure 2024-01-02"}, events)
}

func TestBoundaryTickCreateWindowTail(t *testing.T) {
	market := &fakeMarket{}
	tarot := &fakeTarot{}
	// 00:05 IST: resolution window closed, creation window still open.
	s := newTestScheduler(market, tarot, time.Date(2024, 1, 2, 0, 5, 0, 0, ist))

	s.boundaryTick(context.Background())

	assert.Empty(t, market.resolveCalls)
	assert.Equal(t, []string{"2024-01-02"}, tarot.ensureCalls)
}

func TestWatermarksPreventRepeatWork(t *testing.T) {
	market := &fakeMarket{}
	tarot := &fakeTarot{}
	s := newTestScheduler(market, tarot, time.Date(2024, 1, 2, 0, 3, 0, 0, ist))
	ctx := context.Background()

	s.boundaryTick(ctx)
	s.boundaryTick(ctx)

	assert.Len(t, market.resolveCalls, 1)
	assert.Len(t, tarot.ensureCalls, 1)
}

func TestWatermarksSeededFromStorage(t *testing.T) {
	market := &fakeMarket{latestDate: "2024-01-01"}
	tarot := &fakeTarot{latestDate: "2024-01-02"}
	s := newTestScheduler(market, tarot, time.Date(2024, 1, 2, 0, 3, 0, 0, ist))

	s.boundaryTick(context.Background())

	// Both actions already happened before the restart.
	assert.Empty(t, market.resolveCalls)
	assert.Empty(t, tarot.ensureCalls)
}

func TestFailedResolutionRetriesNextTick(t *testing.T) {
	market := &fakeMarket{resolveErr: errors.New("feed down")}
	tarot := &fakeTarot{latestDate: "2024-01-02"}
	s := newTestScheduler(market, tarot, time.Date(2024, 1, 2, 0, 1, 0, 0, ist))
	ctx := context.Background()

	s.boundaryTick(ctx)
	assert.Len(t, market.resolveCalls, 1)

	// Watermark did not advance, so the next minute tries again.
	market.resolveErr = nil
	s.boundaryTick(ctx)
	assert.Len(t, market.resolveCalls, 2)

	s.boundaryTick(ctx)
	assert.Len(t, market.resolveCalls, 2)
}

func TestFailedDrawCreationRetriesNextTick(t *testing.T) {
	market := &fakeMarket{latestDate: "2024-01-01"}
	tarot := &fakeTarot{ensureErr: errors.New("db locked")}
	s := newTestScheduler(market, tarot, time.Date(2024, 1, 2, 0, 3, 0, 0, ist))
	ctx := context.Background()

	s.boundaryTick(ctx)
	assert.Len(t, tarot.ensureCalls, 1)

	tarot.ensureErr = nil
	s.boundaryTick(ctx)
	assert.Len(t, tarot.ensureCalls, 2)

	s.boundaryTick(ctx)
	assert.Len(t, tarot.ensureCalls, 2)
}
