package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"fatefi-backend/internal/common/logger"
	"fatefi-backend/internal/common/timeutil"
	"fatefi-backend/internal/features/tarot/deck"
	"fatefi-backend/internal/features/tarot/models"
	"fatefi-backend/internal/features/tarot/repository"
	"fatefi-backend/internal/platform/oracle"
)

const historyLimit = 30

// Interpreter produces the narrative payload for a draw. Implementations
// must fall back internally and never fail.
type Interpreter interface {
	Interpret(ctx context.Context, cardName, orientation string) oracle.Interpretation
}

type TarotService interface {
	// TodayDraw returns today's draw, creating it deterministically when it
	// does not exist yet, and back-fills the narrative.
	TodayDraw(ctx context.Context) (*models.TarotDraw, error)
	History(ctx context.Context) ([]models.TarotDraw, error)
	// EnsureDrawForDate creates the deterministic draw for the date if absent
	// and returns the stored one either way.
	EnsureDrawForDate(ctx context.Context, date string) (*models.TarotDraw, error)
	// DrawForDate returns the stored draw for a date, or nil when none exists.
	DrawForDate(ctx context.Context, date string) (*models.TarotDraw, error)
	// LatestDrawDate seeds the scheduler's card-creation watermark.
	LatestDrawDate(ctx context.Context) (string, error)
}

type tarotService struct {
	repo        repository.TarotRepository
	interpreter Interpreter
	now         func() time.Time
}

func NewTarotService(repo repository.TarotRepository, interpreter Interpreter) TarotService {
	return &tarotService{
		repo:        repo,
		interpreter: interpreter,
		now:         time.Now,
	}
}

func (s *tarotService) TodayDraw(ctx context.Context) (*models.TarotDraw, error) {
	draw, err := s.EnsureDrawForDate(ctx, timeutil.MarketDate(s.now()))
	if err != nil {
		return nil, err
	}

	if draw.AIInterpretation == nil {
		s.backfillInterpretation(ctx, draw)
	}
	return draw, nil
}

// backfillInterpretation attaches the narrative to a fresh draw. The
// interpreter always produces something (fallback included); only the store
// write can fail, and that just means another attempt on the next request.
func (s *tarotService) backfillInterpretation(ctx context.Context, draw *models.TarotDraw) {
	interpretation := s.interpreter.Interpret(ctx, draw.CardName, draw.Orientation)

	payload, err := json.Marshal(interpretation)
	if err != nil {
		logger.Error().Err(err).Uint("draw_id", draw.ID).Msg("Failed to encode interpretation")
		return
	}

	if err := s.repo.SetInterpretation(ctx, draw.ID, string(payload)); err != nil {
		logger.Error().Err(err).Uint("draw_id", draw.ID).Msg("Failed to store interpretation")
		return
	}

	text := string(payload)
	draw.AIInterpretation = &text
}

func (s *tarotService) History(ctx context.Context) ([]models.TarotDraw, error) {
	return s.repo.History(ctx, historyLimit)
}

func (s *tarotService) EnsureDrawForDate(ctx context.Context, date string) (*models.TarotDraw, error) {
	if draw, err := s.repo.GetByDate(ctx, date); err == nil {
		return draw, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	card, orientation := deck.DrawForDate(date)
	draw, err := s.repo.Create(ctx, &models.TarotDraw{
		CardName:    card.Name,
		Orientation: orientation,
		Date:        date,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("date", date).Str("card", card.Name).Str("orientation", orientation).
		Msg("Tarot draw created")
	return draw, nil
}

func (s *tarotService) DrawForDate(ctx context.Context, date string) (*models.TarotDraw, error) {
	draw, err := s.repo.GetByDate(ctx, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return draw, err
}

func (s *tarotService) LatestDrawDate(ctx context.Context) (string, error) {
	return s.repo.LatestDrawDate(ctx)
}
