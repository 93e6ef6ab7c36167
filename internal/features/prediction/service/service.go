package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fatefi-backend/internal/common/timeutil"
	"fatefi-backend/internal/common/validation"
	"fatefi-backend/internal/features/prediction/models"
	"fatefi-backend/internal/features/prediction/repository"
	tarotrepo "fatefi-backend/internal/features/tarot/repository"
)

const (
	defaultPredictionType = "direction"
	mineLimit             = 50
)

var (
	ErrInvalidOption = errors.New("invalid prediction option")
	ErrNoDrawToday   = errors.New("no tarot draw for today")
	// ErrDuplicate mirrors the storage-level uniqueness rejection.
	ErrDuplicate = repository.ErrDuplicate
)

type PredictionService interface {
	// Submit records the user's guess for today's draw. Rejects unknown
	// options and second submissions; the first prediction always stands.
	Submit(ctx context.Context, userID uint, predictionType, selectedOption string) (*models.Prediction, error)
	// Mine returns the user's prediction history, newest first.
	Mine(ctx context.Context, userID uint) ([]models.PredictionWithDraw, error)
	// Today returns the user's prediction for today's draw, or nil.
	Today(ctx context.Context, userID uint) (*models.Prediction, error)
}

type predictionService struct {
	predictions repository.PredictionRepository
	draws       tarotrepo.TarotRepository
	now         func() time.Time
}

func NewPredictionService(predictions repository.PredictionRepository, draws tarotrepo.TarotRepository) PredictionService {
	return &predictionService{
		predictions: predictions,
		draws:       draws,
		now:         time.Now,
	}
}

func (s *predictionService) Submit(ctx context.Context, userID uint, predictionType, selectedOption string) (*models.Prediction, error) {
	if err := validation.ValidatePredictionOption(selectedOption); err != nil {
		return nil, ErrInvalidOption
	}
	if predictionType == "" {
		predictionType = defaultPredictionType
	}

	draw, err := s.draws.GetByDate(ctx, timeutil.MarketDate(s.now()))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoDrawToday
	}
	if err != nil {
		return nil, err
	}

	prediction := &models.Prediction{
		UserID:         userID,
		TarotDrawID:    draw.ID,
		PredictionType: predictionType,
		SelectedOption: selectedOption,
		Result:         models.ResultPending,
	}
	if err := s.predictions.Create(ctx, prediction); err != nil {
		return nil, err
	}
	return prediction, nil
}

func (s *predictionService) Mine(ctx context.Context, userID uint) ([]models.PredictionWithDraw, error) {
	return s.predictions.ListByUser(ctx, userID, mineLimit)
}

func (s *predictionService) Today(ctx context.Context, userID uint) (*models.Prediction, error) {
	draw, err := s.draws.GetByDate(ctx, timeutil.MarketDate(s.now()))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	prediction, err := s.predictions.GetByUserAndDraw(ctx, userID, draw.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return prediction, nil
}
