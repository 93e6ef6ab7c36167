package repository

import (
	"context"
	"errors"

	"fatefi-backend/internal/features/prediction/models"
)

// ErrDuplicate is returned when a user already has a prediction for the draw.
var ErrDuplicate = errors.New("prediction already exists for this draw")

type PredictionRepository interface {
	// Create inserts a prediction. Returns ErrDuplicate when the (user, draw)
	// pair already has one; the stored prediction is never overwritten.
	Create(ctx context.Context, prediction *models.Prediction) error
	GetByID(ctx context.Context, id uint) (*models.Prediction, error)
	GetByUserAndDraw(ctx context.Context, userID, drawID uint) (*models.Prediction, error)
	// ListByUser returns the user's predictions joined with their draws,
	// newest first.
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.PredictionWithDraw, error)
	// PendingByDraw returns every pending prediction for exactly this draw.
	PendingByDraw(ctx context.Context, drawID uint) ([]models.Prediction, error)
}
