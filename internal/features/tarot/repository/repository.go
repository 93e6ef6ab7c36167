package repository

import (
	"context"

	"fatefi-backend/internal/features/tarot/models"
)

type TarotRepository interface {
	GetByID(ctx context.Context, id uint) (*models.TarotDraw, error)
	GetByDate(ctx context.Context, date string) (*models.TarotDraw, error)
	// Create inserts the draw for its date. If a draw for that date already
	// exists the existing row is returned instead; a date never gets two rows.
	Create(ctx context.Context, draw *models.TarotDraw) (*models.TarotDraw, error)
	History(ctx context.Context, limit int) ([]models.TarotDraw, error)
	SetInterpretation(ctx context.Context, id uint, interpretation string) error
	// LatestDrawDate returns the most recent draw date, or "" when no draws
	// exist. Used to seed the scheduler's card-creation watermark.
	LatestDrawDate(ctx context.Context) (string, error)
}
