package repository

import (
	"context"

	"fatefi-backend/internal/features/leaderboard/models"
)

type LeaderboardRepository interface {
	// Top returns up to limit entries ordered by points, accuracy breaking
	// ties, with ranks assigned.
	Top(ctx context.Context, limit int) ([]models.Entry, error)
}
