package gorm

import (
	"context"

	"gorm.io/gorm"

	"fatefi-backend/internal/features/leaderboard/models"
	"fatefi-backend/internal/features/leaderboard/repository"
)

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) repository.LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

// Top aggregates per-user settled/correct counts in one query. Pending
// predictions are excluded from the accuracy denominator.
const topQuery = `
SELECT
	u.id                                    AS user_id,
	u.wallet_address,
	u.username,
	u.total_points,
	u.current_streak,
	u.longest_streak,
	COALESCE(SUM(CASE WHEN p.result != 'pending' THEN 1 ELSE 0 END), 0) AS total_predictions,
	COALESCE(SUM(CASE WHEN p.result = 'correct' THEN 1 ELSE 0 END), 0)  AS correct_predictions
FROM users u
LEFT JOIN predictions p ON p.user_id = u.id
GROUP BY u.id
ORDER BY u.total_points DESC,
	CASE WHEN SUM(CASE WHEN p.result != 'pending' THEN 1 ELSE 0 END) > 0
		THEN CAST(SUM(CASE WHEN p.result = 'correct' THEN 1 ELSE 0 END) AS REAL)
			/ SUM(CASE WHEN p.result != 'pending' THEN 1 ELSE 0 END)
		ELSE 0 END DESC
LIMIT ?`

func (r *leaderboardRepository) Top(ctx context.Context, limit int) ([]models.Entry, error) {
	var entries []models.Entry
	if err := r.db.WithContext(ctx).Raw(topQuery, limit).Scan(&entries).Error; err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Rank = i + 1
		if entries[i].TotalPredictions > 0 {
			entries[i].Accuracy = float64(entries[i].CorrectPredictions) / float64(entries[i].TotalPredictions)
		}
	}
	return entries, nil
}
