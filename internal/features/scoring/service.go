// Package scoring applies resolved market outcomes to pending predictions
// and keeps user points and streaks consistent with them.
package scoring

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fatefi-backend/internal/common/logger"
	predictionmodels "fatefi-backend/internal/features/prediction/models"
	predictionrepo "fatefi-backend/internal/features/prediction/repository"
	usermodels "fatefi-backend/internal/features/user/models"
)

const (
	// PointsCorrect is the base award for a correct prediction.
	PointsCorrect = 10
	// StreakBonus is awarded per unit of the new streak length on top of the
	// base award, so sustained correctness pays progressively more.
	StreakBonus = 2
)

type Service interface {
	// ScorePrediction settles one prediction. No-op when the prediction does
	// not exist or is no longer pending, so it can never double-score.
	ScorePrediction(ctx context.Context, predictionID uint, isCorrect bool) error
	// ResolveDrawPredictions settles every pending prediction for the draw
	// against the winning option.
	ResolveDrawPredictions(ctx context.Context, drawID uint, winningOption string) error
}

type service struct {
	db          *gorm.DB
	predictions predictionrepo.PredictionRepository
}

// NewService builds the scoring engine. It takes the database handle directly
// because prediction result and user stats must change in one transaction.
func NewService(db *gorm.DB, predictions predictionrepo.PredictionRepository) Service {
	return &service{db: db, predictions: predictions}
}

func (s *service) ScorePrediction(ctx context.Context, predictionID uint, isCorrect bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prediction predictionmodels.Prediction
		if err := tx.First(&prediction, predictionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Debug().Uint("prediction_id", predictionID).Msg("Scoring skipped: prediction not found")
				return nil
			}
			return err
		}

		if prediction.Result != predictionmodels.ResultPending {
			logger.Debug().Uint("prediction_id", predictionID).Str("result", prediction.Result).
				Msg("Scoring skipped: prediction not pending")
			return nil
		}

		result := predictionmodels.ResultIncorrect
		score := 0
		if isCorrect {
			result = predictionmodels.ResultCorrect
			score = PointsCorrect
		}

		if err := tx.Model(&prediction).Updates(map[string]interface{}{
			"result": result,
			"score":  score,
		}).Error; err != nil {
			return err
		}

		var user usermodels.User
		if err := tx.First(&user, prediction.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn().Uint("user_id", prediction.UserID).Msg("Scoring skipped user update: user not found")
				return nil
			}
			return err
		}

		if isCorrect {
			newStreak := user.CurrentStreak + 1
			longest := user.LongestStreak
			if newStreak > longest {
				longest = newStreak
			}
			return tx.Model(&user).Updates(map[string]interface{}{
				"total_points":   user.TotalPoints + score + newStreak*StreakBonus,
				"current_streak": newStreak,
				"longest_streak": longest,
			}).Error
		}

		// One miss breaks the whole streak. Points and longest streak keep.
		return tx.Model(&user).Update("current_streak", 0).Error
	})
}

func (s *service) ResolveDrawPredictions(ctx context.Context, drawID uint, winningOption string) error {
	pending, err := s.predictions.PendingByDraw(ctx, drawID)
	if err != nil {
		return err
	}

	for _, prediction := range pending {
		correct := prediction.SelectedOption == winningOption
		if err := s.ScorePrediction(ctx, prediction.ID, correct); err != nil {
			// Each settlement is independent; keep going so one bad row
			// cannot freeze the rest of the batch.
			logger.Error().Err(err).Uint("prediction_id", prediction.ID).Msg("Failed to score prediction")
		}
	}

	logger.Info().Uint("draw_id", drawID).Str("winning_option", winningOption).
		Int("count", len(pending)).Msg("Resolved draw predictions")
	return nil
}
