package gorm

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"fatefi-backend/internal/features/prediction/models"
	"fatefi-backend/internal/features/prediction/repository"
)

type predictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) repository.PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Create(ctx context.Context, prediction *models.Prediction) error {
	err := r.db.WithContext(ctx).Create(prediction).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

// isUniqueViolation covers sqlite drivers that surface constraint errors as
// plain strings rather than gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *predictionRepository) GetByID(ctx context.Context, id uint) (*models.Prediction, error) {
	var prediction models.Prediction
	if err := r.db.WithContext(ctx).First(&prediction, id).Error; err != nil {
		return nil, err
	}
	return &prediction, nil
}

func (r *predictionRepository) GetByUserAndDraw(ctx context.Context, userID, drawID uint) (*models.Prediction, error) {
	var prediction models.Prediction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND tarot_draw_id = ?", userID, drawID).
		First(&prediction).Error
	if err != nil {
		return nil, err
	}
	return &prediction, nil
}

func (r *predictionRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.PredictionWithDraw, error) {
	var rows []models.PredictionWithDraw
	err := r.db.WithContext(ctx).
		Table("predictions").
		Select("predictions.*, tarot_draws.card_name, tarot_draws.orientation, tarot_draws.date AS draw_date").
		Joins("JOIN tarot_draws ON tarot_draws.id = predictions.tarot_draw_id").
		Where("predictions.user_id = ?", userID).
		Order("predictions.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *predictionRepository) PendingByDraw(ctx context.Context, drawID uint) ([]models.Prediction, error) {
	var predictions []models.Prediction
	err := r.db.WithContext(ctx).
		Where("tarot_draw_id = ? AND result = ?", drawID, models.ResultPending).
		Find(&predictions).Error
	return predictions, err
}
