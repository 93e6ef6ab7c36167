package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fatefi-backend/internal/features/tarot/models"
	"fatefi-backend/internal/features/tarot/repository"
)

type tarotRepository struct {
	db *gorm.DB
}

func NewTarotRepository(db *gorm.DB) repository.TarotRepository {
	return &tarotRepository{db: db}
}

func (r *tarotRepository) GetByID(ctx context.Context, id uint) (*models.TarotDraw, error) {
	var draw models.TarotDraw
	if err := r.db.WithContext(ctx).First(&draw, id).Error; err != nil {
		return nil, err
	}
	return &draw, nil
}

func (r *tarotRepository) GetByDate(ctx context.Context, date string) (*models.TarotDraw, error) {
	var draw models.TarotDraw
	if err := r.db.WithContext(ctx).Where("date = ?", date).First(&draw).Error; err != nil {
		return nil, err
	}
	return &draw, nil
}

func (r *tarotRepository) Create(ctx context.Context, draw *models.TarotDraw) (*models.TarotDraw, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}).Create(draw).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}
	// DoNothing leaves draw.ID zero when the row already existed; either way
	// the stored row for the date is the answer.
	return r.GetByDate(ctx, draw.Date)
}

func (r *tarotRepository) History(ctx context.Context, limit int) ([]models.TarotDraw, error) {
	var draws []models.TarotDraw
	err := r.db.WithContext(ctx).Order("date DESC").Limit(limit).Find(&draws).Error
	return draws, err
}

func (r *tarotRepository) SetInterpretation(ctx context.Context, id uint, interpretation string) error {
	return r.db.WithContext(ctx).Model(&models.TarotDraw{}).
		Where("id = ?", id).
		Update("ai_interpretation", interpretation).Error
}

func (r *tarotRepository) LatestDrawDate(ctx context.Context) (string, error) {
	var draw models.TarotDraw
	err := r.db.WithContext(ctx).Order("date DESC").First(&draw).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return draw.Date, nil
}
