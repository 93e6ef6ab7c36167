package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fatefi-backend/internal/features/market/models"
	"fatefi-backend/internal/features/market/repository"
)

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) GetByDate(ctx context.Context, date string) (*models.PriceSnapshot, error) {
	var snapshot models.PriceSnapshot
	if err := r.db.WithContext(ctx).Where("date = ?", date).First(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *snapshotRepository) Create(ctx context.Context, snapshot *models.PriceSnapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

func (r *snapshotRepository) UpdatePrices(ctx context.Context, date string, latest, high, low float64) error {
	return r.db.WithContext(ctx).Model(&models.PriceSnapshot{}).
		Where("date = ? AND resolved = ?", date, false).
		Updates(map[string]interface{}{
			"latest_price": latest,
			"high_price":   high,
			"low_price":    low,
		}).Error
}

func (r *snapshotRepository) MarkResolved(ctx context.Context, date string, closePrice float64, outcome string) error {
	return r.db.WithContext(ctx).Model(&models.PriceSnapshot{}).
		Where("date = ? AND resolved = ?", date, false).
		Updates(map[string]interface{}{
			"close_price":      closePrice,
			"resolved":         true,
			"resolved_outcome": outcome,
		}).Error
}

func (r *snapshotRepository) LatestResolvedDate(ctx context.Context) (string, error) {
	var snapshot models.PriceSnapshot
	err := r.db.WithContext(ctx).Where("resolved = ?", true).Order("date DESC").First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return snapshot.Date, nil
}
