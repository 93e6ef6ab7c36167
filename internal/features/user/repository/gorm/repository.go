package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fatefi-backend/internal/features/user/models"
	"fatefi-backend/internal/features/user/repository"
)

var ErrNotFound = gorm.ErrRecordNotFound

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByWallet(ctx context.Context, wallet string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetOrCreateByWallet(ctx context.Context, wallet string) (*models.User, error) {
	user := models.User{WalletAddress: wallet}
	err := r.db.WithContext(ctx).Where("wallet_address = ?", wallet).FirstOrCreate(&user).Error
	if err != nil {
		// A concurrent first login can lose the insert race; re-read.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.GetByWallet(ctx, wallet)
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ReplaceNonce(ctx context.Context, wallet, nonce string) error {
	row := models.Nonce{WalletAddress: wallet, Nonce: nonce}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet_address"}},
		DoUpdates: clause.AssignmentColumns([]string{"nonce", "created_at"}),
	}).Create(&row).Error
}

func (r *userRepository) GetNonce(ctx context.Context, wallet string) (string, error) {
	var row models.Nonce
	if err := r.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&row).Error; err != nil {
		return "", err
	}
	return row.Nonce, nil
}

func (r *userRepository) DeleteNonce(ctx context.Context, wallet string) error {
	return r.db.WithContext(ctx).Where("wallet_address = ?", wallet).Delete(&models.Nonce{}).Error
}
