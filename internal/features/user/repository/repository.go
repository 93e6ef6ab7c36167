package repository

import (
	"context"

	"fatefi-backend/internal/features/user/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByWallet(ctx context.Context, wallet string) (*models.User, error)
	// GetOrCreateByWallet returns the existing account for the wallet or
	// creates an empty one. Wallet must already be normalized.
	GetOrCreateByWallet(ctx context.Context, wallet string) (*models.User, error)

	// ReplaceNonce stores a fresh login challenge, overwriting any previous
	// one for the wallet.
	ReplaceNonce(ctx context.Context, wallet, nonce string) error
	GetNonce(ctx context.Context, wallet string) (string, error)
	DeleteNonce(ctx context.Context, wallet string) error
}
