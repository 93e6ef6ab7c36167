package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fatefi-backend/internal/common/middleware"
	"fatefi-backend/internal/common/validation"
	"fatefi-backend/internal/features/user/models"
	"fatefi-backend/internal/features/user/repository"
)

const (
	signMessageTemplate = "Sign this message to authenticate with FateFi:\n\nNonce: %s"
	sessionTTL          = 7 * 24 * time.Hour
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidAddress  = errors.New("invalid wallet address")
	ErrNoNonce         = errors.New("no nonce found for wallet")
	ErrBadSignature    = errors.New("signature verification failed")
	ErrMalformedSigHex = errors.New("signature is not valid hex")
)

type AuthService interface {
	// IssueNonce creates a fresh login challenge for the wallet and returns
	// the exact message the wallet must sign.
	IssueNonce(ctx context.Context, address string) (nonce, message string, err error)
	// Verify checks the personal_sign signature against the stored nonce,
	// consumes the nonce, creates the user on first login, and returns a
	// session token.
	Verify(ctx context.Context, address, signature string) (token string, user *models.User, err error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

type authService struct {
	repo      repository.UserRepository
	jwtSecret string
}

func NewAuthService(repo repository.UserRepository, jwtSecret string) AuthService {
	return &authService{repo: repo, jwtSecret: jwtSecret}
}

func (s *authService) IssueNonce(ctx context.Context, address string) (string, string, error) {
	if err := validation.ValidateWalletAddress(address); err != nil {
		return "", "", ErrInvalidAddress
	}
	wallet := validation.NormalizeWalletAddress(address)

	nonce := uuid.New().String()
	if err := s.repo.ReplaceNonce(ctx, wallet, nonce); err != nil {
		return "", "", err
	}

	return nonce, fmt.Sprintf(signMessageTemplate, nonce), nil
}

func (s *authService) Verify(ctx context.Context, address, signature string) (string, *models.User, error) {
	if err := validation.ValidateWalletAddress(address); err != nil {
		return "", nil, ErrInvalidAddress
	}
	wallet := validation.NormalizeWalletAddress(address)

	nonce, err := s.repo.GetNonce(ctx, wallet)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrNoNonce
	}
	if err != nil {
		return "", nil, err
	}

	message := fmt.Sprintf(signMessageTemplate, nonce)
	recovered, err := recoverSigner(message, signature)
	if err != nil {
		return "", nil, err
	}
	if recovered != wallet {
		return "", nil, ErrBadSignature
	}

	// Nonce is single-use; burn it before issuing the session.
	if err := s.repo.DeleteNonce(ctx, wallet); err != nil {
		return "", nil, err
	}

	user, err := s.repo.GetOrCreateByWallet(ctx, wallet)
	if err != nil {
		return "", nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// recoverSigner recovers the lowercased address that produced a personal_sign
// signature over message.
func recoverSigner(message, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		return "", ErrMalformedSigHex
	}

	// Wallets emit V as 27/28; go-ethereum expects 0/1.
	sigCopy := make([]byte, len(sig))
	copy(sigCopy, sig)
	if sigCopy[crypto.RecoveryIDOffset] >= 27 {
		sigCopy[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sigCopy)
	if err != nil {
		return "", ErrBadSignature
	}

	return validation.NormalizeWalletAddress(crypto.PubkeyToAddress(*pub).Hex()), nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	claims := middleware.SessionClaims{
		UserID: user.ID,
		Wallet: user.WalletAddress,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}
