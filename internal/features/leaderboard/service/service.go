package service

import (
	"context"
	"time"

	"fatefi-backend/internal/common/cache"
	"fatefi-backend/internal/common/logger"
	"fatefi-backend/internal/features/leaderboard/models"
	"fatefi-backend/internal/features/leaderboard/repository"
)

const (
	topLimit = 100
	cacheKey = "leaderboard:top"
	cacheTTL = time.Minute
)

type LeaderboardService interface {
	// Top returns the ranked top players, served from cache when fresh.
	Top(ctx context.Context) ([]models.Entry, error)
}

type leaderboardService struct {
	repo  repository.LeaderboardRepository
	cache *cache.Service
}

func NewLeaderboardService(repo repository.LeaderboardRepository, cacheService *cache.Service) LeaderboardService {
	return &leaderboardService{repo: repo, cache: cacheService}
}

func (s *leaderboardService) Top(ctx context.Context) ([]models.Entry, error) {
	var entries []models.Entry
	err := s.cache.GetOrSet(ctx, cacheKey, &entries, cacheTTL, func() (interface{}, error) {
		return s.repo.Top(ctx, topLimit)
	})
	if err == nil {
		return entries, nil
	}

	// Cache trouble must not take the leaderboard down.
	logger.Warn().Err(err).Msg("Leaderboard cache unavailable, querying store directly")
	return s.repo.Top(ctx, topLimit)
}
