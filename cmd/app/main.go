package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fatefi-backend/internal/common/cache"
	"fatefi-backend/internal/common/config"
	"fatefi-backend/internal/common/logger"
	"fatefi-backend/internal/common/middleware"
	leaderboardhttp "fatefi-backend/internal/features/leaderboard/delivery/http"
	leaderboardrepo "fatefi-backend/internal/features/leaderboard/repository/gorm"
	leaderboardservice "fatefi-backend/internal/features/leaderboard/service"
	markethttp "fatefi-backend/internal/features/market/delivery/http"
	marketrepository "fatefi-backend/internal/features/market/repository"
	marketrepo "fatefi-backend/internal/features/market/repository/gorm"
	marketredis "fatefi-backend/internal/features/market/repository/redis"
	marketservice "fatefi-backend/internal/features/market/service"
	predictionhttp "fatefi-backend/internal/features/prediction/delivery/http"
	predictionrepo "fatefi-backend/internal/features/prediction/repository/gorm"
	predictionservice "fatefi-backend/internal/features/prediction/service"
	"fatefi-backend/internal/features/scoring"
	tarothttp "fatefi-backend/internal/features/tarot/delivery/http"
	tarotrepo "fatefi-backend/internal/features/tarot/repository/gorm"
	tarotservice "fatefi-backend/internal/features/tarot/service"
	userhttp "fatefi-backend/internal/features/user/delivery/http"
	userrepo "fatefi-backend/internal/features/user/repository/gorm"
	userservice "fatefi-backend/internal/features/user/service"
	"fatefi-backend/internal/platform/oracle"
	"fatefi-backend/internal/platform/pool"
	"fatefi-backend/internal/platform/pricefeed"
	redisplatform "fatefi-backend/internal/platform/redis"
	"fatefi-backend/internal/platform/sqlite"
	"fatefi-backend/internal/scheduler"
)

// @title           FateFi API
// @version         1.0
// @description     Daily tarot draws with ETH/USD price predictions, streak scoring and a leaderboard.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token issued by /auth/verify, prefixed with "Bearer "

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger.Init("fatefi-backend", cfg.Debug)

	logger.Info().Bool("debug", cfg.Debug).Msg("Starting FateFi backend")

	db, err := sqlite.Open(cfg.DB.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DB.Path).Msg("Failed to open database")
	}

	// Redis is optional: without it the snapshot mirror and leaderboard cache
	// degrade to the local store.
	var cacheService *cache.Service
	if cfg.Redis.Addr != "" {
		redisClient, err := redisplatform.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, continuing without it")
		} else {
			defer redisClient.Close()
			cacheService = cache.NewService(redisClient)
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connected")
		}
	}

	users := userrepo.NewUserRepository(db)
	draws := tarotrepo.NewTarotRepository(db)
	predictions := predictionrepo.NewPredictionRepository(db)
	snapshots := marketrepo.NewSnapshotRepository(db)
	leaderboard := leaderboardrepo.NewLeaderboardRepository(db)

	var mirror marketrepository.SnapshotMirror
	if cacheService != nil {
		mirror = marketredis.NewSnapshotMirror(cacheService)
	}

	var poolResolver marketservice.PoolResolver
	if cfg.Pool.ContractAddress != "" && cfg.Pool.AdminKey != "" {
		poolClient, err := pool.NewClient(cfg.Pool.ContractAddress, cfg.Pool.AdminKey, cfg.Pool.RPCURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize pool client")
		}
		poolResolver = poolClient
		logger.Info().Str("contract", cfg.Pool.ContractAddress).Msg("On-chain pool resolution enabled")
	}

	authSvc := userservice.NewAuthService(users, cfg.Auth.JWTSecret)
	tarotSvc := tarotservice.NewTarotService(draws, oracle.NewClient(cfg.Oracle.URL, cfg.Oracle.Token))
	predictionSvc := predictionservice.NewPredictionService(predictions, draws)
	scoringSvc := scoring.NewService(db, predictions)
	marketSvc := marketservice.NewMarketService(
		snapshots,
		mirror,
		pricefeed.NewClient(cfg.PriceFeed.URL),
		scoringSvc,
		draws,
		poolResolver,
	)
	leaderboardSvc := leaderboardservice.NewLeaderboardService(leaderboard, cacheService)

	sched := scheduler.New(marketSvc, tarotSvc)
	sched.Start(ctx)
	defer sched.Stop()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.Origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	userhttp.NewAuthHandler(authSvc, cfg.Auth.JWTSecret).RegisterRoutes(api)
	tarothttp.NewTarotHandler(tarotSvc, cfg.Auth.JWTSecret).RegisterRoutes(api)
	predictionhttp.NewPredictionHandler(predictionSvc, cfg.Auth.JWTSecret).RegisterRoutes(api)
	markethttp.NewMarketHandler(marketSvc, cfg.Auth.JWTSecret).RegisterRoutes(api)
	leaderboardhttp.NewLeaderboardHandler(leaderboardSvc, cfg.Auth.JWTSecret).RegisterRoutes(api)

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "fatefi-backend",
		})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shut down")
	}

	logger.Info().Msg("Server exited")
}
