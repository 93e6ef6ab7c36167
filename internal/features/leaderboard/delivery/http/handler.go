package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fatefi-backend/internal/common/middleware"
	leaderboardservice "fatefi-backend/internal/features/leaderboard/service"
)

type LeaderboardHandler struct {
	service   leaderboardservice.LeaderboardService
	jwtSecret string
}

func NewLeaderboardHandler(service leaderboardservice.LeaderboardService, jwtSecret string) *LeaderboardHandler {
	return &LeaderboardHandler{service: service, jwtSecret: jwtSecret}
}

func (h *LeaderboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/leaderboard", middleware.RequireAuth(h.jwtSecret), h.top)
}

// @Summary Top players
// @Description Top 100 by points, accuracy breaking ties
// @Tags leaderboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /leaderboard [get]
func (h *LeaderboardHandler) top(c *gin.Context) {
	entries, err := h.service.Top(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": entries})
}
