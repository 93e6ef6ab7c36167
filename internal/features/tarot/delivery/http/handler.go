package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fatefi-backend/internal/common/middleware"
	tarotservice "fatefi-backend/internal/features/tarot/service"
)

type TarotHandler struct {
	service   tarotservice.TarotService
	jwtSecret string
}

func NewTarotHandler(service tarotservice.TarotService, jwtSecret string) *TarotHandler {
	return &TarotHandler{service: service, jwtSecret: jwtSecret}
}

func (h *TarotHandler) RegisterRoutes(router *gin.RouterGroup) {
	tarot := router.Group("/tarot")
	tarot.Use(middleware.RequireAuth(h.jwtSecret))
	{
		tarot.GET("/today", h.today)
		tarot.GET("/history", h.history)
	}
}

// @Summary Today's tarot draw
// @Description Returns today's deterministic card, creating it on first request
// @Tags tarot
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /tarot/today [get]
func (h *TarotHandler) today(c *gin.Context) {
	draw, err := h.service.TodayDraw(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load today's draw"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": draw})
}

// @Summary Recent tarot draws
// @Tags tarot
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /tarot/history [get]
func (h *TarotHandler) history(c *gin.Context) {
	draws, err := h.service.History(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load draw history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": draws})
}
