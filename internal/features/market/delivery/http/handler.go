package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fatefi-backend/internal/common/logger"
	"fatefi-backend/internal/common/middleware"
	marketservice "fatefi-backend/internal/features/market/service"
)

type MarketHandler struct {
	service   marketservice.MarketService
	jwtSecret string
}

func NewMarketHandler(service marketservice.MarketService, jwtSecret string) *MarketHandler {
	return &MarketHandler{service: service, jwtSecret: jwtSecret}
}

func (h *MarketHandler) RegisterRoutes(router *gin.RouterGroup) {
	market := router.Group("/market")
	market.Use(middleware.RequireAuth(h.jwtSecret))
	{
		market.GET("/price", h.price)
		market.GET("/yesterday", h.yesterday)
	}
}

// @Summary Current ETH/USD price
// @Description Live price from the feed, falling back to the last recorded observation
// @Tags market
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /market/price [get]
func (h *MarketHandler) price(c *gin.Context) {
	ctx := c.Request.Context()

	snapshot, err := h.service.TodaySnapshot(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load market data"})
		return
	}

	price, liveErr := h.service.FetchPrice(ctx)
	live := liveErr == nil
	if !live {
		if snapshot == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Price feed unavailable"})
			return
		}
		logger.Warn().Err(liveErr).Msg("Price feed unavailable, serving last observation")
		price = snapshot.LatestPrice
	}

	data := gin.H{"price": price, "live": live}
	if snapshot != nil && snapshot.OpenPrice != 0 {
		data["open"] = snapshot.OpenPrice
		data["change_pct"] = (price - snapshot.OpenPrice) / snapshot.OpenPrice * 100
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// @Summary Yesterday's market snapshot
// @Description Returns null when the previous day has no data
// @Tags market
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /market/yesterday [get]
func (h *MarketHandler) yesterday(c *gin.Context) {
	snapshot, err := h.service.YesterdaySnapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load market data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": snapshot})
}
