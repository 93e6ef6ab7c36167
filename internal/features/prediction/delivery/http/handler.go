package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fatefi-backend/internal/common/middleware"
	predictionservice "fatefi-backend/internal/features/prediction/service"
)

type PredictionHandler struct {
	service   predictionservice.PredictionService
	jwtSecret string
}

func NewPredictionHandler(service predictionservice.PredictionService, jwtSecret string) *PredictionHandler {
	return &PredictionHandler{service: service, jwtSecret: jwtSecret}
}

func (h *PredictionHandler) RegisterRoutes(router *gin.RouterGroup) {
	predictions := router.Group("/predictions")
	predictions.Use(middleware.RequireAuth(h.jwtSecret))
	{
		predictions.POST("", h.submit)
		predictions.GET("/mine", h.mine)
		predictions.GET("/today", h.today)
	}
}

type submitRequest struct {
	PredictionType string `json:"prediction_type"`
	SelectedOption string `json:"selected_option" binding:"required"`
}

// @Summary Submit a prediction for today's draw
// @Description One prediction per user per day; the first submission is final
// @Tags predictions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body submitRequest true "Prediction"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /predictions [post]
func (h *PredictionHandler) submit(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	var input submitRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	prediction, err := h.service.Submit(c.Request.Context(), userID, input.PredictionType, input.SelectedOption)
	switch {
	case errors.Is(err, predictionservice.ErrInvalidOption):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid prediction option"})
		return
	case errors.Is(err, predictionservice.ErrNoDrawToday):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No tarot draw available for today yet"})
		return
	case errors.Is(err, predictionservice.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Prediction already submitted for today"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to store prediction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": prediction})
}

// @Summary My prediction history
// @Tags predictions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /predictions/mine [get]
func (h *PredictionHandler) mine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	predictions, err := h.service.Mine(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load predictions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": predictions})
}

// @Summary My prediction for today's draw
// @Description Returns null when no prediction has been made yet
// @Tags predictions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /predictions/today [get]
func (h *PredictionHandler) today(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	prediction, err := h.service.Today(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load prediction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": prediction})
}
