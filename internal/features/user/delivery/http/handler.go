package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fatefi-backend/internal/common/middleware"
	userservice "fatefi-backend/internal/features/user/service"
)

type AuthHandler struct {
	service   userservice.AuthService
	jwtSecret string
}

func NewAuthHandler(service userservice.AuthService, jwtSecret string) *AuthHandler {
	return &AuthHandler{service: service, jwtSecret: jwtSecret}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.GET("/nonce", h.nonce)
		auth.POST("/verify", h.verify)
		auth.GET("/me", middleware.RequireAuth(h.jwtSecret), h.me)
	}
}

type verifyRequest struct {
	WalletAddress string `json:"address" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
}

// @Summary Request a login nonce
// @Description Issues a single-use challenge message for the wallet to sign
// @Tags auth
// @Produce json
// @Param address query string true "Wallet address"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /auth/nonce [get]
func (h *AuthHandler) nonce(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "address is required"})
		return
	}

	nonce, message, err := h.service.IssueNonce(c.Request.Context(), address)
	if errors.Is(err, userservice.ErrInvalidAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid wallet address"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to issue nonce"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"nonce":   nonce,
		"message": message,
	}})
}

// @Summary Verify a signed nonce
// @Description Verifies the wallet signature, creates the account on first login and returns a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param input body verifyRequest true "Wallet address and signature"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/verify [post]
func (h *AuthHandler) verify(c *gin.Context) {
	var input verifyRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	token, user, err := h.service.Verify(c.Request.Context(), input.WalletAddress, input.Signature)
	switch {
	case errors.Is(err, userservice.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid wallet address"})
		return
	case errors.Is(err, userservice.ErrNoNonce):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No nonce issued for this wallet"})
		return
	case errors.Is(err, userservice.ErrMalformedSigHex), errors.Is(err, userservice.ErrBadSignature):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Signature verification failed"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Authentication failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"token": token,
		"user":  user,
	}})
}

// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/me [get]
func (h *AuthHandler) me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if errors.Is(err, userservice.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}
