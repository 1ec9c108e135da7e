package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mufashe/mufashe-api/internal/http/middleware"
	"github.com/mufashe/mufashe-api/internal/service"
)

// AuthHandler serves the account endpoints.
type AuthHandler struct {
	Auth   *service.AuthService
	Logger *zap.Logger
}

// NewAuthHandler creates the handler set.
func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger}
}

// Me returns the profile bound to the bearer token.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No token"})
		return
	}

	profile, err := h.Auth.GetUserInfo(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Google is a placeholder for federated sign-in.
func (h *AuthHandler) Google(c *gin.Context) {
	resp, err := h.Auth.GoogleLogin(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
