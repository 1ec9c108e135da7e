package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mufashe/mufashe-api/internal/service"
)

const userIDKey = "userID"

// Auth validates the Authorization header and attaches the user id.
type Auth struct {
	AuthService *service.AuthService
}

// ValidateJWT ensures the request has a valid bearer token.
func (m *Auth) ValidateJWT(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token"})
		return
	}
	userID, err := m.AuthService.ValidateToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}
	c.Set(userIDKey, userID)
	c.Next()
}

// OptionalJWT attaches the user id when a valid bearer token is present and
// lets anonymous requests through otherwise.
func (m *Auth) OptionalJWT(c *gin.Context) {
	if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
		if userID, err := m.AuthService.ValidateToken(token); err == nil {
			c.Set(userIDKey, userID)
		}
	}
	c.Next()
}

// GetUserID returns the authenticated user id, if any.
func GetUserID(c *gin.Context) (int64, bool) {
	value, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
