package middlewares

import (
	"codeclash/internal/services"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie = "access_token"

	teamIDContextKey   = "teamID"
	teamNameContextKey = "teamName"
)

// AuthMiddleware creates a middleware that enforces authentication.
// It validates the access token from the cookie and sets the team in the context.
func AuthMiddleware(tokenService *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(AccessTokenCookie)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			c.Abort()
			return
		}

		claims, err := tokenService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(teamIDContextKey, claims.TeamID)
		c.Set(teamNameContextKey, claims.TeamName)
		c.Next()
	}
}

// OptionalAuthMiddleware creates a middleware that checks for authentication but doesn't enforce it.
// If a valid token is present, it sets the team in the context. Otherwise, it continues without it.
func OptionalAuthMiddleware(tokenService *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(AccessTokenCookie)
		if err != nil || strings.TrimSpace(tokenString) == "" {
			c.Next()
			return
		}

		claims, err := tokenService.ValidateToken(tokenString)
		if err == nil && claims != nil {
			c.Set(teamIDContextKey, claims.TeamID)
			c.Set(teamNameContextKey, claims.TeamName)
		}

		c.Next()
	}
}

// TeamFromContext returns the authenticated team id, if any.
func TeamFromContext(c *gin.Context) (int, bool) {
	value, exists := c.Get(teamIDContextKey)
	if !exists {
		return 0, false
	}
	teamID, ok := value.(int)
	return teamID, ok
}
