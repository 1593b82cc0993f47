package middleware

import (
	"fundry/database"
	"fundry/models"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userContextKey = "current_user"

func AuthRequired(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			c.Abort()
			return
		}

		apiKey := parts[1]

		// Validate API key against database
		ctx := c.Request.Context()
		user, err := db.GetUserByAPIKey(ctx, apiKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			c.Abort()
			return
		}

		// Store user in context for handlers to use
		c.Set(userContextKey, user)

		c.Next()
	}
}

// CurrentUser returns the authenticated user set by AuthRequired.
// Only valid on routes behind the middleware.
func CurrentUser(c *gin.Context) *models.User {
	user, _ := c.MustGet(userContextKey).(*models.User)
	return user
}
