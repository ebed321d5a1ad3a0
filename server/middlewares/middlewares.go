package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mealmux/mealmux/model"
	"gorm.io/gorm"
)

// ContextUserKey is where the resolved user id is stored on the gin context.
// Handlers read it through api.RequesterID instead of touching the key
// directly.
const ContextUserKey = "user_id"

// TokenAuth resolves the "Authorization: Token <key>" header against the
// auth_tokens table and attaches the owning user's id to the request
// context. A request without the header passes through as anonymous; a
// request that presents an invalid token is rejected outright, never
// silently downgraded to anonymous.
func TokenAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		key := strings.TrimPrefix(header, "Token ")
		if key == header || key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authorization header."})
			c.Abort()
			return
		}

		var token model.AuthToken
		result := db.Where("key = ?", key).First(&token)
		if result.RowsAffected != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token."})
			c.Abort()
			return
		}

		c.Set(ContextUserKey, token.UserID)
		c.Next()
	}
}

// RequireUser guards endpoints that need an authenticated identity. It must
// be mounted after TokenAuth.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ContextUserKey); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			c.Abort()
			return
		}
		c.Next()
	}
}
