package middleware

import (
	"context"
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"pawsitivity/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// JWTAuthMiddleware validates JWT tokens, rejects blacklisted (logged-out)
// tokens, and stores the caller's identity in the request context.
func JWTAuthMiddleware(secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseJWT(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		// Logged-out tokens stay invalid until they expire. A failed check is
		// logged but does not lock out every caller while Redis is down.
		blocked, err := utils.IsTokenBlacklisted(context.Background(), rdb, claims.ID)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": claims.UserID,
				"error":   err.Error(),
			}).Error("Token blacklist check failed")
		}
		if blocked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set("userID", claims.UserID) // Store userID in context
		c.Set("claims", claims)        // Full claims, needed by logout
		c.Next()
	}
}
