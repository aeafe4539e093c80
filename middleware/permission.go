package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const APIKeyHeader = "X-API-KEY"

// RequireAPIKey checks the public API key. An empty key disables the check.
func RequireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := c.GetHeader(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			return
		}
		c.Next()
	}
}
