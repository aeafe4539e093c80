package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const AdminLoginPath = "/admin/login"

// RequireAdminSession aborts requests that carry no signed-in admin and
// points the client at the login page.
func RequireAdminSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextAdminID); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "admin login required",
				"redirect": AdminLoginPath,
			})
			return
		}
		c.Next()
	}
}
