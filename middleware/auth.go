package middleware

import (
	"LiquorStore/jwt"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextAdminID    = "AdminID"
	ContextAdminEmail = "AdminEmail"
	ContextToken      = "Token"
)

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*jwt.Claims, error)
}

// AuthMiddleware resolves a bearer token to an admin. Requests without a
// valid token pass through anonymously; RequireAdminSession gates them.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		if token == "" {
			c.Next()
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			zap.L().Debug("reject admin token", zap.Error(err))
			c.Header("Authorization", "")
			c.Next()
			return
		}

		c.Set(ContextToken, token)
		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextAdminEmail, claims.Email)
		c.Next()
	}
}

func AdminEmail(c *gin.Context) string {
	return c.GetString(ContextAdminEmail)
}
