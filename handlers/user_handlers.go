package handlers

import (
	"LiquorStore/middleware"
	"LiquorStore/store"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

func LoginHandler(c *gin.Context, accounts *store.Accounts) {
	if email := middleware.AdminEmail(c); email != "" {
		c.JSON(http.StatusOK, gin.H{
			"message": "already signed in",
			"email":   email,
		})
		return
	}

	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid request body",
			"error":   err.Error(),
		})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	token, admin, err := accounts.SignIn(ctx, loginReq.Email, loginReq.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": InvalidCredentialsMessage})
			return
		}
		respondError(c, err, "error signing in")
		return
	}

	c.Header("Authorization", "Bearer "+token)
	c.JSON(http.StatusOK, gin.H{
		"message": "signed in",
		"token":   token,
		"email":   admin.Email,
	})
}

func LogOutHandler(c *gin.Context, accounts *store.Accounts) {
	token := c.GetString(middleware.ContextToken)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no token on request"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := accounts.SignOut(ctx, token); err != nil {
		respondError(c, err, "error signing out")
		return
	}

	c.Header("Authorization", "")
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

func GetSessionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"admin_id": c.GetString(middleware.ContextAdminID),
		"email":    middleware.AdminEmail(c),
	})
}
