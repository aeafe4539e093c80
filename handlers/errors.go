package handlers

import (
	"LiquorStore/store"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const requestTimeout = 5 * time.Second

// InvalidCredentialsMessage is shown to the client as is.
const InvalidCredentialsMessage = "Invalid login credentials"

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrVariantNotFound),
		errors.Is(err, store.ErrCartItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidQuantity),
		errors.Is(err, store.ErrInsufficientStock),
		errors.Is(err, store.ErrInvalidInput),
		errors.Is(err, store.ErrNotSignedIn):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrAdminExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError maps a store error onto its HTTP status. Server-side failures
// are logged; client errors are not.
func respondError(c *gin.Context, err error, message string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zap.L().Error(message, zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{
		"message": message,
		"error":   err.Error(),
	})
}
