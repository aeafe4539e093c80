package routers

import (
	"LiquorStore/config"
	"LiquorStore/handlers"
	"LiquorStore/middleware"
	"LiquorStore/session"
	"LiquorStore/store"
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Services struct {
	DB       *gorm.DB
	Catalog  *store.Catalog
	Cart     *store.Cart
	Admin    *store.Admin
	Accounts *store.Accounts
	Sessions *session.Provider
}

func corsConfig(baseURL string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.APIKeyHeader, session.HeaderName},
		ExposeHeaders: []string{"Authorization", "Location", session.HeaderName},
		MaxAge:        12 * time.Hour,
	}
	if baseURL == "" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{baseURL}
		cfg.AllowCredentials = true
	}
	return cfg
}

func SetupRouters(cfg config.Config, s Services) *gin.Engine {
	router := gin.New()
	router.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(zap.L(), true))
	router.Use(cors.New(corsConfig(cfg.Storefront.BaseURL)))
	_ = router.SetTrustedProxies(nil)

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		sqlDB, err := s.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(middleware.RequireAPIKey(cfg.Storefront.PublicAPIKey), middleware.AuthMiddleware(s.Accounts))
	{
		api.GET("/products", func(context *gin.Context) {
			handlers.GetProductListHandler(context, s.Catalog)
		})
		api.GET("/categories", func(context *gin.Context) {
			handlers.GetCategoryListHandler(context, s.Catalog)
		})
		api.GET("/products/:productID", func(context *gin.Context) {
			handlers.GetProductDataHandler(context, s.Catalog)
		})

		carts := api.Group("/carts")
		carts.Use(s.Sessions.Middleware())
		{
			carts.GET("", func(context *gin.Context) {
				handlers.GetCartHandler(context, s.Cart)
			})
			carts.POST("", func(context *gin.Context) {
				handlers.AddToCartHandler(context, s.Cart)
			})
			carts.PATCH("/:itemID", func(context *gin.Context) {
				handlers.UpdateCartItemQuantityHandler(context, s.Cart)
			})
			carts.DELETE("/:itemID", func(context *gin.Context) {
				handlers.DeleteCartItemHandler(context, s.Cart)
			})
			carts.DELETE("", func(context *gin.Context) {
				handlers.ClearCartHandler(context, s.Cart)
			})
		}

		api.POST("/admin/login", func(context *gin.Context) {
			handlers.LoginHandler(context, s.Accounts)
		})

		adminRequired := api.Group("/admin")
		adminRequired.Use(middleware.RequireAdminSession())
		{
			adminRequired.GET("/session", handlers.GetSessionHandler)
			adminRequired.POST("/logout", func(context *gin.Context) {
				handlers.LogOutHandler(context, s.Accounts)
			})
			adminRequired.POST("/products", func(context *gin.Context) {
				handlers.CreateProductHandler(context, s.Admin)
			})
			adminRequired.POST("/products/:productID/variants", func(context *gin.Context) {
				handlers.AddVariantHandler(context, s.Admin)
			})
			adminRequired.GET("/products/export", func(context *gin.Context) {
				handlers.ExportProductsHandler(context, s.Admin)
			})
			adminRequired.PUT("/categories", func(context *gin.Context) {
				handlers.UpsertCategoryHandler(context, s.Admin)
			})
		}
	}

	return router
}
