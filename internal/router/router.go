// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dealradar/dealradar-backend/internal/config"
	"github.com/dealradar/dealradar-backend/internal/handlers"
	"github.com/dealradar/dealradar-backend/internal/middleware"
	"github.com/dealradar/dealradar-backend/internal/services"
	"github.com/dealradar/dealradar-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	pricingService := services.NewPricingService(db)
	notificationService := services.NewNotificationService(nil)

	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db, pricingService)
	favoriteService := services.NewFavoriteService(db)
	alertService := services.NewAlertService(db)
	statsService := services.NewStatsService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	alertHandler := handlers.NewAlertHandler(alertService)
	statsHandler := handlers.NewStatsHandler(statsService)
	adminHandler := handlers.NewAdminHandler(productService, notificationService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   "1.0.0",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Service banner
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "dealradar-backend",
			"version": "1.0.0",
			"endpoints": gin.H{
				"auth":      "/v1/auth",
				"products":  "/v1/products",
				"stats":     "/v1/stats",
				"favorites": "/v1/favorites",
				"alerts":    "/v1/alerts",
				"health":    "/health",
			},
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(db), authHandler.GetProfile)
		}

		// Product routes (public catalog)
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(db), productHandler.GetProducts)
			products.GET("/:id", middleware.OptionalAuth(db), productHandler.GetProduct)
		}

		// Statistics routes (public)
		v1.GET("/stats", statsHandler.GetStats)

		// Favorite routes
		favorites := v1.Group("/favorites")
		favorites.Use(middleware.AuthRequired(db))
		{
			favorites.GET("", favoriteHandler.GetFavorites)
			favorites.POST("", favoriteHandler.AddFavorite)
			favorites.DELETE("/:product_id", favoriteHandler.RemoveFavorite)
		}

		// Price alert routes
		alerts := v1.Group("/alerts")
		alerts.Use(middleware.AuthRequired(db))
		{
			alerts.GET("", alertHandler.GetAlerts)
			alerts.POST("", alertHandler.CreateAlert)
			alerts.PUT("/:id/deactivate", alertHandler.DeactivateAlert)
			alerts.DELETE("/:id", alertHandler.DeleteAlert)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(db), middleware.AdminRequired())
		{
			adminProducts := admin.Group("/products")
			{
				adminProducts.POST("", adminHandler.CreateProduct)
				adminProducts.PUT("/:id", adminHandler.UpdateProduct)
				adminProducts.DELETE("/:id", adminHandler.DeleteProduct)
			}
		}
	}

	return r
}
