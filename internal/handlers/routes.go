package handlers

import (
	"net/http"
	"time"

	"github.com/developia-II/vendora-onboarding/internal/middleware"
	"github.com/developia-II/vendora-onboarding/internal/services/vendor"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func SetupRoutes(router *gin.Engine, svc *vendor.Service, allowedOrigins []string) {
	logrus.Info("Setting up routes...")

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Server is running!",
			"status":  "ok",
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "vendora-onboarding",
		})
	})

	if svc == nil {
		logrus.Warn("Database not connected - running with limited functionality")
		router.Any("/api/*path", func(c *gin.Context) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Database connection not available",
				"message": "The server is running but could not connect to the database. Please check server logs.",
			})
		})
		return
	}

	onboardingHandler := NewOnboardingHandler(svc)
	uploadHandler := NewUploadHandler(svc)

	// Protected Routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware())
	{
		// Admins review applications; they never onboard as vendors.
		vendorGroup := protected.Group("/onboarding/vendor")
		vendorGroup.Use(middleware.RoleMiddleware("customer", "vendor", "seller"))
		{
			vendorGroup.GET("", onboardingHandler.GetState)
			vendorGroup.PATCH("/application", onboardingHandler.UpdateApplication)
			vendorGroup.POST("/next", onboardingHandler.Next)
			vendorGroup.POST("/prev", onboardingHandler.Prev)
			vendorGroup.POST("/jump/:step", onboardingHandler.JumpTo)
			vendorGroup.POST("/submit", onboardingHandler.Submit)

			documents := vendorGroup.Group("/documents")
			{
				documents.GET("", uploadHandler.ListDocuments)
				documents.POST("/:slot", uploadHandler.UploadDocument)
				documents.POST("/:slot/retry", uploadHandler.RetryDocument)
				documents.DELETE("/:slot", uploadHandler.ClearDocument)
			}
		}
	}
}
