package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"internvault-backend/internal/shared/middleware"
	"internvault-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.FrontendURL),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		// ========================================
		// PUBLIC ROUTES
		// ========================================
		c.AuthHandler.RegisterRoutes(v1)
		c.PricingHandler.RegisterPublicRoutes(v1)
		c.PaymentHandler.RegisterWebhookRoutes(v1)

		// ========================================
		// AUTHENTICATED ROUTES
		// ========================================
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			c.AuthHandler.RegisterProtectedRoutes(authed)
			c.ApplicationHandler.RegisterRoutes(authed)
			c.PaymentHandler.RegisterRoutes(authed)
		}

		// ========================================
		// ADMIN ROUTES
		// ========================================
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
		{
			c.PricingHandler.RegisterAdminRoutes(admin)
			c.ApplicationHandler.RegisterAdminRoutes(admin)
			c.PaymentHandler.RegisterAdminRoutes(admin)
		}
	}

	return router
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		if err := c.DB.HealthCheck(checkCtx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"error":  "database unreachable",
			})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
