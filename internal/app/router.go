package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"cabbook/internal/handler"
	"cabbook/internal/middleware"
	"cabbook/internal/service"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler    *handler.AuthHandler
	BookingHandler *handler.BookingHandler
	CatalogHandler *handler.CatalogHandler
	AuthService    *service.AuthService
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.Metrics())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.Idempotency(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics.
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRequired := middleware.AuthRequired(deps.AuthService)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Authentication routes.
		auth := v1.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
			auth.POST("/signup", deps.AuthHandler.Signup)
			auth.POST("/logout", authRequired, deps.AuthHandler.Logout)
			auth.GET("/me", authRequired, deps.AuthHandler.Me)
		}

		// Catalog routes.
		v1.GET("/cabtypes", deps.CatalogHandler.List)

		// Directory listing for the admin dashboard.
		v1.GET("/users", authRequired, deps.AuthHandler.ListUsers)

		// Booking routes.
		bookings := v1.Group("/bookings", authRequired)
		{
			bookings.POST("/quote", deps.BookingHandler.Quote)
			bookings.POST("", deps.BookingHandler.Create)
			bookings.GET("", deps.BookingHandler.List)
			bookings.GET("/:id", deps.BookingHandler.Get)
			bookings.POST("/:id/cancel", deps.BookingHandler.Cancel)
			bookings.POST("/:id/status", deps.BookingHandler.UpdateStatus)
		}
	}

	return router
}
