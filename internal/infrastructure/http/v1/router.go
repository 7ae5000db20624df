// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"dockhand/internal/config"
	"dockhand/internal/domain/catalog"
	"dockhand/internal/domain/location"
	"dockhand/internal/domain/receipt"
	"dockhand/internal/infrastructure/http/v1/handlers"
	"dockhand/internal/infrastructure/http/v1/middleware"
	"dockhand/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Manager holds the live composer sessions
	Manager *receipt.Manager

	// Hierarchy is the shared location cache
	Hierarchy *location.Hierarchy

	// Catalog is the shared product cache
	Catalog *catalog.Cache

	// Loader refreshes the reference caches on demand
	Loader handlers.ReferenceLoader

	// CORS configuration
	CORS *config.CORSConfig

	// RateLimit enables per-client rate limiting when non-nil
	RateLimit *middleware.RateLimiterConfig
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	if cfg.CORS != nil {
		router.Use(middleware.CORS(cfg.CORS))
	}

	// Health endpoints (no rate limit)
	healthHandler := handlers.NewHealthHandler(cfg.Manager, cfg.Hierarchy, cfg.Catalog)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	if cfg.RateLimit != nil {
		limiter := middleware.NewClientRateLimiter(*cfg.RateLimit)
		api.Use(limiter.Middleware())
	}
	{
		baseHandler := handlers.NewBaseHandler()

		referenceHandler := handlers.NewReferenceHandler(baseHandler, cfg.Hierarchy, cfg.Catalog, cfg.Loader)
		referenceHandler.RegisterRoutes(api)

		sessionHandler := handlers.NewSessionHandler(baseHandler, cfg.Manager)
		sessionHandler.RegisterRoutes(api)
	}

	return router
}
