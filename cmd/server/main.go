// Package main is the entry point for the dockhand receiving API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dockhand/internal/config"
	"dockhand/internal/domain/catalog"
	"dockhand/internal/domain/location"
	"dockhand/internal/domain/receipt"
	"dockhand/internal/infrastructure/backend"
	v1 "dockhand/internal/infrastructure/http/v1"
	"dockhand/internal/infrastructure/http/v1/middleware"
	"dockhand/pkg/logger"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting dockhand server")

	// --- Backend client ---
	client := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	})

	// --- Reference caches ---
	hierarchy := location.NewHierarchy()
	if err := client.LoadHierarchy(ctx, hierarchy); err != nil {
		log.Fatalw("failed to load location hierarchy", "error", err)
	}
	log.Infow("location hierarchy loaded", "warehouses", len(hierarchy.Warehouses()))

	productCatalog := catalog.NewCache()
	if err := client.LoadProducts(ctx, productCatalog); err != nil {
		log.Fatalw("failed to load product catalog", "error", err)
	}
	log.Infow("product catalog loaded", "products", len(productCatalog.Products()))

	// --- Session manager ---
	manager := receipt.NewManager(client, productCatalog, hierarchy, client)

	// --- Rate limiter ---
	rateLimit := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimit.Requests > 0 && cfg.RateLimit.Duration > 0 {
		rateLimit.RequestsPerSecond = float64(cfg.RateLimit.Requests) / float64(cfg.RateLimit.Duration)
		rateLimit.BurstSize = cfg.RateLimit.Requests
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:    log,
		Manager:   manager,
		Hierarchy: hierarchy,
		Catalog:   productCatalog,
		Loader:    client,
		CORS:      &cfg.CORS,
		RateLimit: &rateLimit,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
