package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dockhand/internal/domain/catalog"
	"dockhand/internal/domain/location"
	"dockhand/internal/domain/receipt"
)

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	manager   *receipt.Manager
	hierarchy *location.Hierarchy
	catalog   *catalog.Cache
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(manager *receipt.Manager, hierarchy *location.Hierarchy, cat *catalog.Cache) *HealthHandler {
	return &HealthHandler{manager: manager, hierarchy: hierarchy, catalog: cat}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe. The service can compose drafts as soon as
// the reference caches hold a snapshot; an empty warehouse list is a valid
// (pseudo-locations only) configuration, so readiness never fails on it.
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]any{
			"warehouses": len(h.hierarchy.Warehouses()),
			"products":   len(h.catalog.Products()),
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":     "dockhand",
		"version": "0.1.0",
		"sessions": map[string]any{
			"active": h.manager.Count(),
		},
	})
}
