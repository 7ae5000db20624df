package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"dockhand/internal/core/apperror"
	"dockhand/internal/domain/catalog"
	"dockhand/internal/domain/location"
)

// ReferenceLoader refreshes the shared caches from the collaborator services.
type ReferenceLoader interface {
	LoadHierarchy(ctx context.Context, h *location.Hierarchy) error
	LoadProducts(ctx context.Context, cache *catalog.Cache) error
}

// ReferenceHandler serves the cached location hierarchy and product catalog.
// Reads never hit the network; Refresh swaps in fresh snapshots.
type ReferenceHandler struct {
	*BaseHandler
	hierarchy *location.Hierarchy
	catalog   *catalog.Cache
	loader    ReferenceLoader
}

// NewReferenceHandler creates a reference-data handler.
func NewReferenceHandler(base *BaseHandler, hierarchy *location.Hierarchy, cat *catalog.Cache, loader ReferenceLoader) *ReferenceHandler {
	return &ReferenceHandler{
		BaseHandler: base,
		hierarchy:   hierarchy,
		catalog:     cat,
		loader:      loader,
	}
}

// Warehouses returns all cached warehouses.
// GET /api/v1/warehouses
func (h *ReferenceHandler) Warehouses(c *gin.Context) {
	h.OK(c, gin.H{"warehouses": h.hierarchy.Warehouses()})
}

// Zones returns the zones of one warehouse.
// GET /api/v1/zones?warehouseId=
func (h *ReferenceHandler) Zones(c *gin.Context) {
	warehouseID := c.Query("warehouseId")
	if warehouseID == "" {
		h.Error(c, apperror.NewInvalidInput("warehouseId is required"))
		return
	}
	h.OK(c, gin.H{"zones": h.hierarchy.ZonesOf(warehouseID)})
}

// Bins returns the bins of one warehouse, optionally narrowed to a zone.
// GET /api/v1/bins?warehouseId=&zoneId=
func (h *ReferenceHandler) Bins(c *gin.Context) {
	warehouseID := c.Query("warehouseId")
	if warehouseID == "" {
		h.Error(c, apperror.NewInvalidInput("warehouseId is required"))
		return
	}
	h.OK(c, gin.H{"bins": h.hierarchy.BinsOf(warehouseID, c.Query("zoneId"))})
}

// Products returns the cached product catalog.
// GET /api/v1/products
func (h *ReferenceHandler) Products(c *gin.Context) {
	h.OK(c, gin.H{"products": h.catalog.Products()})
}

// Refresh re-fetches the location hierarchy and product catalog.
// POST /api/v1/reference/refresh
func (h *ReferenceHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.loader.LoadHierarchy(ctx, h.hierarchy); err != nil {
		h.Error(c, apperror.NewFetch("failed to refresh location hierarchy").WithCause(err))
		return
	}
	if err := h.loader.LoadProducts(ctx, h.catalog); err != nil {
		h.Error(c, apperror.NewFetch("failed to refresh product catalog").WithCause(err))
		return
	}

	h.Success(c, "reference data refreshed")
}

// RegisterRoutes wires the reference-data endpoints.
func (h *ReferenceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/warehouses", h.Warehouses)
	rg.GET("/zones", h.Zones)
	rg.GET("/bins", h.Bins)
	rg.GET("/products", h.Products)
	rg.POST("/reference/refresh", h.Refresh)
}
