package location

import "sync"

// Hierarchy is an immutable-snapshot cache of the location hierarchy, loaded
// once per composition session. A manual refresh replaces the whole snapshot;
// there is no mid-session invalidation. Safe for concurrent readers across
// composer sessions.
type Hierarchy struct {
	mu         sync.RWMutex
	warehouses []Warehouse
	zones      []Zone
	bins       []Bin
}

// NewHierarchy creates an empty hierarchy cache.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{}
}

// Replace swaps the cached snapshot. Used for the initial load and for
// manual refreshes.
func (h *Hierarchy) Replace(warehouses []Warehouse, zones []Zone, bins []Bin) {
	h.mu.Lock()
	h.warehouses = warehouses
	h.zones = zones
	h.bins = bins
	h.mu.Unlock()
}

// Warehouses returns all cached warehouses.
func (h *Hierarchy) Warehouses() []Warehouse {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Warehouse(nil), h.warehouses...)
}

// ZonesOf returns the zones belonging to a warehouse. An unknown or pseudo
// warehouse yields an empty slice, never an error.
func (h *Hierarchy) ZonesOf(warehouseID string) []Zone {
	h.mu.RLock()
	defer h.mu.RUnlock()

	zones := make([]Zone, 0)
	for _, z := range h.zones {
		if z.WarehouseID == warehouseID {
			zones = append(zones, z)
		}
	}
	return zones
}

// BinsOf returns the bins of a warehouse. When zoneID is non-empty only bins
// assigned to that zone are returned; bins with no zone are excluded by the
// zone filter.
func (h *Hierarchy) BinsOf(warehouseID, zoneID string) []Bin {
	h.mu.RLock()
	defer h.mu.RUnlock()

	bins := make([]Bin, 0)
	for _, b := range h.bins {
		if b.WarehouseID != warehouseID {
			continue
		}
		if zoneID != "" && b.ZoneID != zoneID {
			continue
		}
		bins = append(bins, b)
	}
	return bins
}

// BinBelongsToZone reports whether the bin exists and is assigned to the
// given zone. Drives the cascading-reset rule when an item's zone changes.
func (h *Hierarchy) BinBelongsToZone(binID, zoneID string) bool {
	if binID == "" || zoneID == "" {
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, b := range h.bins {
		if b.ID == binID {
			return b.ZoneID == zoneID
		}
	}
	return false
}
