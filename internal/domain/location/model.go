// Package location provides the warehouse -> zone -> bin storage hierarchy
// and the read-only snapshot cache the receipt composer filters against.
package location

// Reserved pseudo-locations for temporary dock/holding areas. They are valid
// warehouse selections on a line item but are not Warehouse entities, so the
// hierarchy invariants never apply to them.
const (
	Receiving = "RECEIVING"
	Holding   = "HOLDING"
)

// IsPseudo reports whether a warehouse id names a reserved pseudo-location.
// Zone and bin selection is disabled for pseudo-locations.
func IsPseudo(warehouseID string) bool {
	return warehouseID == Receiving || warehouseID == Holding
}

// Warehouse is the root of the storage hierarchy.
type Warehouse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Zone is a sub-division of a warehouse grouping bins.
type Zone struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WarehouseID string `json:"warehouseId"`
}

// Bin is the smallest addressable storage location. A bin always belongs to
// a warehouse; the zone is optional granularity within that warehouse.
type Bin struct {
	ID          string `json:"id"`
	BinNumber   string `json:"binNumber"`
	WarehouseID string `json:"warehouseId"`
	ZoneID      string `json:"zoneId,omitempty"`
}
