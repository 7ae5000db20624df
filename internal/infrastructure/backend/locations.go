package backend

import (
	"context"
	"fmt"

	"dockhand/internal/domain/location"
)

// Warehouses fetches the warehouse list from the location service.
func (c *Client) Warehouses(ctx context.Context) ([]location.Warehouse, error) {
	raw, err := c.get(ctx, "/warehouses", nil)
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("decode warehouses: %w", err)
	}

	warehouses := make([]location.Warehouse, 0, len(records))
	for _, r := range records {
		w := location.Warehouse{
			ID:   r.str("id", "warehouseId", "warehouse_id"),
			Name: r.str("name", "warehouseName", "warehouse_name"),
		}
		if w.ID == "" {
			continue
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, nil
}

// Zones fetches all zones across warehouses.
func (c *Client) Zones(ctx context.Context) ([]location.Zone, error) {
	raw, err := c.get(ctx, "/zones", nil)
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("decode zones: %w", err)
	}

	zones := make([]location.Zone, 0, len(records))
	for _, r := range records {
		z := location.Zone{
			ID:          r.str("id", "zoneId", "zone_id"),
			Name:        r.str("name", "zoneName", "zone_name"),
			WarehouseID: r.str("warehouseId", "warehouse_id"),
		}
		if z.ID == "" {
			continue
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// Bins fetches all bins across warehouses. A bin may carry no zone.
func (c *Client) Bins(ctx context.Context) ([]location.Bin, error) {
	raw, err := c.get(ctx, "/bins", nil)
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("decode bins: %w", err)
	}

	bins := make([]location.Bin, 0, len(records))
	for _, r := range records {
		b := location.Bin{
			ID:          r.str("id", "binId", "bin_id"),
			BinNumber:   r.str("binNumber", "bin_number", "name"),
			WarehouseID: r.str("warehouseId", "warehouse_id"),
			ZoneID:      r.str("zoneId", "zone_id"),
		}
		if b.ID == "" {
			continue
		}
		bins = append(bins, b)
	}
	return bins, nil
}

// LoadHierarchy fetches the full location tree and swaps it into the cache.
// Zones and bins are only requested when at least one warehouse exists;
// without warehouses the rest of the tree cannot be addressed anyway.
func (c *Client) LoadHierarchy(ctx context.Context, h *location.Hierarchy) error {
	warehouses, err := c.Warehouses(ctx)
	if err != nil {
		return err
	}

	if len(warehouses) == 0 {
		h.Replace(nil, nil, nil)
		return nil
	}

	zones, err := c.Zones(ctx)
	if err != nil {
		return err
	}

	bins, err := c.Bins(ctx)
	if err != nil {
		return err
	}

	h.Replace(warehouses, zones, bins)
	return nil
}
