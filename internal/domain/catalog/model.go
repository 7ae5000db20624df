// Package catalog provides reference data for receipt composition: the known
// inventory products and the open purchase orders a receipt can be sourced
// from. All of it is read-only during a composition session.
package catalog

import (
	"time"

	"dockhand/internal/core/types"
)

// Product is an inventory product. Immutable during the workflow.
type Product struct {
	ID          string `json:"id"`
	ProductName string `json:"productName"`
	SKU         string `json:"sku"`
	UPC         string `json:"upc,omitempty"`
}

// PurchaseOrder is an open purchase order summary, the read-only source for
// pre-populating a receipt.
type PurchaseOrder struct {
	ID                   string     `json:"id"`
	PONumber             string     `json:"poNumber"`
	VendorName           string     `json:"vendorName"`
	Status               string     `json:"status"`
	ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate,omitempty"`

	// Optional display fields; not all upstream responses carry them.
	ContractManufacturer string `json:"contractManufacturer,omitempty"`
	ProductName          string `json:"productName,omitempty"`
	ItemCount            int    `json:"itemCount,omitempty"`
}

// OrderLine is one expected line item on a purchase order.
type OrderLine struct {
	ProductID     string         `json:"productId"`
	ProductName   string         `json:"productName"`
	SKU           string         `json:"sku"`
	Quantity      types.Quantity `json:"quantity"`
	UnitOfMeasure string         `json:"unitOfMeasure"`
}
