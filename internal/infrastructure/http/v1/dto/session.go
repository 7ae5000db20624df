package dto

import (
	"dockhand/internal/domain/receipt"
)

// SessionResponse is the composer snapshot keyed by its session id.
type SessionResponse struct {
	SessionID string `json:"sessionId"`
	receipt.Snapshot
}

// SwitchModeRequest selects the item-population path.
type SwitchModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SelectOrderRequest loads one purchase order into the draft.
type SelectOrderRequest struct {
	PurchaseOrderID string `json:"purchaseOrderId" binding:"required"`
}

// UpdateItemRequest replaces one field of a line item. Value stays untyped;
// the domain layer enforces per-field typing and the cascade rules.
type UpdateItemRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

// UpdateHeaderRequest carries optional draft header changes; absent fields
// are left untouched.
type UpdateHeaderRequest struct {
	SupplierName      *string `json:"supplierName"`
	PONumber          *string `json:"poNumber"`
	WarehouseLocation *string `json:"warehouseLocation"`
	ReceiptDate       *string `json:"receiptDate"`
	Notes             *string `json:"notes"`
}

// ToHeaderUpdate maps the request onto the domain update.
func (r UpdateHeaderRequest) ToHeaderUpdate() receipt.HeaderUpdate {
	return receipt.HeaderUpdate{
		SupplierName:      r.SupplierName,
		PONumber:          r.PONumber,
		WarehouseLocation: r.WarehouseLocation,
		ReceiptDate:       r.ReceiptDate,
		Notes:             r.Notes,
	}
}

// SubmitResponse confirms a created receipt.
type SubmitResponse struct {
	ReceiptID     string `json:"receiptId"`
	ReceiptNumber string `json:"receiptNumber,omitempty"`
}
