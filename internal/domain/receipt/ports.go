package receipt

import (
	"context"

	"dockhand/internal/domain/catalog"
)

// OrderSource reads open purchase orders and their expected line items from
// the purchase-order service. An empty line sequence is a valid, meaningful
// response (the order cannot become a draft).
type OrderSource interface {
	OpenOrders(ctx context.Context) ([]catalog.PurchaseOrder, error)
	OrderLines(ctx context.Context, orderID string) ([]catalog.OrderLine, error)
}

// Gateway submits the assembled payload to the backend inventory service.
// Failures surface an opaque reason string; the composer does not interpret
// it beyond display.
type Gateway interface {
	Submit(ctx context.Context, payload Payload) (Receipt, error)
}

// Receipt identifies a created inbound receipt. Used only to confirm
// completion; no further workflow logic depends on its shape.
type Receipt struct {
	ID            string `json:"id"`
	ReceiptNumber string `json:"receiptNumber,omitempty"`
}
