package backend

import (
	"bytes"
	"context"

	"dockhand/internal/core/apperror"
	"dockhand/internal/domain/receipt"
)

// Submit posts the assembled receipt payload to the inventory service.
// Any failure comes back as a submit error whose message is the backend's
// reason string; callers display it without interpretation.
func (c *Client) Submit(ctx context.Context, payload receipt.Payload) (receipt.Receipt, error) {
	status, body, err := c.postJSON(ctx, "/receipts", payload)
	if err != nil {
		return receipt.Receipt{}, apperror.NewSubmit("receipt submission failed").WithCause(err)
	}

	if status < 200 || status >= 300 {
		return receipt.Receipt{}, apperror.NewSubmit(readReason(bytes.NewReader(body))).
			WithDetail("status", status)
	}

	// The created receipt's shape only matters for confirmation, so decode
	// failures on a 2xx are not an error.
	var created receipt.Receipt
	if r, err := decodeRecord(body); err == nil {
		created.ID = r.str("id", "receiptId", "receipt_id")
		created.ReceiptNumber = r.str("receiptNumber", "receipt_number", "number")
	}
	return created, nil
}
