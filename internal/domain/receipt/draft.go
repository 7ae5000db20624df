package receipt

import (
	"strings"
	"time"

	"dockhand/internal/core/apperror"
)

// Draft is an in-progress, not-yet-submitted receipt composition. Created
// empty when the composer opens and destroyed on cancel or successful submit.
type Draft struct {
	SupplierName      string `json:"supplierName"`
	PONumber          string `json:"poNumber,omitempty"`
	WarehouseLocation string `json:"warehouseLocation,omitempty"`
	ReceiptDate       string `json:"receiptDate"`
	Notes             string `json:"notes,omitempty"`

	Items []LineItem `json:"items"`
}

// NewDraft creates an empty draft dated today.
func NewDraft() *Draft {
	return &Draft{
		ReceiptDate: time.Now().UTC().Format("2006-01-02"),
		Items:       make([]LineItem, 0),
	}
}

// Clone returns a deep copy of the draft.
func (d *Draft) Clone() *Draft {
	clone := *d
	clone.Items = make([]LineItem, len(d.Items))
	for i, item := range d.Items {
		clone.Items[i] = item.Clone()
	}
	return &clone
}

// Validate is the pre-submit gate: synchronous, local, and performed in full
// before any network call. Rules are checked in order; the first failing
// item is reported with its index and rule.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.SupplierName) == "" {
		return apperror.NewValidation(apperror.ReasonSupplierRequired)
	}

	if len(d.Items) == 0 {
		return apperror.NewValidation(apperror.ReasonNoItems)
	}

	for i, item := range d.Items {
		if strings.TrimSpace(item.ProductName) == "" {
			return apperror.NewValidation(apperror.ReasonInvalidItem).
				WithDetail("index", i).
				WithDetail("rule", "product_name_required")
		}
		if item.ReceivedQuantity <= 0 {
			return apperror.NewValidation(apperror.ReasonInvalidItem).
				WithDetail("index", i).
				WithDetail("rule", "received_quantity_positive")
		}
	}

	return nil
}

// ReceiptData is the non-item portion of the submission payload.
type ReceiptData struct {
	SupplierName      string `json:"supplierName"`
	PONumber          string `json:"poNumber,omitempty"`
	WarehouseLocation string `json:"warehouseLocation,omitempty"`
	ReceiptDate       string `json:"receiptDate"`
	Notes             string `json:"notes,omitempty"`
}

// Payload is the immutable submission payload handed to the gateway. Items
// carry every line-item field including the nullable productId.
type Payload struct {
	ReceiptData ReceiptData `json:"receiptData"`
	Items       []LineItem  `json:"items"`
}

// BuildPayload assembles the submission payload from a validated draft.
// The payload owns deep copies so later draft edits cannot leak into an
// in-flight submission.
func (d *Draft) BuildPayload() Payload {
	items := make([]LineItem, len(d.Items))
	for i, item := range d.Items {
		items[i] = item.Clone()
	}

	return Payload{
		ReceiptData: ReceiptData{
			SupplierName:      d.SupplierName,
			PONumber:          d.PONumber,
			WarehouseLocation: d.WarehouseLocation,
			ReceiptDate:       d.ReceiptDate,
			Notes:             d.Notes,
		},
		Items: items,
	}
}
