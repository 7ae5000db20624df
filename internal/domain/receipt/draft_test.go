package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dockhand/internal/core/apperror"
)

func validDraft() *Draft {
	d := NewDraft()
	d.SupplierName = "Acme Supply Co"

	item := NewLineItem()
	item.ProductName = "Widget"
	item.ReceivedQuantity = 3
	d.Items = append(d.Items, item)

	return d
}

func TestValidate_SupplierRequired(t *testing.T) {
	d := validDraft()
	d.SupplierName = "   "

	err := d.Validate()
	assert.True(t, apperror.IsValidation(err, apperror.ReasonSupplierRequired))
}

func TestValidate_SupplierCheckedBeforeItems(t *testing.T) {
	// Supplier failure wins regardless of item contents.
	d := NewDraft()
	d.SupplierName = ""

	bad := NewLineItem()
	bad.ReceivedQuantity = 0
	d.Items = append(d.Items, bad)

	err := d.Validate()
	assert.True(t, apperror.IsValidation(err, apperror.ReasonSupplierRequired))
}

func TestValidate_NoItems(t *testing.T) {
	d := NewDraft()
	d.SupplierName = "Acme Supply Co"

	err := d.Validate()
	assert.True(t, apperror.IsValidation(err, apperror.ReasonNoItems))
}

func TestValidate_InvalidItem(t *testing.T) {
	d := validDraft()

	missingName := NewLineItem()
	missingName.ReceivedQuantity = 2
	d.Items = append(d.Items, missingName)

	err := d.Validate()
	require.True(t, apperror.IsValidation(err, apperror.ReasonInvalidItem))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 1, appErr.Details["index"])
	assert.Equal(t, "product_name_required", appErr.Details["rule"])
}

func TestValidate_ZeroQuantityFailsEvenWhenOthersValid(t *testing.T) {
	d := validDraft()

	zero := NewLineItem()
	zero.ProductName = "Gadget"
	zero.ReceivedQuantity = 0
	d.Items = append(d.Items, zero)

	err := d.Validate()
	require.True(t, apperror.IsValidation(err, apperror.ReasonInvalidItem))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, 1, appErr.Details["index"])
	assert.Equal(t, "received_quantity_positive", appErr.Details["rule"])
}

func TestValidate_ReportsFirstFailingItem(t *testing.T) {
	d := validDraft()

	for range 2 {
		bad := NewLineItem()
		d.Items = append(d.Items, bad)
	}

	err := d.Validate()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 1, appErr.Details["index"])
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validDraft().Validate())
}

func TestBuildPayloadIsDetachedFromDraft(t *testing.T) {
	d := validDraft()
	payload := d.BuildPayload()

	d.SupplierName = "changed"
	d.Items[0].ProductName = "changed"
	d.Items = append(d.Items, NewLineItem())

	assert.Equal(t, "Acme Supply Co", payload.ReceiptData.SupplierName)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "Widget", payload.Items[0].ProductName)
}

func TestBuildPayloadKeepsNullableProductID(t *testing.T) {
	d := validDraft()
	payload := d.BuildPayload()

	// Manual entries without a resolved product keep a null productId.
	assert.Nil(t, payload.Items[0].ProductID)
	assert.Equal(t, d.ReceiptDate, payload.ReceiptData.ReceiptDate)
}
