// Package receipt implements the inbound receipt composition workflow: the
// draft and line-item model, the pre-submit validation gate, and the composer
// state machine that drives manual and purchase-order entry toward a single
// validated submission payload.
package receipt

import (
	"fmt"
	"strings"

	"dockhand/internal/core/apperror"
	"dockhand/internal/core/id"
	"dockhand/internal/core/types"
	"dockhand/internal/domain/catalog"
	"dockhand/internal/domain/location"
)

// Condition describes the physical state of received goods.
type Condition string

const (
	ConditionGood    Condition = "good"
	ConditionDamaged Condition = "damaged"
	ConditionExpired Condition = "expired"
)

// DefaultUnitOfMeasure is used when no unit is entered or carried over.
const DefaultUnitOfMeasure = "units"

// LineItem is one unit of goods being received. Owned exclusively by the
// composer for the duration of one draft; items are addressed by position,
// LineID exists only for logging and client-side reconciliation.
type LineItem struct {
	LineID id.ID `json:"lineId"`

	// ProductID stays nil for manual entries until a product is resolved.
	ProductID   *string `json:"productId"`
	ProductName string  `json:"productName"`
	SKU         string  `json:"sku"`
	UPC         string  `json:"upc,omitempty"`

	// OrderedQuantity is present only when sourced from a purchase order.
	// Informational, never editable.
	OrderedQuantity  *int `json:"orderedQuantity,omitempty"`
	ReceivedQuantity int  `json:"receivedQuantity"`

	UnitOfMeasure string `json:"unitOfMeasure"`

	// Selected location. WarehouseID may be a real warehouse id or one of
	// the reserved pseudo-locations; zone and bin may be empty.
	WarehouseID string `json:"warehouseId"`
	ZoneID      string `json:"zoneId"`
	BinID       string `json:"binId"`

	Condition   Condition `json:"condition"`
	BatchNumber string    `json:"batchNumber,omitempty"`
	ExpiryDate  string    `json:"expiryDate,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// NewLineItem creates an empty line item with defaults.
func NewLineItem() LineItem {
	return LineItem{
		LineID:        id.New(),
		UnitOfMeasure: DefaultUnitOfMeasure,
		Condition:     ConditionGood,
	}
}

// NewLineItemFromOrder maps an expected purchase-order line into a line item.
// The ordered quantity doubles as the initial received quantity; location
// fields start empty.
func NewLineItemFromOrder(line catalog.OrderLine) LineItem {
	item := NewLineItem()

	if line.ProductID != "" {
		productID := line.ProductID
		item.ProductID = &productID
	}
	item.ProductName = line.ProductName
	item.SKU = line.SKU

	qty := line.Quantity.Int()
	item.OrderedQuantity = &qty
	item.ReceivedQuantity = qty

	if line.UnitOfMeasure != "" {
		item.UnitOfMeasure = line.UnitOfMeasure
	}

	return item
}

// WithProduct overwrites the denormalized product fields from a catalog
// entry. Selecting a product by id always replaces productName/sku/upc,
// never merely stores the id.
func (li LineItem) WithProduct(p catalog.Product) LineItem {
	productID := p.ID
	li.ProductID = &productID
	li.ProductName = p.ProductName
	li.SKU = p.SKU
	li.UPC = p.UPC
	return li
}

// Clone returns a deep copy of the line item.
func (li LineItem) Clone() LineItem {
	if li.ProductID != nil {
		productID := *li.ProductID
		li.ProductID = &productID
	}
	if li.OrderedQuantity != nil {
		ordered := *li.OrderedQuantity
		li.OrderedQuantity = &ordered
	}
	return li
}

// Field names an updatable line-item attribute.
type Field string

const (
	FieldProductID        Field = "productId"
	FieldProductName      Field = "productName"
	FieldSKU              Field = "sku"
	FieldUPC              Field = "upc"
	FieldReceivedQuantity Field = "receivedQuantity"
	FieldUnitOfMeasure    Field = "unitOfMeasure"
	FieldWarehouseID      Field = "warehouseId"
	FieldZoneID           Field = "zoneId"
	FieldBinID            Field = "binId"
	FieldCondition        Field = "condition"
	FieldBatchNumber      Field = "batchNumber"
	FieldExpiryDate       Field = "expiryDate"
	FieldNotes            Field = "notes"
)

// ApplyFieldUpdate returns a copy of the item with the named field replaced,
// enforcing the cascading-reset rules:
//   - a warehouse change clears zone and bin;
//   - a pseudo-location warehouse additionally disables zone/bin selection;
//   - a zone change clears the bin unless it still belongs to the new zone.
//
// Product selection (FieldProductID) is not handled here: it needs the
// catalog cache and is resolved by the composer via WithProduct.
func ApplyFieldUpdate(item LineItem, field Field, value any, h *location.Hierarchy) (LineItem, error) {
	next := item.Clone()

	switch field {
	case FieldProductName:
		s, err := stringValue(field, value)
		if err != nil {
			return item, err
		}
		next.ProductName = s

	case FieldSKU:
		s, err := stringValue(field, value)
		if err != nil {
			return item, err
		}
		next.SKU = s

	case FieldUPC:
		s, err := stringValue(field, value)
		if err != nil {
			return item, err
		}
		next.UPC = s

	case FieldReceivedQuantity:
		qty, err := types.ParseQuantity(value)
		if err != nil {
			return item, apperror.NewInvalidInput(err.Error())
		}
		if qty < 0 {
			return item, apperror.NewInvalidInput("received quantity cannot be negative")
		}
		next.ReceivedQuantity = qty.Int()

	case FieldUnitOfMeasure:
		s, err := stringValue(field, value)
		if err != nil {
			return item, err
		}
		if s == "" {
			s = DefaultUnitOfMeasure
		}
		next.UnitOfMeasure = s

	case FieldWarehouseID:
		s, err := stringValue(field, value)
		if err != nil {
			return item, err
		}
		next.WarehouseID = s
		if s != item.WarehouseID {
			next.ZoneID = ""
			next.BinID = ""
		}
		if location.IsPseudo(s) {
			next.ZoneID = ""
			next.BinID = ""
		}

	case FieldZoneID:
		if location.IsPseudo(item.WarehouseID) {
			return item, apperror.NewInvalidInput("zone selection is disabled for dock and holding areas")
		}
		s, err := stringValue(field, value)
		if err != nil {
			return item, err
		}
		next.ZoneID = s
		if s != item.ZoneID && s != "" && !h.BinBelongsToZone(item.BinID, s) {
			next.BinID = ""
		}

	case FieldBinID:
		if location.IsPseudo(item.WarehouseID) {
			return item, apperror.NewInvalidInput("bin selection is disabled for dock and holding areas")
		}
		s, err := stringValue(field, value)
		if err != nil {
			return item, err
		}
		next.BinID = s

	case FieldCondition:
		s, err := stringValue(field, value)
		if err != nil {
			return item, err
		}
		cond := Condition(s)
		switch cond {
		case ConditionGood, ConditionDamaged, ConditionExpired:
			next.Condition = cond
		default:
			return item, apperror.NewInvalidInput(fmt.Sprintf("invalid condition %q", s))
		}

	case FieldBatchNumber:
		s, err := stringValue(field, value)
		if err != nil {
			return item, err
		}
		next.BatchNumber = s

	case FieldExpiryDate:
		s, err := stringValue(field, value)
		if err != nil {
			return item, err
		}
		next.ExpiryDate = s

	case FieldNotes:
		s, err := stringValue(field, value)
		if err != nil {
			return item, err
		}
		next.Notes = s

	default:
		return item, apperror.NewInvalidInput(fmt.Sprintf("unknown field %q", string(field)))
	}

	return next, nil
}

func stringValue(field Field, value any) (string, error) {
	switch t := value.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(t), nil
	default:
		return "", apperror.NewInvalidInput(fmt.Sprintf("field %q expects a string value", string(field)))
	}
}
