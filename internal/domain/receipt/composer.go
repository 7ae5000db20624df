package receipt

import (
	"context"
	"fmt"
	"sync"

	"dockhand/internal/core/apperror"
	"dockhand/internal/domain/catalog"
	"dockhand/internal/domain/location"
	"dockhand/pkg/logger"
)

// State of the composer state machine.
type State string

const (
	StateIdle        State = "idle"
	StateManual      State = "manual"
	StatePOSelecting State = "po_selecting"
	StatePOLoaded    State = "po_loaded"
	StateSubmitting  State = "submitting"
	StateSucceeded   State = "succeeded"
)

// Mode selects which item-population path is active.
type Mode string

const (
	ModeManual        Mode = "manual"
	ModePurchaseOrder Mode = "purchase-order"
)

// Composer orchestrates one receipt draft: mode selection, item population,
// per-item validation, and assembly of the submission payload.
//
// The UI is the sole mutator, so the concurrency discipline is single-flight
// per operation kind: at most one open-orders load, one order-items load, and
// one submit in flight at a time. A generation counter detects responses that
// arrive after the user has moved the session elsewhere; such results are
// dropped without touching the draft.
type Composer struct {
	mu sync.Mutex

	state    State
	draft    *Draft
	selected *catalog.PurchaseOrder

	orders       []catalog.PurchaseOrder
	ordersLoaded bool

	gen           uint64
	ordersLoading bool
	itemsLoading  bool
	closed        bool

	source    OrderSource
	catalog   *catalog.Cache
	hierarchy *location.Hierarchy
	gateway   Gateway
}

// NewComposer opens a composer for a fresh draft. Manual mode is the default
// entry state; the items list starts empty.
func NewComposer(source OrderSource, cat *catalog.Cache, hierarchy *location.Hierarchy, gateway Gateway) *Composer {
	return &Composer{
		state:     StateManual,
		draft:     NewDraft(),
		source:    source,
		catalog:   cat,
		hierarchy: hierarchy,
		gateway:   gateway,
	}
}

// State returns the current state.
func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot is a point-in-time view of the composer for presentation.
type Snapshot struct {
	State         State                  `json:"state"`
	Draft         *Draft                 `json:"draft,omitempty"`
	SelectedOrder *catalog.PurchaseOrder `json:"selectedOrder,omitempty"`
	OrdersLoaded  bool                   `json:"ordersLoaded"`
}

// Snapshot returns a deep copy of the current composer state.
func (c *Composer) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:        c.state,
		OrdersLoaded: c.ordersLoaded,
	}
	if c.draft != nil {
		snap.Draft = c.draft.Clone()
	}
	if c.selected != nil {
		order := *c.selected
		snap.SelectedOrder = &order
	}
	return snap
}

func (c *Composer) guard() error {
	if c.closed {
		return apperror.NewConflict("session is closed")
	}
	if c.state == StateSubmitting {
		return apperror.NewConflict("submission in progress")
	}
	if c.state == StateSucceeded {
		return apperror.NewConflict("receipt already submitted")
	}
	return nil
}

// SwitchMode swaps which item-population path is active. Switching back to
// manual mode preserves already-loaded items: the draft keeps a single shared
// item list that is only cleared when a purchase order is loaded or changed.
func (c *Composer) SwitchMode(mode Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(); err != nil {
		return err
	}

	switch mode {
	case ModeManual:
		if c.state == StateManual {
			return nil
		}
		c.gen++
		c.state = StateManual
	case ModePurchaseOrder:
		if c.state == StatePOSelecting || c.state == StatePOLoaded {
			return nil
		}
		c.gen++
		if c.selected != nil {
			c.state = StatePOLoaded
		} else {
			c.state = StatePOSelecting
		}
	default:
		return apperror.NewInvalidInput(fmt.Sprintf("unknown mode %q", string(mode)))
	}

	return nil
}

// OpenOrders returns the open purchase orders, fetching them from the
// purchase-order service the first time the list is requested.
func (c *Composer) OpenOrders(ctx context.Context) ([]catalog.PurchaseOrder, error) {
	c.mu.Lock()
	if err := c.guard(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.state != StatePOSelecting && c.state != StatePOLoaded {
		c.mu.Unlock()
		return nil, apperror.NewConflict("purchase order list is only available in purchase-order mode")
	}
	if c.ordersLoaded {
		orders := append([]catalog.PurchaseOrder(nil), c.orders...)
		c.mu.Unlock()
		return orders, nil
	}
	if c.ordersLoading {
		c.mu.Unlock()
		return nil, apperror.NewConflict("purchase order list is already loading")
	}
	c.ordersLoading = true
	gen := c.gen
	c.mu.Unlock()

	orders, err := c.source.OpenOrders(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ordersLoading = false

	if err != nil {
		return nil, apperror.NewFetch("failed to load open purchase orders").WithCause(err)
	}
	if c.gen != gen {
		// The session moved on while the fetch was in flight.
		return nil, apperror.NewConflict("session changed while loading purchase orders")
	}

	c.orders = orders
	c.ordersLoaded = true
	logger.Info(ctx, "open purchase orders loaded", "count", len(orders))

	return append([]catalog.PurchaseOrder(nil), orders...), nil
}

// SelectOrder loads the chosen order's line items and bulk-populates the
// draft. An order with zero line items cannot become a draft: the composer
// stays in selection and the caller gets a fetch-class error to surface.
func (c *Composer) SelectOrder(ctx context.Context, orderID string) error {
	c.mu.Lock()
	if err := c.guard(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.state != StatePOSelecting {
		c.mu.Unlock()
		return apperror.NewConflict("an order can only be selected from the purchase order list")
	}
	if c.itemsLoading {
		c.mu.Unlock()
		return apperror.NewConflict("purchase order items are already loading")
	}

	var order *catalog.PurchaseOrder
	for i := range c.orders {
		if c.orders[i].ID == orderID {
			found := c.orders[i]
			order = &found
			break
		}
	}
	if order == nil {
		c.mu.Unlock()
		return apperror.NewNotFound("purchase order", orderID)
	}

	c.itemsLoading = true
	gen := c.gen
	c.mu.Unlock()

	lines, err := c.source.OrderLines(ctx, orderID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.itemsLoading = false

	if err != nil {
		return apperror.NewFetch("failed to load purchase order items").
			WithCause(err).
			WithDetail("purchaseOrderId", orderID)
	}
	if c.gen != gen {
		return apperror.NewConflict("session changed while loading purchase order items")
	}
	if len(lines) == 0 {
		return apperror.NewFetch("purchase order has no line items").
			WithDetail("poNumber", order.PONumber)
	}

	items := make([]LineItem, len(lines))
	for i, line := range lines {
		items[i] = NewLineItemFromOrder(line)
	}

	// Loading an order replaces the shared item list. The previously
	// selected warehouse default is kept.
	c.draft.Items = items
	c.draft.SupplierName = order.VendorName
	c.draft.PONumber = order.PONumber

	c.selected = order
	c.state = StatePOLoaded
	c.gen++

	logger.Info(ctx, "purchase order loaded into draft",
		"poNumber", order.PONumber,
		"items", len(items))

	return nil
}

// ChangeOrder clears the item list and selected order, returning to
// selection without leaving purchase-order mode.
func (c *Composer) ChangeOrder() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(); err != nil {
		return err
	}
	if c.state != StatePOLoaded {
		return apperror.NewConflict("no purchase order is loaded")
	}

	c.selected = nil
	c.draft.Items = make([]LineItem, 0)
	c.draft.PONumber = ""
	c.state = StatePOSelecting
	c.gen++

	return nil
}

// AddItem appends a new line item with defaults. Manual mode only: in
// purchase-order mode items are populated solely via order selection.
func (c *Composer) AddItem() (LineItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(); err != nil {
		return LineItem{}, err
	}
	if c.state != StateManual {
		return LineItem{}, apperror.NewConflict("items can only be added manually in manual mode")
	}

	item := NewLineItem()
	c.draft.Items = append(c.draft.Items, item)
	return item.Clone(), nil
}

// RemoveItem removes the item at the given position. Remaining items keep
// their relative order; indices stay contiguous and zero-based.
func (c *Composer) RemoveItem(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.mutableItems(); err != nil {
		return err
	}
	if index < 0 || index >= len(c.draft.Items) {
		return apperror.NewInvalidInput("item index out of range")
	}

	c.draft.Items = append(c.draft.Items[:index], c.draft.Items[index+1:]...)
	return nil
}

// UpdateItem replaces one field of the item at the given position, enforcing
// the cascading-reset rules and re-deriving product display fields from the
// catalog when the product id changes.
func (c *Composer) UpdateItem(index int, field Field, value any) (LineItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.mutableItems(); err != nil {
		return LineItem{}, err
	}
	if index < 0 || index >= len(c.draft.Items) {
		return LineItem{}, apperror.NewInvalidInput("item index out of range")
	}

	item := c.draft.Items[index]

	if field == FieldProductID {
		productID, err := stringValue(field, value)
		if err != nil {
			return LineItem{}, err
		}
		product, ok := c.catalog.ProductByID(productID)
		if !ok {
			return LineItem{}, apperror.NewNotFound("product", productID)
		}
		item = item.WithProduct(product)
	} else {
		updated, err := ApplyFieldUpdate(item, field, value, c.hierarchy)
		if err != nil {
			return LineItem{}, err
		}
		item = updated
	}

	c.draft.Items[index] = item
	return item.Clone(), nil
}

func (c *Composer) mutableItems() error {
	if err := c.guard(); err != nil {
		return err
	}
	if c.state != StateManual && c.state != StatePOLoaded {
		return apperror.NewConflict("items are not editable in the current state")
	}
	return nil
}

// HeaderUpdate carries optional draft header changes; nil fields are left
// untouched.
type HeaderUpdate struct {
	SupplierName      *string `json:"supplierName,omitempty"`
	PONumber          *string `json:"poNumber,omitempty"`
	WarehouseLocation *string `json:"warehouseLocation,omitempty"`
	ReceiptDate       *string `json:"receiptDate,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// UpdateHeader applies draft header changes.
func (c *Composer) UpdateHeader(update HeaderUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(); err != nil {
		return err
	}

	if update.SupplierName != nil {
		c.draft.SupplierName = *update.SupplierName
	}
	if update.PONumber != nil {
		c.draft.PONumber = *update.PONumber
	}
	if update.WarehouseLocation != nil {
		c.draft.WarehouseLocation = *update.WarehouseLocation
	}
	if update.ReceiptDate != nil {
		c.draft.ReceiptDate = *update.ReceiptDate
	}
	if update.Notes != nil {
		c.draft.Notes = *update.Notes
	}

	return nil
}

// Submit validates the draft, assembles the payload, and hands it to the
// gateway. On failure the composer returns to its pre-submit state with all
// entered data intact. On success the draft is discarded and the session is
// done.
func (c *Composer) Submit(ctx context.Context) (Receipt, error) {
	c.mu.Lock()
	if err := c.guard(); err != nil {
		c.mu.Unlock()
		return Receipt{}, err
	}
	if c.state != StateManual && c.state != StatePOLoaded {
		c.mu.Unlock()
		return Receipt{}, apperror.NewConflict("nothing to submit in the current state")
	}
	if c.itemsLoading {
		c.mu.Unlock()
		return Receipt{}, apperror.NewConflict("purchase order items are still loading")
	}

	if err := c.draft.Validate(); err != nil {
		c.mu.Unlock()
		return Receipt{}, err
	}

	payload := c.draft.BuildPayload()
	prior := c.state
	c.state = StateSubmitting
	c.mu.Unlock()

	created, err := c.gateway.Submit(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = prior
		if apperror.IsAppError(err) {
			return Receipt{}, err
		}
		return Receipt{}, apperror.NewSubmit(err.Error()).WithCause(err)
	}

	c.state = StateSucceeded
	c.closed = true
	c.draft = nil
	c.gen++

	logger.Info(ctx, "inbound receipt submitted",
		"receiptId", created.ID,
		"items", len(payload.Items))

	return created, nil
}

// Discard closes the composer and drops the draft. Used on cancel.
func (c *Composer) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.draft = nil
	c.selected = nil
	c.gen++
}

// Done reports whether the session has ended (submitted or discarded).
func (c *Composer) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
