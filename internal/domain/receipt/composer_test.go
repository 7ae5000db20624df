package receipt

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dockhand/internal/core/apperror"
	"dockhand/internal/domain/catalog"
	"dockhand/internal/domain/location"
)

// stubSource serves canned purchase orders and counts fetches.
type stubSource struct {
	mu          sync.Mutex
	orders      []catalog.PurchaseOrder
	lines       map[string][]catalog.OrderLine
	ordersErr   error
	linesErr    error
	ordersCalls int

	// When set, OpenOrders blocks until the channel is closed.
	ordersGate chan struct{}
}

func (s *stubSource) OpenOrders(ctx context.Context) ([]catalog.PurchaseOrder, error) {
	s.mu.Lock()
	s.ordersCalls++
	gate := s.ordersGate
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if s.ordersErr != nil {
		return nil, s.ordersErr
	}
	return s.orders, nil
}

func (s *stubSource) OrderLines(ctx context.Context, orderID string) ([]catalog.OrderLine, error) {
	if s.linesErr != nil {
		return nil, s.linesErr
	}
	return s.lines[orderID], nil
}

// stubGateway records the submitted payload.
type stubGateway struct {
	payload *Payload
	receipt Receipt
	err     error
}

func (g *stubGateway) Submit(ctx context.Context, payload Payload) (Receipt, error) {
	g.payload = &payload
	if g.err != nil {
		return Receipt{}, g.err
	}
	return g.receipt, nil
}

func testFixtures() (*stubSource, *catalog.Cache, *location.Hierarchy, *stubGateway) {
	source := &stubSource{
		orders: []catalog.PurchaseOrder{
			{ID: "po-1", PONumber: "PO-2024-001", VendorName: "Acme Supply Co", Status: "open"},
			{ID: "po-2", PONumber: "PO-2024-002", VendorName: "Globex", Status: "open"},
		},
		lines: map[string][]catalog.OrderLine{
			"po-1": {
				{ProductID: "p-1", ProductName: "Widget", SKU: "WID-01", Quantity: 5, UnitOfMeasure: "cases"},
				{ProductID: "p-2", ProductName: "Gadget", SKU: "GAD-01", Quantity: 10},
			},
			"po-2": {}, // an order with no expected items
		},
	}

	cat := catalog.NewCache()
	cat.ReplaceProducts([]catalog.Product{
		{ID: "p-1", ProductName: "Widget", SKU: "WID-01", UPC: "012345678905"},
		{ID: "p-2", ProductName: "Gadget", SKU: "GAD-01"},
	})

	gateway := &stubGateway{receipt: Receipt{ID: "rcpt-1", ReceiptNumber: "IR-00001"}}

	return source, cat, testHierarchy(), gateway
}

func newTestComposer(t *testing.T) (*Composer, *stubSource, *stubGateway) {
	t.Helper()
	source, cat, hierarchy, gateway := testFixtures()
	return NewComposer(source, cat, hierarchy, gateway), source, gateway
}

func TestComposerOpensInManualMode(t *testing.T) {
	c, _, _ := newTestComposer(t)

	assert.Equal(t, StateManual, c.State())
	snap := c.Snapshot()
	require.NotNil(t, snap.Draft)
	assert.Empty(t, snap.Draft.Items)
}

func TestAddRemoveItemsKeepContiguousIndices(t *testing.T) {
	c, _, _ := newTestComposer(t)

	for range 3 {
		_, err := c.AddItem()
		require.NoError(t, err)
	}
	require.Len(t, c.Snapshot().Draft.Items, 3)

	second := c.Snapshot().Draft.Items[2]
	require.NoError(t, c.RemoveItem(1))

	items := c.Snapshot().Draft.Items
	require.Len(t, items, 2)
	assert.Equal(t, second.LineID, items[1].LineID, "later items shift down on removal")

	assert.Error(t, c.RemoveItem(5))
	assert.Error(t, c.RemoveItem(-1))
}

func TestOpenOrdersFetchedOnce(t *testing.T) {
	c, source, _ := newTestComposer(t)
	ctx := context.Background()

	require.NoError(t, c.SwitchMode(ModePurchaseOrder))
	assert.Equal(t, StatePOSelecting, c.State())

	first, err := c.OpenOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	_, err = c.OpenOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, source.ordersCalls, "list is fetched only the first time it is requested")
}

func TestOpenOrdersRequiresPurchaseOrderMode(t *testing.T) {
	c, _, _ := newTestComposer(t)

	_, err := c.OpenOrders(context.Background())
	assert.Error(t, err)
}

func TestOpenOrdersFetchFailure(t *testing.T) {
	c, source, _ := newTestComposer(t)
	source.ordersErr = errors.New("connection refused")

	require.NoError(t, c.SwitchMode(ModePurchaseOrder))
	_, err := c.OpenOrders(context.Background())

	assert.True(t, apperror.IsFetch(err))
	assert.Equal(t, StatePOSelecting, c.State(), "state does not advance on fetch failure")
}

func TestSelectOrderPopulatesDraft(t *testing.T) {
	c, _, _ := newTestComposer(t)
	ctx := context.Background()

	require.NoError(t, c.SwitchMode(ModePurchaseOrder))
	_, err := c.OpenOrders(ctx)
	require.NoError(t, err)

	require.NoError(t, c.SelectOrder(ctx, "po-1"))
	assert.Equal(t, StatePOLoaded, c.State())

	snap := c.Snapshot()
	require.Len(t, snap.Draft.Items, 2)

	first, second := snap.Draft.Items[0], snap.Draft.Items[1]
	require.NotNil(t, first.OrderedQuantity)
	assert.Equal(t, 5, *first.OrderedQuantity)
	assert.Equal(t, 5, first.ReceivedQuantity)
	require.NotNil(t, second.OrderedQuantity)
	assert.Equal(t, 10, *second.OrderedQuantity)
	assert.Equal(t, 10, second.ReceivedQuantity)

	assert.Empty(t, first.WarehouseID)
	assert.Empty(t, first.ZoneID)
	assert.Empty(t, first.BinID)
	assert.Equal(t, ConditionGood, first.Condition)

	assert.Equal(t, "Acme Supply Co", snap.Draft.SupplierName)
	assert.Equal(t, "PO-2024-001", snap.Draft.PONumber)
	require.NotNil(t, snap.SelectedOrder)
	assert.Equal(t, "po-1", snap.SelectedOrder.ID)
}

func TestSelectOrderKeepsWarehouseDefault(t *testing.T) {
	c, _, _ := newTestComposer(t)
	ctx := context.Background()

	warehouse := "Main"
	require.NoError(t, c.UpdateHeader(HeaderUpdate{WarehouseLocation: &warehouse}))

	require.NoError(t, c.SwitchMode(ModePurchaseOrder))
	_, err := c.OpenOrders(ctx)
	require.NoError(t, err)
	require.NoError(t, c.SelectOrder(ctx, "po-1"))

	assert.Equal(t, "Main", c.Snapshot().Draft.WarehouseLocation)
}

func TestSelectOrderWithNoItemsIsRejected(t *testing.T) {
	c, _, _ := newTestComposer(t)
	ctx := context.Background()

	require.NoError(t, c.SwitchMode(ModePurchaseOrder))
	_, err := c.OpenOrders(ctx)
	require.NoError(t, err)

	err = c.SelectOrder(ctx, "po-2")
	assert.True(t, apperror.IsFetch(err), "an order with zero items is a fetch-class outcome")
	assert.Equal(t, StatePOSelecting, c.State())

	snap := c.Snapshot()
	assert.Empty(t, snap.Draft.Items, "a zero-item order never produces a non-empty draft")
	assert.Nil(t, snap.SelectedOrder)
}

func TestSelectOrderUnknownID(t *testing.T) {
	c, _, _ := newTestComposer(t)
	ctx := context.Background()

	require.NoError(t, c.SwitchMode(ModePurchaseOrder))
	_, err := c.OpenOrders(ctx)
	require.NoError(t, err)

	err = c.SelectOrder(ctx, "po-missing")
	assert.True(t, apperror.IsNotFound(err))
}

func TestSelectOrderLinesFetchFailure(t *testing.T) {
	c, source, _ := newTestComposer(t)
	ctx := context.Background()

	require.NoError(t, c.SwitchMode(ModePurchaseOrder))
	_, err := c.OpenOrders(ctx)
	require.NoError(t, err)

	source.linesErr = errors.New("timeout")
	err = c.SelectOrder(ctx, "po-1")

	assert.True(t, apperror.IsFetch(err))
	assert.Equal(t, StatePOSelecting, c.State())
}

func TestChangeOrderClearsItemsAndSelection(t *testing.T) {
	c, _, _ := newTestComposer(t)
	ctx := context.Background()

	require.NoError(t, c.SwitchMode(ModePurchaseOrder))
	_, err := c.OpenOrders(ctx)
	require.NoError(t, err)
	require.NoError(t, c.SelectOrder(ctx, "po-1"))

	require.NoError(t, c.ChangeOrder())

	assert.Equal(t, StatePOSelecting, c.State())
	snap := c.Snapshot()
	assert.Empty(t, snap.Draft.Items)
	assert.Empty(t, snap.Draft.PONumber)
	assert.Nil(t, snap.SelectedOrder)
}

func TestSwitchBackToManualPreservesItems(t *testing.T) {
	c, _, _ := newTestComposer(t)
	ctx := context.Background()

	require.NoError(t, c.SwitchMode(ModePurchaseOrder))
	_, err := c.OpenOrders(ctx)
	require.NoError(t, err)
	require.NoError(t, c.SelectOrder(ctx, "po-1"))

	require.NoError(t, c.SwitchMode(ModeManual))
	assert.Equal(t, StateManual, c.State())
	assert.Len(t, c.Snapshot().Draft.Items, 2, "loaded items survive the mode switch")

	// And switching back resumes the loaded order.
	require.NoError(t, c.SwitchMode(ModePurchaseOrder))
	assert.Equal(t, StatePOLoaded, c.State())
}

func TestAddItemOnlyInManualMode(t *testing.T) {
	c, _, _ := newTestComposer(t)
	ctx := context.Background()

	require.NoError(t, c.SwitchMode(ModePurchaseOrder))
	_, err := c.OpenOrders(ctx)
	require.NoError(t, err)
	require.NoError(t, c.SelectOrder(ctx, "po-1"))

	_, err = c.AddItem()
	assert.Error(t, err, "purchase-order mode populates items solely via order selection")
}

func TestUpdateItemProductSelection(t *testing.T) {
	c, _, _ := newTestComposer(t)

	_, err := c.AddItem()
	require.NoError(t, err)

	item, err := c.UpdateItem(0, FieldProductID, "p-1")
	require.NoError(t, err)

	require.NotNil(t, item.ProductID)
	assert.Equal(t, "p-1", *item.ProductID)
	assert.Equal(t, "Widget", item.ProductName)
	assert.Equal(t, "WID-01", item.SKU)
	assert.Equal(t, "012345678905", item.UPC)

	_, err = c.UpdateItem(0, FieldProductID, "p-missing")
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateItemCascadesThroughComposer(t *testing.T) {
	c, _, _ := newTestComposer(t)

	_, err := c.AddItem()
	require.NoError(t, err)

	_, err = c.UpdateItem(0, FieldWarehouseID, "wh-1")
	require.NoError(t, err)
	_, err = c.UpdateItem(0, FieldZoneID, "z-1")
	require.NoError(t, err)
	_, err = c.UpdateItem(0, FieldBinID, "b-1")
	require.NoError(t, err)

	item, err := c.UpdateItem(0, FieldWarehouseID, "wh-2")
	require.NoError(t, err)
	assert.Empty(t, item.ZoneID)
	assert.Empty(t, item.BinID)
}

func TestSubmitValidationFailures(t *testing.T) {
	c, _, gateway := newTestComposer(t)
	ctx := context.Background()

	_, err := c.AddItem()
	require.NoError(t, err)
	_, err = c.UpdateItem(0, FieldProductName, "Widget")
	require.NoError(t, err)
	_, err = c.UpdateItem(0, FieldReceivedQuantity, 3)
	require.NoError(t, err)

	_, err = c.Submit(ctx)
	assert.True(t, apperror.IsValidation(err, apperror.ReasonSupplierRequired))
	assert.Nil(t, gateway.payload, "validation never partially submits")
	assert.Equal(t, StateManual, c.State())

	supplier := "Acme Supply Co"
	require.NoError(t, c.UpdateHeader(HeaderUpdate{SupplierName: &supplier}))
	_, err = c.UpdateItem(0, FieldReceivedQuantity, 0)
	require.NoError(t, err)

	_, err = c.Submit(ctx)
	assert.True(t, apperror.IsValidation(err, apperror.ReasonInvalidItem))
	assert.Nil(t, gateway.payload)
}

func TestSubmitManualReceivingItem(t *testing.T) {
	c, _, gateway := newTestComposer(t)
	ctx := context.Background()

	supplier := "Acme Supply Co"
	require.NoError(t, c.UpdateHeader(HeaderUpdate{SupplierName: &supplier}))

	_, err := c.AddItem()
	require.NoError(t, err)
	_, err = c.UpdateItem(0, FieldProductName, "Widget")
	require.NoError(t, err)
	_, err = c.UpdateItem(0, FieldReceivedQuantity, 3)
	require.NoError(t, err)
	_, err = c.UpdateItem(0, FieldWarehouseID, location.Receiving)
	require.NoError(t, err)

	created, err := c.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rcpt-1", created.ID)
	assert.Equal(t, StateSucceeded, c.State())
	assert.True(t, c.Done())

	require.NotNil(t, gateway.payload)
	require.Len(t, gateway.payload.Items, 1)
	item := gateway.payload.Items[0]
	assert.Equal(t, location.Receiving, item.WarehouseID)
	assert.Empty(t, item.ZoneID)
	assert.Empty(t, item.BinID)
	assert.Nil(t, item.ProductID, "manual entry without catalog resolution submits a null productId")

	// The session is finished: no further edits or submits.
	_, err = c.AddItem()
	assert.Error(t, err)
	_, err = c.Submit(ctx)
	assert.Error(t, err)
}

func TestSubmitFailureRestoresStateAndData(t *testing.T) {
	c, _, gateway := newTestComposer(t)
	ctx := context.Background()

	gateway.err = apperror.NewSubmit("inventory service rejected the receipt")

	require.NoError(t, c.SwitchMode(ModePurchaseOrder))
	_, err := c.OpenOrders(ctx)
	require.NoError(t, err)
	require.NoError(t, c.SelectOrder(ctx, "po-1"))

	_, err = c.Submit(ctx)
	assert.True(t, apperror.IsSubmit(err))

	assert.Equal(t, StatePOLoaded, c.State(), "failed submit returns to the pre-submit state")
	snap := c.Snapshot()
	assert.Len(t, snap.Draft.Items, 2, "entered data is preserved")
	assert.Equal(t, "Acme Supply Co", snap.Draft.SupplierName)

	// Retrying after the backend recovers works on the same draft.
	gateway.err = nil
	created, err := c.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rcpt-1", created.ID)
}

func TestStaleOrdersResponseIsIgnored(t *testing.T) {
	c, source, _ := newTestComposer(t)
	ctx := context.Background()

	source.ordersGate = make(chan struct{})
	require.NoError(t, c.SwitchMode(ModePurchaseOrder))

	done := make(chan error, 1)
	go func() {
		_, err := c.OpenOrders(ctx)
		done <- err
	}()

	// Wait until the fetch is actually in flight.
	for {
		source.mu.Lock()
		started := source.ordersCalls > 0
		source.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// The user abandons purchase-order mode while the fetch is outstanding.
	require.NoError(t, c.SwitchMode(ModeManual))
	close(source.ordersGate)

	err := <-done
	assert.Error(t, err, "the stale response is dropped")

	// The list was never memoized; a later request fetches again.
	source.ordersGate = nil
	require.NoError(t, c.SwitchMode(ModePurchaseOrder))
	orders, err := c.OpenOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, 2, source.ordersCalls)
}

func TestDiscardClosesSession(t *testing.T) {
	c, _, _ := newTestComposer(t)

	c.Discard()
	assert.True(t, c.Done())

	_, err := c.AddItem()
	assert.Error(t, err)
	assert.Error(t, c.SwitchMode(ModePurchaseOrder))
}
