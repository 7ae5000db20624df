package backend

import (
	"context"
	"fmt"
	"net/url"

	"dockhand/internal/core/apperror"
	"dockhand/internal/domain/catalog"
	"dockhand/internal/domain/receipt"
)

var (
	_ receipt.OrderSource = (*Client)(nil)
	_ receipt.Gateway     = (*Client)(nil)
)

// Products fetches the product catalog.
func (c *Client) Products(ctx context.Context) ([]catalog.Product, error) {
	raw, err := c.get(ctx, "/products", nil)
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]catalog.Product, 0, len(records))
	for _, r := range records {
		p := catalog.Product{
			ID:          r.str("id", "productId", "product_id"),
			ProductName: r.str("productName", "product_name", "itemName", "item_name", "name"),
			SKU:         r.str("sku", "SKU"),
			UPC:         r.str("upc", "UPC", "barcode"),
		}
		if p.ID == "" {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// LoadProducts fetches the catalog and swaps it into the cache.
func (c *Client) LoadProducts(ctx context.Context, cache *catalog.Cache) error {
	products, err := c.Products(ctx)
	if err != nil {
		return err
	}
	cache.ReplaceProducts(products)
	return nil
}

// OpenOrders fetches purchase orders still open for receiving.
func (c *Client) OpenOrders(ctx context.Context) ([]catalog.PurchaseOrder, error) {
	query := url.Values{"status": {"open"}}
	raw, err := c.get(ctx, "/purchase-orders", query)
	if err != nil {
		return nil, apperror.NewFetch("load purchase orders").WithCause(err)
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, apperror.NewFetch("decode purchase orders").WithCause(err)
	}

	orders := make([]catalog.PurchaseOrder, 0, len(records))
	for _, r := range records {
		o := catalog.PurchaseOrder{
			ID:                   r.str("id", "poId", "po_id", "purchaseOrderId", "purchase_order_id"),
			PONumber:             r.str("poNumber", "po_number", "number"),
			VendorName:           r.str("vendorName", "vendor_name", "supplierName", "supplier_name", "vendor"),
			Status:               r.str("status", "poStatus", "po_status"),
			ExpectedDeliveryDate: r.date("expectedDeliveryDate", "expected_delivery_date", "expectedDate", "expected_date"),
			ContractManufacturer: r.str("contractManufacturer", "contract_manufacturer"),
			ProductName:          r.str("productName", "product_name", "itemName", "item_name"),
			ItemCount:            r.integer("itemCount", "item_count", "lineCount", "line_count"),
		}
		if o.ID == "" {
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// OrderLines fetches the line items of one purchase order.
func (c *Client) OrderLines(ctx context.Context, orderID string) ([]catalog.OrderLine, error) {
	path := "/purchase-orders/" + url.PathEscape(orderID) + "/line-items"
	raw, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, apperror.NewFetch("load purchase order items").WithCause(err)
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, apperror.NewFetch("decode purchase order items").WithCause(err)
	}

	lines := make([]catalog.OrderLine, 0, len(records))
	for _, r := range records {
		lines = append(lines, catalog.OrderLine{
			ProductID:     r.str("productId", "product_id", "itemId", "item_id"),
			ProductName:   r.str("productName", "product_name", "itemName", "item_name"),
			SKU:           r.str("sku", "SKU"),
			Quantity:      r.quantity("quantity", "qty", "orderedQuantity", "ordered_quantity"),
			UnitOfMeasure: r.str("unitOfMeasure", "unit_of_measure", "uom"),
		})
	}
	return lines, nil
}
