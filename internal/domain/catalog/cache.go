package catalog

import "sync"

// Cache is an immutable-snapshot cache of known products, loaded once and
// shared read-only across composer sessions. A manual refresh replaces the
// snapshot. Open purchase orders are not cached here: they are fetched on
// demand and memoized per composer session.
type Cache struct {
	mu       sync.RWMutex
	products []Product
	byID     map[string]Product
}

// NewCache creates an empty catalog cache.
func NewCache() *Cache {
	return &Cache{byID: make(map[string]Product)}
}

// ReplaceProducts swaps the cached product snapshot.
func (c *Cache) ReplaceProducts(products []Product) {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	c.mu.Lock()
	c.products = products
	c.byID = byID
	c.mu.Unlock()
}

// Products returns all cached products.
func (c *Cache) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Product(nil), c.products...)
}

// ProductByID looks up a product by id.
func (c *Cache) ProductByID(productID string) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[productID]
	return p, ok
}
