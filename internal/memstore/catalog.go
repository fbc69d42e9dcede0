package memstore

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-engine/internal/domain/cart"
	"github.com/xenking/storefront-engine/internal/domain/product"
)

var _ product.Repository = (*Catalog)(nil)

// Catalog is the in-memory product store. Removal cascades into the cart
// store so a product pulled from sale cannot remain purchasable in an open
// cart; historical orders are unaffected since they hold snapshots.
type Catalog struct {
	mu       sync.RWMutex
	products []product.Product // insertion order, preserved in listings
	carts    cart.Store
}

// NewCatalog creates an empty Catalog. carts receives the cascading cleanup
// on product removal.
func NewCatalog(carts cart.Store) *Catalog {
	return &Catalog{carts: carts}
}

// List returns a defensive copy of all products in insertion order.
func (c *Catalog) List(_ context.Context) ([]product.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]product.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

// GetByID returns a copy of the product, or product.ErrNotFound.
func (c *Catalog) GetByID(_ context.Context, id string) (*product.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.products {
		if c.products[i].ID == id {
			p := c.products[i]
			return &p, nil
		}
	}
	return nil, product.ErrNotFound
}

// Add registers a new product with a fresh unique id.
func (c *Catalog) Add(_ context.Context, name string, price decimal.Decimal) (*product.Product, error) {
	if strings.TrimSpace(name) == "" || !price.IsPositive() {
		return nil, product.ErrInvalidInput
	}

	p := product.Product{
		ID:    uuid.New().String(),
		Name:  name,
		Price: price,
	}

	c.mu.Lock()
	c.products = append(c.products, p)
	c.mu.Unlock()

	return &p, nil
}

// Remove deletes the product and then clears its lines from every open cart.
// Unknown ids fail with product.ErrNotFound. The cascade runs outside the
// catalog lock, after the product is already gone from the listing, and
// completes before Remove returns.
func (c *Catalog) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	kept := make([]product.Product, 0, len(c.products))
	for _, p := range c.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(c.products) {
		c.mu.Unlock()
		return product.ErrNotFound
	}
	c.products = kept
	c.mu.Unlock()

	return c.carts.RemoveProduct(ctx, id)
}
