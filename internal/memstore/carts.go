package memstore

import (
	"context"
	"sync"

	"github.com/xenking/storefront-engine/internal/domain/cart"
	"github.com/xenking/storefront-engine/internal/domain/product"
)

var _ cart.Store = (*Carts)(nil)

// Carts is the in-memory per-user cart store. One mutex serializes all cart
// mutation, so concurrent increments on the same user's cart are never lost.
// An absent map entry is an empty cart.
type Carts struct {
	mu    sync.Mutex
	items map[string][]cart.Item
}

// NewCarts creates an empty cart store.
func NewCarts() *Carts {
	return &Carts{items: make(map[string][]cart.Item)}
}

// Get returns a copy of the user's cart in insertion order.
func (s *Carts) Get(_ context.Context, userID string) ([]cart.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.items[userID]), nil
}

// Add appends a quantity-1 line snapshotting p, or increments the existing
// line for the same product. It returns the resulting cart.
func (s *Carts) Add(_ context.Context, userID string, p product.Product) ([]cart.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.items[userID]
	for i := range items {
		if items[i].ProductID == p.ID {
			items[i].Quantity++
			return copyItems(items), nil
		}
	}

	items = append(items, cart.Item{
		ProductID: p.ID,
		Quantity:  1,
		Product:   p,
	})
	s.items[userID] = items
	return copyItems(items), nil
}

// RemoveItem deletes the matching line; absent lines are a no-op.
func (s *Carts) RemoveItem(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[userID] = dropProduct(s.items[userID], productID)
	return nil
}

// SetQuantity overwrites the line's quantity. Zero or less removes the line,
// so a stored quantity is always at least 1. Setting quantity for a product
// not in the cart is a no-op.
func (s *Carts) SetQuantity(_ context.Context, userID, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		s.items[userID] = dropProduct(s.items[userID], productID)
		return nil
	}

	items := s.items[userID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = qty
			break
		}
	}
	return nil
}

// Clear empties the user's cart.
func (s *Carts) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, userID)
	return nil
}

// RemoveProduct deletes the product's line from every user's cart.
func (s *Carts) RemoveProduct(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, items := range s.items {
		s.items[userID] = dropProduct(items, productID)
	}
	return nil
}

func copyItems(items []cart.Item) []cart.Item {
	out := make([]cart.Item, len(items))
	copy(out, items)
	return out
}

func dropProduct(items []cart.Item, productID string) []cart.Item {
	kept := items[:0]
	for _, it := range items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	return kept
}
