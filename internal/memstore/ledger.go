package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/xenking/storefront-engine/internal/domain/cart"
	"github.com/xenking/storefront-engine/internal/domain/order"
)

var _ order.Ledger = (*Ledger)(nil)

// Ledger is the in-memory append-only order store. Id allocation and the
// append share one critical section, which keeps ids gapless and strictly
// increasing under concurrent checkouts.
type Ledger struct {
	mu     sync.RWMutex
	orders []order.Order
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records the order and fills in its id, "ORD-<n>" with n starting
// at 1. The stored copy snapshots the item slice so later caller mutation
// cannot rewrite history.
func (l *Ledger) Append(_ context.Context, o *order.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	o.ID = fmt.Sprintf("ORD-%d", len(l.orders)+1)

	stored := *o
	stored.Items = make([]cart.Item, len(o.Items))
	copy(stored.Items, o.Items)
	l.orders = append(l.orders, stored)
	return nil
}

// Count returns the number of recorded orders.
func (l *Ledger) Count(_ context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.orders), nil
}

// List returns all orders in append order.
func (l *Ledger) List(_ context.Context) ([]order.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]order.Order, len(l.orders))
	copy(out, l.orders)
	return out, nil
}

// ListByUser returns the user's orders in append order.
func (l *Ledger) ListByUser(_ context.Context, userID string) ([]order.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []order.Order
	for _, o := range l.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}
