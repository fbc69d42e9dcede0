package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-engine/internal/domain/cart"
)

// Order is an immutable record of a completed checkout. Items are snapshots
// of the cart at checkout time, not live catalog references, so removing or
// repricing a product never changes a past order.
type Order struct {
	ID           string
	UserID       string
	Items        []cart.Item
	Total        decimal.Decimal
	Discount     decimal.Decimal
	DiscountCode string
	CreatedAt    time.Time
}

// Ledger is the append-only sequence of completed orders. Append assigns the
// order id inside its own critical section: ids are "ORD-<n>" with n gapless
// and strictly increasing from 1, so two concurrent appends can never share
// or skip an id.
type Ledger interface {
	// Append records the order and fills in its id.
	Append(ctx context.Context, o *Order) error
	Count(ctx context.Context) (int, error)
	// List returns all orders in append order.
	List(ctx context.Context) ([]Order, error)
	// ListByUser returns the user's orders in append order.
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}
