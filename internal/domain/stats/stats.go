package stats

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-engine/internal/domain/discount"
	"github.com/xenking/storefront-engine/internal/domain/order"
)

// StoreStats aggregates the whole store's activity.
type StoreStats struct {
	TotalOrders         int
	TotalRevenue        decimal.Decimal
	TotalDiscountsGiven decimal.Decimal
	TotalItemsPurchased int
	CodesGenerated      int
}

// UserStats aggregates one user's purchase history.
type UserStats struct {
	UserID      string
	OrdersCount int
	TotalSpent  decimal.Decimal
	// LastOrder is the timestamp of the most recently appended order, nil
	// when the user has never ordered.
	LastOrder *time.Time
}

// Aggregator derives read-only statistics from the order ledger and the
// discount registry. Every value is recomputed on demand; nothing is cached.
type Aggregator struct {
	ledger order.Ledger
	codes  discount.Registry
}

// NewAggregator creates an Aggregator over the given stores.
func NewAggregator(ledger order.Ledger, codes discount.Registry) *Aggregator {
	return &Aggregator{ledger: ledger, codes: codes}
}

// StoreStats computes store-wide totals across all orders and minted codes.
func (a *Aggregator) StoreStats(ctx context.Context) (*StoreStats, error) {
	orders, err := a.ledger.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	codes, err := a.codes.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count codes")
	}

	s := &StoreStats{
		TotalOrders:         len(orders),
		TotalRevenue:        decimal.Zero,
		TotalDiscountsGiven: decimal.Zero,
		CodesGenerated:      codes,
	}
	for _, o := range orders {
		s.TotalRevenue = s.TotalRevenue.Add(o.Total)
		s.TotalDiscountsGiven = s.TotalDiscountsGiven.Add(o.Discount)
		for _, it := range o.Items {
			s.TotalItemsPurchased += it.Quantity
		}
	}

	return s, nil
}

// UserStats computes one user's order count, total spend, and last order
// time. Orders arrive from the ledger in append order, which is already
// chronological, so the last matching order carries the latest timestamp.
func (a *Aggregator) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	orders, err := a.ledger.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list user orders")
	}

	s := &UserStats{
		UserID:      userID,
		OrdersCount: len(orders),
		TotalSpent:  decimal.Zero,
	}
	for _, o := range orders {
		s.TotalSpent = s.TotalSpent.Add(o.Total)
	}
	if len(orders) > 0 {
		last := orders[len(orders)-1].CreatedAt
		s.LastOrder = &last
	}

	return s, nil
}

// UserOrders returns the user's orders in append order.
func (a *Aggregator) UserOrders(ctx context.Context, userID string) ([]order.Order, error) {
	return a.ledger.ListByUser(ctx, userID)
}
