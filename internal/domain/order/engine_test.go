package order_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront-engine/internal/domain/cart"
	"github.com/xenking/storefront-engine/internal/domain/discount"
	"github.com/xenking/storefront-engine/internal/domain/order"
	"github.com/xenking/storefront-engine/internal/domain/stats"
	"github.com/xenking/storefront-engine/internal/memstore"
)

// engine bundles fully wired in-memory stores for end-to-end tests.
type engine struct {
	carts   *memstore.Carts
	catalog *memstore.Catalog
	codes   *memstore.Discounts
	ledger  *memstore.Ledger
	cartSvc *cart.Service
	txn     *order.Service
	stats   *stats.Aggregator
}

func newEngine(t *testing.T, gen discount.Generator) *engine {
	t.Helper()

	carts := memstore.NewCarts()
	catalog := memstore.NewCatalog(carts)
	codes := memstore.NewDiscounts()
	ledger := memstore.NewLedger()

	return &engine{
		carts:   carts,
		catalog: catalog,
		codes:   codes,
		ledger:  ledger,
		cartSvc: cart.NewService(carts, catalog),
		txn: order.NewService(carts, codes, ledger, gen, order.Config{
			Interval: 3,
			Percent:  decimal.NewFromInt(10),
		}),
		stats: stats.NewAggregator(ledger, codes),
	}
}

// fillCart adds the product to the user's cart so it totals price once.
func (e *engine) fillCart(t *testing.T, userID, productID string) {
	t.Helper()
	_, err := e.cartSvc.AddItem(context.Background(), userID, productID)
	require.NoError(t, err)
}

// sequenceGen mints WINNER-1, WINNER-2, ... deterministically.
func sequenceGen() discount.Generator {
	var n atomic.Int64
	return discount.GeneratorFunc(func() string {
		return fmt.Sprintf("WINNER-%d", n.Add(1))
	})
}

func TestMilestoneScenario(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, sequenceGen())

	p, err := e.catalog.Add(ctx, "HD Monitor", decimal.NewFromInt(100))
	require.NoError(t, err)

	// Three checkouts of $100 carts with no code.
	for i := 1; i <= 3; i++ {
		e.fillCart(t, "alice", p.ID)
		o, err := e.txn.Checkout(ctx, "alice", "")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ORD-%d", i), o.ID)
	}

	s, err := e.stats.StoreStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalOrders)
	assert.True(t, decimal.NewFromInt(300).Equal(s.TotalRevenue), "revenue = %s", s.TotalRevenue)

	// Order count hit the milestone: a code is due.
	code, err := e.txn.IssueDiscount(ctx)
	require.NoError(t, err)
	require.NotNil(t, code)
	assert.Equal(t, "WINNER-1", code.Code)

	// Issuing again at the same count must not mint a second code.
	_, err = e.txn.IssueDiscount(ctx)
	require.ErrorIs(t, err, discount.ErrAlreadyIssued)

	// Fourth checkout redeems the code: $10 off a $100 cart.
	e.fillCart(t, "alice", p.ID)
	o, err := e.txn.Checkout(ctx, "alice", code.Code)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(o.Discount), "discount = %s", o.Discount)
	assert.True(t, decimal.NewFromInt(90).Equal(o.Total), "total = %s", o.Total)

	// Fifth checkout reusing the code fails and mutates nothing.
	e.fillCart(t, "alice", p.ID)
	_, err = e.txn.Checkout(ctx, "alice", code.Code)
	require.ErrorIs(t, err, discount.ErrCodeUsed)

	items, err := e.cartSvc.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, items, 1, "failed checkout must leave the cart intact")

	count, err := e.ledger.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	s, err = e.stats.StoreStats(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(390).Equal(s.TotalRevenue), "revenue = %s", s.TotalRevenue)
	assert.True(t, decimal.NewFromInt(10).Equal(s.TotalDiscountsGiven))
	assert.Equal(t, 1, s.CodesGenerated)
}

func TestConcurrentCheckouts_GaplessIDs(t *testing.T) {
	const users = 20

	ctx := context.Background()
	e := newEngine(t, sequenceGen())

	p, err := e.catalog.Add(ctx, "Widget", decimal.NewFromInt(10))
	require.NoError(t, err)

	for i := range users {
		e.fillCart(t, fmt.Sprintf("user-%d", i), p.ID)
	}

	ids := make([]string, users)
	g := errgroup.Group{}
	for i := range users {
		g.Go(func() error {
			o, err := e.txn.Checkout(ctx, fmt.Sprintf("user-%d", i), "")
			if err != nil {
				return err
			}
			ids[i] = o.ID
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[string]bool, users)
	for _, id := range ids {
		seen[id] = true
	}
	for n := 1; n <= users; n++ {
		assert.True(t, seen[fmt.Sprintf("ORD-%d", n)], "missing ORD-%d", n)
	}
}

func TestConcurrentRedeem_SingleWinner(t *testing.T) {
	const users = 8

	ctx := context.Background()
	e := newEngine(t, sequenceGen())

	p, err := e.catalog.Add(ctx, "Widget", decimal.NewFromInt(100))
	require.NoError(t, err)

	require.NoError(t, e.codes.Issue(ctx, discount.Code{
		Code:          "WINNER-77",
		Percentage:    decimal.NewFromInt(10),
		ForOrderIndex: 3,
	}))

	for i := range users {
		e.fillCart(t, fmt.Sprintf("user-%d", i), p.ID)
	}

	var wins, reused atomic.Int64
	g := errgroup.Group{}
	for i := range users {
		g.Go(func() error {
			_, err := e.txn.Checkout(ctx, fmt.Sprintf("user-%d", i), "WINNER-77")
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, discount.ErrCodeUsed):
				reused.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(1), wins.Load(), "exactly one checkout may redeem the code")
	assert.Equal(t, int64(users-1), reused.Load())
}

func TestConcurrentIssue_SingleMint(t *testing.T) {
	const callers = 10

	ctx := context.Background()
	e := newEngine(t, sequenceGen())

	// Reach the milestone first.
	for range 3 {
		require.NoError(t, e.ledger.Append(ctx, &order.Order{UserID: "alice", Total: decimal.NewFromInt(1)}))
	}

	var minted, duplicate atomic.Int64
	g := errgroup.Group{}
	for range callers {
		g.Go(func() error {
			c, err := e.txn.IssueDiscount(ctx)
			switch {
			case err == nil && c != nil:
				minted.Add(1)
			case errors.Is(err, discount.ErrAlreadyIssued):
				duplicate.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(1), minted.Load(), "exactly one caller may mint the milestone code")
	assert.Equal(t, int64(callers-1), duplicate.Load())
}

func TestIssueDiscount_CollidingCodeStaysSpent(t *testing.T) {
	ctx := context.Background()

	// The generator repeats WINNER-42 at the second milestone before
	// producing a fresh string.
	outputs := []string{"WINNER-42", "WINNER-42", "WINNER-7"}
	var n int
	e := newEngine(t, discount.GeneratorFunc(func() string {
		code := outputs[n]
		n++
		return code
	}))

	p, err := e.catalog.Add(ctx, "Widget", decimal.NewFromInt(100))
	require.NoError(t, err)

	checkout := func(code string) {
		e.fillCart(t, "alice", p.ID)
		_, err := e.txn.Checkout(ctx, "alice", code)
		require.NoError(t, err)
	}

	for range 3 {
		checkout("")
	}
	first, err := e.txn.IssueDiscount(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "WINNER-42", first.Code)

	// Spend it, then reach the next milestone.
	checkout("WINNER-42")
	for range 2 {
		checkout("")
	}

	second, err := e.txn.IssueDiscount(ctx)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "WINNER-7", second.Code, "colliding string must be regenerated")

	// The spent code was not resurrected by the collision.
	e.fillCart(t, "alice", p.ID)
	_, err = e.txn.Checkout(ctx, "alice", "WINNER-42")
	require.ErrorIs(t, err, discount.ErrCodeUsed)
}

func TestConcurrentCheckouts_SameUserSingleOrder(t *testing.T) {
	const callers = 8

	ctx := context.Background()
	e := newEngine(t, sequenceGen())

	p, err := e.catalog.Add(ctx, "Widget", decimal.NewFromInt(100))
	require.NoError(t, err)
	e.fillCart(t, "alice", p.ID)

	var committed, empty atomic.Int64
	g := errgroup.Group{}
	for range callers {
		g.Go(func() error {
			_, err := e.txn.Checkout(ctx, "alice", "")
			switch {
			case err == nil:
				committed.Add(1)
			case errors.Is(err, order.ErrEmptyCart):
				empty.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(1), committed.Load(), "one cart fill must commit exactly one order")
	assert.Equal(t, int64(callers-1), empty.Load())

	count, err := e.ledger.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
