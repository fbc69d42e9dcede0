package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront-engine/internal/domain/cart"
	"github.com/xenking/storefront-engine/internal/domain/order"
)

func TestLedger_AppendAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	for i := 1; i <= 3; i++ {
		o := order.Order{UserID: "u1", Total: decimal.NewFromInt(int64(i))}
		require.NoError(t, l.Append(ctx, &o))
		assert.Equal(t, fmt.Sprintf("ORD-%d", i), o.ID)
	}

	n, err := l.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestLedger_StoredItemsImmutable(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	items := []cart.Item{{ProductID: "p1", Quantity: 2}}
	o := order.Order{UserID: "u1", Items: items, Total: decimal.NewFromInt(20)}
	require.NoError(t, l.Append(ctx, &o))

	items[0].Quantity = 99

	list, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Items[0].Quantity)
}

func TestLedger_ListByUser(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	for _, uid := range []string{"u1", "u2", "u1", "u3", "u1"} {
		o := order.Order{UserID: uid}
		require.NoError(t, l.Append(ctx, &o))
	}

	mine, err := l.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, "ORD-1", mine[0].ID)
	assert.Equal(t, "ORD-3", mine[1].ID)
	assert.Equal(t, "ORD-5", mine[2].ID)

	none, err := l.ListByUser(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLedger_ConcurrentAppendsGapless(t *testing.T) {
	const n = 50

	ctx := context.Background()
	l := NewLedger()

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := order.Order{UserID: "u1"}
			_ = l.Append(ctx, &o)
		}()
	}
	wg.Wait()

	list, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, n)

	seen := make(map[string]bool, n)
	for _, o := range list {
		seen[o.ID] = true
	}
	for i := 1; i <= n; i++ {
		assert.True(t, seen[fmt.Sprintf("ORD-%d", i)], "missing ORD-%d", i)
	}
}
