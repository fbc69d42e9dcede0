package memstore

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront-engine/internal/domain/product"
)

func TestCatalog_AddAndGet(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(NewCarts())

	p, err := c.Add(ctx, "Ergonomic Keyboard", decimal.NewFromInt(150))
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	got, err := c.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ergonomic Keyboard", got.Name)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(150)))
}

func TestCatalog_AddValidation(t *testing.T) {
	tests := []struct {
		name  string
		pname string
		price decimal.Decimal
	}{
		{"empty name", "", decimal.NewFromInt(10)},
		{"whitespace name", "   ", decimal.NewFromInt(10)},
		{"zero price", "Widget", decimal.Zero},
		{"negative price", "Widget", decimal.NewFromInt(-5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCatalog(NewCarts())
			_, err := c.Add(context.Background(), tt.pname, tt.price)
			assert.True(t, errors.Is(err, product.ErrInvalidInput))
		})
	}
}

func TestCatalog_GetByID_NotFound(t *testing.T) {
	c := NewCatalog(NewCarts())
	_, err := c.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, product.ErrNotFound))
}

func TestCatalog_ListOrderAndIsolation(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(NewCarts())

	for _, name := range []string{"First", "Second", "Third"} {
		_, err := c.Add(ctx, name, decimal.NewFromInt(1))
		require.NoError(t, err)
	}

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "First", list[0].Name)
	assert.Equal(t, "Third", list[2].Name)

	list[0].Name = "mutated"
	fresh, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "First", fresh[0].Name)
}

func TestCatalog_RemoveCascadesToCarts(t *testing.T) {
	ctx := context.Background()
	carts := NewCarts()
	c := NewCatalog(carts)

	p, err := c.Add(ctx, "Widget", decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = carts.Add(ctx, "u1", *p)
	require.NoError(t, err)

	require.NoError(t, c.Remove(ctx, p.ID))

	_, err = c.GetByID(ctx, p.ID)
	assert.True(t, errors.Is(err, product.ErrNotFound))

	items, err := carts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCatalog_Remove_NotFound(t *testing.T) {
	c := NewCatalog(NewCarts())
	err := c.Remove(context.Background(), "missing")
	assert.True(t, errors.Is(err, product.ErrNotFound))
}
