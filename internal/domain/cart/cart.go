package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-engine/internal/domain/product"
)

// Item is a single cart line: the product reference, the quantity, and a
// snapshot of the product taken when the item was added. The snapshot is what
// checkout copies into the order, so later catalog changes never rewrite
// history.
type Item struct {
	ProductID string
	Quantity  int
	Product   product.Product
}

// Store defines per-user cart persistence. Carts are keyed by user id and an
// absent entry is equivalent to an empty cart. Implementations must serialize
// concurrent mutations of the same user's cart so quantity increments are
// never lost.
type Store interface {
	// Get returns a copy of the user's cart in insertion order.
	Get(ctx context.Context, userID string) ([]Item, error)
	// Add appends a new line with quantity 1 for the given product, or
	// increments the existing line's quantity by 1.
	Add(ctx context.Context, userID string, p product.Product) ([]Item, error)
	// RemoveItem deletes the matching line. Absent lines are a no-op.
	RemoveItem(ctx context.Context, userID, productID string) error
	// SetQuantity overwrites the line's quantity. A quantity of zero or less
	// removes the line; a stored quantity is always at least 1.
	SetQuantity(ctx context.Context, userID, productID string, qty int) error
	// Clear empties the user's cart.
	Clear(ctx context.Context, userID string) error
	// RemoveProduct deletes the product's line from every user's cart. Used
	// by catalog removal so a product pulled from sale cannot remain
	// purchasable.
	RemoveProduct(ctx context.Context, productID string) error
}

// Total returns the cart subtotal: the sum of quantity times unit price over
// all lines. Both the cart view and checkout use this single computation.
func Total(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		line := it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}
