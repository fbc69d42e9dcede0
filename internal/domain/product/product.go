package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrInvalidInput is returned when a product is created with an empty
	// name or a non-positive price.
	ErrInvalidInput = errors.New("invalid product input")
)

// Product represents a catalog item available for purchase. Orders and carts
// copy product fields at add time, so a Product is never mutated once it has
// been referenced by either.
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// Repository defines operations on the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	// Add registers a new product with a fresh unique id. It fails with
	// ErrInvalidInput when name is empty or price is not positive.
	Add(ctx context.Context, name string, price decimal.Decimal) (*Product, error)
	// Remove deletes the product and cascades into every open cart before
	// returning. It fails with ErrNotFound for unknown ids.
	Remove(ctx context.Context, id string) error
}
