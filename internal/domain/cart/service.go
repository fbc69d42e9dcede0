package cart

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront-engine/internal/domain/product"
)

// ProductResolver looks up catalog entries for snapshotting into cart lines.
type ProductResolver interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
}

// Service exposes cart operations that need catalog access. Pure mutations
// delegate straight to the Store.
type Service struct {
	store    Store
	products ProductResolver
}

// NewService creates a cart Service backed by the given store and catalog.
func NewService(store Store, products ProductResolver) *Service {
	return &Service{store: store, products: products}
}

// Get returns the user's cart in insertion order.
func (s *Service) Get(ctx context.Context, userID string) ([]Item, error) {
	return s.store.Get(ctx, userID)
}

// AddItem resolves the product and adds one unit of it to the user's cart.
// It fails with product.ErrNotFound when the product does not exist.
func (s *Service) AddItem(ctx context.Context, userID, productID string) ([]Item, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrap(err, "resolve product")
	}
	return s.store.Add(ctx, userID, *p)
}

// RemoveItem deletes the matching line from the user's cart.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) error {
	return s.store.RemoveItem(ctx, userID, productID)
}

// SetQuantity overwrites the line's quantity; zero or less removes the line.
func (s *Service) SetQuantity(ctx context.Context, userID, productID string, qty int) error {
	return s.store.SetQuantity(ctx, userID, productID, qty)
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.store.Clear(ctx, userID)
}
