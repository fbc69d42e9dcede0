package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xenking/storefront-engine/internal/domain/cart"
	"github.com/xenking/storefront-engine/internal/domain/user"
)

var _ user.Directory = (*Directory)(nil)

// Directory is the in-memory user registry. Deactivation is a soft delete:
// the record stays so historical orders keep resolving, but the user's cart
// is dropped. The engine refuses to deactivate the last active user.
type Directory struct {
	mu    sync.Mutex
	users []user.User // insertion order
	carts cart.Store
	now   func() time.Time
}

// NewDirectory creates an empty Directory. carts receives the cart cleanup
// on deactivation.
func NewDirectory(carts cart.Store) *Directory {
	return &Directory{carts: carts, now: time.Now}
}

// Add registers a new active user with a fresh unique id.
func (d *Directory) Add(_ context.Context, name string) (*user.User, error) {
	u := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: d.now(),
		Active:    true,
	}

	d.mu.Lock()
	d.users = append(d.users, u)
	d.mu.Unlock()

	return &u, nil
}

// Deactivate soft-deletes the user and clears their cart. It fails with
// user.ErrLastActiveUser when the target is the sole remaining active user,
// and user.ErrNotFound for unknown ids. Deactivating an already inactive
// user is a no-op.
func (d *Directory) Deactivate(ctx context.Context, id string) error {
	d.mu.Lock()

	idx := -1
	active := 0
	for i := range d.users {
		if d.users[i].Active {
			active++
		}
		if d.users[i].ID == id {
			idx = i
		}
	}
	if idx < 0 {
		d.mu.Unlock()
		return user.ErrNotFound
	}
	if d.users[idx].Active && active <= 1 {
		d.mu.Unlock()
		return user.ErrLastActiveUser
	}
	d.users[idx].Active = false
	d.mu.Unlock()

	return d.carts.Clear(ctx, id)
}

// ListActive returns copies of all active users in insertion order.
func (d *Directory) ListActive(_ context.Context) ([]user.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []user.User
	for _, u := range d.users {
		if u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}

// ListAll returns copies of all users, active or not, in insertion order.
func (d *Directory) ListAll(_ context.Context) ([]user.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]user.User, len(d.users))
	copy(out, d.users)
	return out, nil
}
