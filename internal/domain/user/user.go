package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when a requested user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrLastActiveUser is returned when deactivation would leave the store
	// without a single active user.
	ErrLastActiveUser = errors.New("cannot deactivate the last active user")
)

// User is a registered shopper. Users are soft-deleted: deactivation flips
// Active instead of erasing the record, so historical orders always resolve
// to a valid (possibly inactive) user.
type User struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Active    bool
}

// Directory defines operations on the user registry.
type Directory interface {
	// Add registers a new active user with a fresh unique id.
	Add(ctx context.Context, name string) (*User, error)
	// Deactivate soft-deletes the user and clears their cart. At least one
	// active user must remain at all times.
	Deactivate(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]User, error)
	ListAll(ctx context.Context) ([]User, error)
}
