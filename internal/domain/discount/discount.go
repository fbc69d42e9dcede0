package discount

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a discount code does not exist.
	ErrNotFound = errors.New("discount code not found")
	// ErrCodeUsed is returned when redeeming a code that was already spent.
	ErrCodeUsed = errors.New("discount code already used")
	// ErrAlreadyIssued is returned when a code was already minted for the
	// same order-count milestone.
	ErrAlreadyIssued = errors.New("discount code already issued for this milestone")
	// ErrCodeExists is returned when a minted code string collides with a
	// registered one. The caller regenerates and retries; registering the
	// duplicate would overwrite the original's redemption state.
	ErrCodeExists = errors.New("discount code string already exists")
)

// Code is a single-use percentage discount token minted when the order count
// reaches a configured milestone. Used transitions false to true exactly
// once.
type Code struct {
	Code          string
	Percentage    decimal.Decimal
	Used          bool
	ForOrderIndex int
}

// Registry owns issued discount codes and their redemption state.
type Registry interface {
	// Lookup returns a copy of the code, or ErrNotFound.
	Lookup(ctx context.Context, code string) (*Code, error)
	// Redeem atomically checks that the code is unused and marks it used.
	// Under concurrent attempts on the same code exactly one caller succeeds;
	// the rest observe ErrCodeUsed. Unknown codes fail with ErrNotFound.
	Redeem(ctx context.Context, code string) (*Code, error)
	// Issue registers a freshly minted code. It fails with ErrAlreadyIssued
	// when any code with the same ForOrderIndex already exists, which makes
	// milestone issuance idempotent, and with ErrCodeExists when the code
	// string itself is already registered, so a spent code can never be
	// replaced by a fresh unused one.
	Issue(ctx context.Context, c Code) error
	Count(ctx context.Context) (int, error)
	// List returns all codes in mint order.
	List(ctx context.Context) ([]Code, error)
}
