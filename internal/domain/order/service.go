package order

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-engine/internal/domain/cart"
	"github.com/xenking/storefront-engine/internal/domain/discount"
)

// ErrEmptyCart is returned when checkout is attempted on an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

var hundred = decimal.NewFromInt(100)

// mintAttempts bounds the regenerate-and-retry loop when a freshly minted
// code string collides with a registered one.
const mintAttempts = 10

// Config carries the milestone discount parameters.
type Config struct {
	// Interval is n: every n-th order earns a discount code.
	Interval int
	// Percent is the discount percentage carried by minted codes.
	Percent decimal.Decimal
}

// Service orchestrates checkout and milestone discount issuance. It is the
// sole writer of the ledger and the sole redeemer of discount codes; it never
// reaches around the stores it is given.
type Service struct {
	carts  cart.Store
	codes  discount.Registry
	ledger Ledger
	gen    discount.Generator
	cfg    Config
	now    func() time.Time

	mu        sync.Mutex
	checkouts map[string]*sync.Mutex
}

// NewService creates a Service with the required stores. gen mints code
// strings for IssueDiscount.
func NewService(carts cart.Store, codes discount.Registry, ledger Ledger, gen discount.Generator, cfg Config) *Service {
	return &Service{
		carts:     carts,
		codes:     codes,
		ledger:    ledger,
		gen:       gen,
		cfg:       cfg,
		now:       time.Now,
		checkouts: make(map[string]*sync.Mutex),
	}
}

// userLock returns the per-user checkout mutex, creating it on first use.
func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.checkouts[userID]
	if !ok {
		l = &sync.Mutex{}
		s.checkouts[userID] = l
	}
	return l
}

// Checkout converts the user's cart into an immutable order and clears the
// cart. When code is non-empty it is redeemed first; a redemption failure
// aborts the checkout before anything is mutated. The ledger assigns the
// order id inside its append critical section. Checkouts for the same user
// serialize on a per-user lock, so two concurrent calls can never both
// commit an order from the same cart snapshot; the loser observes the
// cleared cart and fails ErrEmptyCart.
func (s *Service) Checkout(ctx context.Context, userID, code string) (*Order, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	items, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := cart.Total(items)

	discountAmount := decimal.Zero
	if code != "" {
		c, err := s.codes.Redeem(ctx, code)
		if err != nil {
			return nil, err
		}
		discountAmount = subtotal.Mul(c.Percentage).Div(hundred).Round(2)
	}

	o := &Order{
		UserID:       userID,
		Items:        items,
		Total:        subtotal.Sub(discountAmount).Round(2),
		Discount:     discountAmount,
		DiscountCode: code,
		CreatedAt:    s.now(),
	}
	if err := s.ledger.Append(ctx, o); err != nil {
		return nil, errors.Wrap(err, "append order")
	}
	// The append is the commit point. The in-memory cart store cannot fail a
	// clear; if a future store could, the order would stand and the error
	// would surface to the caller as a post-commit cleanup failure.
	if err := s.carts.Clear(ctx, userID); err != nil {
		return o, errors.Wrap(err, "clear cart")
	}

	return o, nil
}

// IssueDiscount mints a discount code when the ledger has reached a
// milestone, i.e. the order count is a positive multiple of the configured
// interval. Off a milestone it returns (nil, nil): not an error, just no code
// due. Calling it twice at the same order count yields exactly one code; the
// second call fails with discount.ErrAlreadyIssued. Every order counts
// toward the next milestone, discounted or not.
func (s *Service) IssueDiscount(ctx context.Context) (*discount.Code, error) {
	count, err := s.ledger.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count orders")
	}
	if count == 0 || count%s.cfg.Interval != 0 {
		return nil, nil
	}

	// A generated string may collide with a code minted at an earlier
	// milestone; the registry refuses those, so regenerate and retry rather
	// than resurrect a possibly spent code.
	var lastErr error
	for range mintAttempts {
		c := discount.Code{
			Code:          s.gen.Generate(),
			Percentage:    s.cfg.Percent,
			ForOrderIndex: count,
		}
		lastErr = s.codes.Issue(ctx, c)
		if lastErr == nil {
			return &c, nil
		}
		if !errors.Is(lastErr, discount.ErrCodeExists) {
			return nil, lastErr
		}
	}

	return nil, errors.Wrap(lastErr, "mint discount code")
}
