package memstore

import (
	"context"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/xenking/storefront-engine/internal/domain/discount"
)

// Sizing for the code membership filter. The store never mints anywhere near
// this many codes; the filter just keeps lookups for garbage codes from
// walking the map.
const (
	bloomCapacity = 1 << 16
	bloomFPR      = 0.001
)

var _ discount.Registry = (*Discounts)(nil)

// Discounts is the in-memory discount code registry. A bloom filter fronts
// the code map: a code the filter has never seen is rejected without touching
// the map. All check-and-set operations run under one mutex, so redemption
// and per-milestone issuance are atomic.
type Discounts struct {
	mu          sync.Mutex
	codes       map[string]*discount.Code
	mintOrder   []string
	byMilestone map[int]string
	filter      *bloom.BloomFilter
}

// NewDiscounts creates an empty registry.
func NewDiscounts() *Discounts {
	return &Discounts{
		codes:       make(map[string]*discount.Code),
		byMilestone: make(map[int]string),
		filter:      bloom.NewWithEstimates(bloomCapacity, bloomFPR),
	}
}

// Lookup returns a copy of the code, or discount.ErrNotFound.
func (s *Discounts) Lookup(_ context.Context, code string) (*discount.Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.find(code)
	if err != nil {
		return nil, err
	}
	cp := *c
	return &cp, nil
}

// Redeem atomically flips the code from unused to used. Exactly one of any
// number of concurrent attempts succeeds; the rest get discount.ErrCodeUsed.
func (s *Discounts) Redeem(_ context.Context, code string) (*discount.Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.find(code)
	if err != nil {
		return nil, err
	}
	if c.Used {
		return nil, discount.ErrCodeUsed
	}
	c.Used = true

	cp := *c
	return &cp, nil
}

// Issue registers a freshly minted code. A second code for the same
// milestone fails with discount.ErrAlreadyIssued; a code string that is
// already registered fails with discount.ErrCodeExists, keeping a spent
// code's redemption state from being overwritten by a generator collision.
func (s *Discounts) Issue(_ context.Context, c discount.Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byMilestone[c.ForOrderIndex]; exists {
		return discount.ErrAlreadyIssued
	}
	if _, exists := s.codes[c.Code]; exists {
		return discount.ErrCodeExists
	}

	stored := c
	s.codes[c.Code] = &stored
	s.mintOrder = append(s.mintOrder, c.Code)
	s.byMilestone[c.ForOrderIndex] = c.Code
	s.filter.AddString(c.Code)
	return nil
}

// Count returns the number of minted codes.
func (s *Discounts) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes), nil
}

// List returns copies of all codes in mint order.
func (s *Discounts) List(_ context.Context) ([]discount.Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]discount.Code, 0, len(s.mintOrder))
	for _, code := range s.mintOrder {
		out = append(out, *s.codes[code])
	}
	return out, nil
}

// find locates a code under the held mutex, consulting the bloom filter
// before the map.
func (s *Discounts) find(code string) (*discount.Code, error) {
	if !s.filter.TestString(code) {
		return nil, discount.ErrNotFound
	}
	c, ok := s.codes[code]
	if !ok {
		return nil, discount.ErrNotFound
	}
	return c, nil
}
