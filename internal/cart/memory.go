package cart

import (
	"context"
	"sync"
	"time"

	"github.com/perfumeshop/salesapi/internal/domain"
	"github.com/perfumeshop/salesapi/pkg/errors"
)

// MemoryStore keeps carts in process memory. Lock granularity is
// per-cart: the map lock is held only for lookup and insert/delete, so
// unrelated carts never serialize on each other.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*cartEntry
}

type cartEntry struct {
	mu   sync.RWMutex
	cart *domain.Cart
}

// NewMemoryStore creates an empty in-memory cart store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]*cartEntry),
	}
}

func (s *MemoryStore) Create(_ context.Context) (*domain.Cart, error) {
	cart := NewCart()

	s.mu.Lock()
	s.carts[cart.ID] = &cartEntry{cart: cart}
	s.mu.Unlock()

	return cart.Clone(), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Cart, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.RLock()
	defer entry.mu.RUnlock()
	return entry.cart.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Mutate a copy so a failed callback leaves the stored cart intact
	next := entry.cart.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()
	entry.cart = next

	return next.Clone(), nil
}

func (s *MemoryStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[id]; !ok {
		return &errors.ErrNotFound{Resource: "cart", ID: id}
	}
	delete(s.carts, id)
	return nil
}

// Len reports the number of live carts, used by tests and diagnostics
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts)
}

func (s *MemoryStore) lookup(id string) (*cartEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.carts[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "cart", ID: id}
	}
	return entry, nil
}
