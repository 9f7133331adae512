// Package cart owns the ephemeral cart state. Carts are keyed by an
// opaque token and hold product snapshots for a single vendor; the store
// is deliberately dumb storage, all business validation lives in the
// cart service.
package cart

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/perfumeshop/salesapi/internal/domain"
)

// Store is the cart storage contract. Implementations must make Update
// atomic per cart: the mutation callback runs with exclusive access to
// the addressed cart and a failed callback leaves the cart untouched.
type Store interface {
	// Create issues a fresh empty cart under a new unique token
	Create(ctx context.Context) (*domain.Cart, error)

	// Get returns a snapshot of the cart, or ErrNotFound. Unknown
	// tokens are never resurrected as empty carts.
	Get(ctx context.Context, id string) (*domain.Cart, error)

	// Update applies fn to the cart under exclusive access and returns
	// the resulting snapshot. If fn returns an error no change is kept.
	Update(ctx context.Context, id string, fn func(*domain.Cart) error) (*domain.Cart, error)

	// Remove evicts the cart entirely, or ErrNotFound
	Remove(ctx context.Context, id string) error
}

// NewCartID builds an opaque cart token from the current timestamp plus
// a random suffix. 8 random bytes keep the collision probability
// negligible for any realistic process lifetime.
func NewCartID() string {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(fmt.Sprintf("cart id generation: %v", err))
	}
	return fmt.Sprintf("cart_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(suffix))
}

// NewCart returns an empty cart: no vendor binding, no lines, total zero
func NewCart() *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		ID:        NewCartID(),
		Items:     []domain.CartItem{},
		Total:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
