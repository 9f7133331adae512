package cart

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/perfumeshop/salesapi/internal/domain"
	"github.com/perfumeshop/salesapi/pkg/errors"
)

const (
	// redisCartTTL bounds cart lifetime on the shared-store backend;
	// the in-memory backend has no expiry at all
	redisCartTTL = 24 * time.Hour

	// casRetries is how many times Update retries after losing an
	// optimistic concurrency race on the same cart key
	casRetries = 5
)

// RedisStore is the shared-store cart backend for multi-process
// deployments. Carts are stored as JSON under cart:<id>; per-cart
// exclusivity is optimistic, via WATCH on the cart key.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a cart store backed by the given Redis client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Create(ctx context.Context) (*domain.Cart, error) {
	cart := NewCart()
	if err := s.write(ctx, s.client, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, &errors.ErrNotFound{Resource: "cart", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart %s: %w", id, err)
	}
	return &cart, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	key := cartKey(id)

	var updated *domain.Cart
	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if stderrors.Is(err, redis.Nil) {
			return &errors.ErrNotFound{Resource: "cart", ID: id}
		}
		if err != nil {
			return fmt.Errorf("redis get cart: %w", err)
		}

		var cart domain.Cart
		if err := json.Unmarshal(data, &cart); err != nil {
			return fmt.Errorf("unmarshal cart %s: %w", id, err)
		}

		if err := fn(&cart); err != nil {
			return err
		}
		cart.UpdatedAt = time.Now().UTC()

		next, err := json.Marshal(&cart)
		if err != nil {
			return fmt.Errorf("marshal cart %s: %w", id, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, redisCartTTL)
			return nil
		})
		if err != nil {
			return err
		}

		updated = &cart
		return nil
	}

	for i := 0; i < casRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if stderrors.Is(err, redis.TxFailedErr) {
			continue // lost the race, reload and retry
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("cart %s: too much contention, giving up after %d attempts", id, casRetries)
}

func (s *RedisStore) Remove(ctx context.Context, id string) error {
	removed, err := s.client.Del(ctx, cartKey(id)).Result()
	if err != nil {
		return fmt.Errorf("redis delete cart: %w", err)
	}
	if removed == 0 {
		return &errors.ErrNotFound{Resource: "cart", ID: id}
	}
	return nil
}

func (s *RedisStore) write(ctx context.Context, c redis.Cmdable, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart %s: %w", cart.ID, err)
	}
	if err := c.Set(ctx, cartKey(cart.ID), data, redisCartTTL).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

func cartKey(id string) string {
	return fmt.Sprintf("cart:%s", id)
}
