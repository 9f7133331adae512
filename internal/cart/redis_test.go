package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perfumeshop/salesapi/internal/domain"
	"github.com/perfumeshop/salesapi/pkg/errors"
)

// setupTestRedis creates a miniredis server and a RedisStore over it
func setupTestRedis(t *testing.T) *RedisStore {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client)
}

func TestRedisStore_CreateAndGet(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	created, err := store.Create(ctx)
	require.NoError(t, err)
	assert.Empty(t, created.Items)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Zero(t, got.Total)
}

func TestRedisStore_GetUnknownID(t *testing.T) {
	store := setupTestRedis(t)

	_, err := store.Get(context.Background(), "cart_0_deadbeef")

	var notFound *errors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestRedisStore_Update(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	created, err := store.Create(ctx)
	require.NoError(t, err)

	updated, err := store.Update(ctx, created.ID, func(c *domain.Cart) error {
		c.Items = append(c.Items, domain.CartItem{Name: "X", UnitPrice: 10, Quantity: 2})
		c.RecalculateTotal()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.Total)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, 20.0, got.Total)
}

func TestRedisStore_UpdateFailurePersistsNothing(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	created, err := store.Create(ctx)
	require.NoError(t, err)

	wantErr := &errors.ErrInvalidInput{Message: "nope"}
	_, err = store.Update(ctx, created.ID, func(c *domain.Cart) error {
		c.Items = append(c.Items, domain.CartItem{Name: "ghost"})
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestRedisStore_Remove(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	created, err := store.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, created.ID))

	var notFound *errors.ErrNotFound
	_, err = store.Get(ctx, created.ID)
	assert.ErrorAs(t, err, &notFound)

	err = store.Remove(ctx, created.ID)
	assert.ErrorAs(t, err, &notFound)
}
