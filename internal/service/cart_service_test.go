package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/internal/cart"
	"github.com/perfumeshop/salesapi/pkg/errors"
)

func newCartService(catalog *fakeCatalog) *CartService {
	return NewCartService(cart.NewMemoryStore(), catalog, zap.NewNop())
}

func TestCartService_AddItem(t *testing.T) {
	vendorID := uuid.New()
	productA := perfume("Perfume A", 50.0, 10, vendorID)
	svc := newCartService(newFakeCatalog(productA))
	ctx := context.Background()

	created, err := svc.Create(ctx)
	require.NoError(t, err)

	got, err := svc.AddItem(ctx, created.ID, productA.ID, 2)
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "Perfume A", got.Items[0].Name)
	assert.Equal(t, 50.0, got.Items[0].UnitPrice)
	assert.Equal(t, 100.0, got.Total)
	require.NotNil(t, got.VendorID)
	assert.Equal(t, vendorID, *got.VendorID)
}

func TestCartService_AddItemMergesExistingLine(t *testing.T) {
	vendorID := uuid.New()
	productA := perfume("Perfume A", 50.0, 10, vendorID)
	svc := newCartService(newFakeCatalog(productA))
	ctx := context.Background()

	created, _ := svc.Create(ctx)
	_, err := svc.AddItem(ctx, created.ID, productA.ID, 2)
	require.NoError(t, err)

	got, err := svc.AddItem(ctx, created.ID, productA.ID, 3)
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Equal(t, 5, got.Items[0].Quantity)
	assert.Equal(t, 250.0, got.Total)
}

func TestCartService_AddItemRejectsSecondVendor(t *testing.T) {
	productA := perfume("Perfume A", 50.0, 10, uuid.New())
	productB := perfume("Perfume B", 30.0, 10, uuid.New())
	svc := newCartService(newFakeCatalog(productA, productB))
	ctx := context.Background()

	created, _ := svc.Create(ctx)
	_, err := svc.AddItem(ctx, created.ID, productA.ID, 2)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, created.ID, productB.ID, 1)

	var conflict *errors.ErrConflict
	require.ErrorAs(t, err, &conflict)

	// The failed add left the cart untouched
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, 100.0, got.Total)
}

func TestCartService_AddItemValidation(t *testing.T) {
	vendorID := uuid.New()
	productA := perfume("Perfume A", 50.0, 3, vendorID)
	svc := newCartService(newFakeCatalog(productA))
	ctx := context.Background()

	created, _ := svc.Create(ctx)

	t.Run("unknown cart", func(t *testing.T) {
		var notFound *errors.ErrNotFound
		_, err := svc.AddItem(ctx, "cart_0_missing", productA.ID, 1)
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("unknown product", func(t *testing.T) {
		var notFound *errors.ErrNotFound
		_, err := svc.AddItem(ctx, created.ID, uuid.New(), 1)
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		var invalid *errors.ErrInvalidInput
		_, err := svc.AddItem(ctx, created.ID, productA.ID, 0)
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("unknown cart wins over bad quantity", func(t *testing.T) {
		var notFound *errors.ErrNotFound
		_, err := svc.AddItem(ctx, "cart_0_missing", productA.ID, 0)
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "cart", notFound.Resource)
	})

	t.Run("exceeds stock", func(t *testing.T) {
		var noStock *errors.ErrInsufficientStock
		_, err := svc.AddItem(ctx, created.ID, productA.ID, 4)
		require.ErrorAs(t, err, &noStock)
		assert.Equal(t, "Perfume A", noStock.ProductName)
		assert.Equal(t, 3, noStock.Available)
	})

	t.Run("merged quantity exceeds stock", func(t *testing.T) {
		_, err := svc.AddItem(ctx, created.ID, productA.ID, 2)
		require.NoError(t, err)
		var noStock *errors.ErrInsufficientStock
		_, err = svc.AddItem(ctx, created.ID, productA.ID, 2)
		require.ErrorAs(t, err, &noStock)
		assert.Equal(t, 4, noStock.Requested)
	})
}

func TestCartService_UpdateQuantityToZeroRemovesLineAndVendor(t *testing.T) {
	vendorID := uuid.New()
	productA := perfume("Perfume A", 50.0, 3, vendorID)
	svc := newCartService(newFakeCatalog(productA))
	ctx := context.Background()

	created, _ := svc.Create(ctx)
	_, err := svc.AddItem(ctx, created.ID, productA.ID, 3)
	require.NoError(t, err)

	got, err := svc.UpdateQuantity(ctx, created.ID, productA.ID, 0)
	require.NoError(t, err)

	assert.Empty(t, got.Items)
	assert.Nil(t, got.VendorID)
	assert.Zero(t, got.Total)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	vendorID := uuid.New()
	productA := perfume("Perfume A", 50.0, 5, vendorID)
	svc := newCartService(newFakeCatalog(productA))
	ctx := context.Background()

	created, _ := svc.Create(ctx)
	_, err := svc.AddItem(ctx, created.ID, productA.ID, 1)
	require.NoError(t, err)

	got, err := svc.UpdateQuantity(ctx, created.ID, productA.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Items[0].Quantity)
	assert.Equal(t, 200.0, got.Total)

	var noStock *errors.ErrInsufficientStock
	_, err = svc.UpdateQuantity(ctx, created.ID, productA.ID, 6)
	assert.ErrorAs(t, err, &noStock)

	var notFound *errors.ErrNotFound
	_, err = svc.UpdateQuantity(ctx, created.ID, uuid.New(), 1)
	assert.ErrorAs(t, err, &notFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	vendorID := uuid.New()
	productA := perfume("Perfume A", 50.0, 10, vendorID)
	productB := perfume("Perfume B", 30.0, 10, vendorID)
	svc := newCartService(newFakeCatalog(productA, productB))
	ctx := context.Background()

	created, _ := svc.Create(ctx)
	_, err := svc.AddItem(ctx, created.ID, productA.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, created.ID, productB.ID, 2)
	require.NoError(t, err)

	got, err := svc.RemoveItem(ctx, created.ID, productA.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, 60.0, got.Total)
	assert.NotNil(t, got.VendorID)

	got, err = svc.RemoveItem(ctx, created.ID, productB.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Nil(t, got.VendorID)
}

func TestCartService_Clear(t *testing.T) {
	vendorID := uuid.New()
	productA := perfume("Perfume A", 50.0, 10, vendorID)
	svc := newCartService(newFakeCatalog(productA))
	ctx := context.Background()

	created, _ := svc.Create(ctx)
	_, err := svc.AddItem(ctx, created.ID, productA.ID, 2)
	require.NoError(t, err)

	got, err := svc.Clear(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Nil(t, got.VendorID)
	assert.Zero(t, got.Total)
}

// Total stays consistent with the lines after every mutation
func TestCartService_TotalInvariant(t *testing.T) {
	vendorID := uuid.New()
	productA := perfume("Perfume A", 19.99, 100, vendorID)
	productB := perfume("Perfume B", 7.5, 100, vendorID)
	svc := newCartService(newFakeCatalog(productA, productB))
	ctx := context.Background()

	created, _ := svc.Create(ctx)

	checkTotal := func(cartID string) {
		t.Helper()
		got, err := svc.Get(ctx, cartID)
		require.NoError(t, err)
		expected := 0.0
		for _, it := range got.Items {
			expected += it.UnitPrice * float64(it.Quantity)
		}
		assert.Equal(t, expected, got.Total)
	}

	_, err := svc.AddItem(ctx, created.ID, productA.ID, 3)
	require.NoError(t, err)
	checkTotal(created.ID)

	_, err = svc.AddItem(ctx, created.ID, productB.ID, 2)
	require.NoError(t, err)
	checkTotal(created.ID)

	_, err = svc.UpdateQuantity(ctx, created.ID, productA.ID, 1)
	require.NoError(t, err)
	checkTotal(created.ID)

	_, err = svc.RemoveItem(ctx, created.ID, productB.ID)
	require.NoError(t, err)
	checkTotal(created.ID)
}
