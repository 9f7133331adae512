package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/internal/cart"
	"github.com/perfumeshop/salesapi/internal/domain"
	"github.com/perfumeshop/salesapi/internal/repository"
	"github.com/perfumeshop/salesapi/pkg/errors"
)

// CartService implements the cart operations: every mutation runs under
// the store's per-cart exclusivity and keeps the single-vendor and
// derived-total invariants.
type CartService struct {
	store    cart.Store
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store cart.Store, products repository.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{
		store:    store,
		products: products,
		logger:   logger,
	}
}

// Create issues a fresh empty cart
func (s *CartService) Create(ctx context.Context) (*domain.Cart, error) {
	return s.store.Create(ctx)
}

// Get returns the current cart snapshot
func (s *CartService) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	return s.store.Get(ctx, cartID)
}

// AddItem adds quantity units of a product, merging into an existing
// line. The first line binds the cart to the product's vendor; products
// from any other vendor are rejected until the cart empties.
func (s *CartService) AddItem(ctx context.Context, cartID string, productID uuid.UUID, quantity int) (*domain.Cart, error) {
	return s.store.Update(ctx, cartID, func(c *domain.Cart) error {
		// Cart resolution happens first, so an unknown cart reports
		// ErrNotFound even when the quantity is also bad
		if quantity < 1 {
			return &errors.ErrInvalidInput{Message: "quantity must be a positive integer"}
		}

		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}

		if c.VendorID != nil && *c.VendorID != product.VendorID {
			return &errors.ErrConflict{Message: "cart can only hold products from a single vendor"}
		}

		newQuantity := quantity
		idx := c.FindItem(productID)
		if idx >= 0 {
			newQuantity += c.Items[idx].Quantity
		}
		if newQuantity > product.StockQuantity {
			return &errors.ErrInsufficientStock{
				ProductID:   product.ID.String(),
				ProductName: product.Name,
				Requested:   newQuantity,
				Available:   product.StockQuantity,
			}
		}

		if idx >= 0 {
			c.Items[idx].Quantity = newQuantity
		} else {
			c.Items = append(c.Items, domain.CartItem{
				ProductID: product.ID,
				Name:      product.Name,
				UnitPrice: product.Price,
				PhotoURL:  product.PhotoURL,
				Quantity:  quantity,
			})
			if c.VendorID == nil {
				vendorID := product.VendorID
				c.VendorID = &vendorID
			}
		}

		c.RecalculateTotal()
		return nil
	})
}

// UpdateQuantity overwrites a line's quantity. Quantities below one
// remove the line; an emptied cart loses its vendor binding.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID string, productID uuid.UUID, quantity int) (*domain.Cart, error) {
	return s.store.Update(ctx, cartID, func(c *domain.Cart) error {
		idx := c.FindItem(productID)
		if idx < 0 {
			return &errors.ErrNotFound{Resource: "cart item", ID: productID.String()}
		}

		if quantity < 1 {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		} else {
			product, err := s.products.GetByID(ctx, productID)
			if err != nil {
				return err
			}
			if quantity > product.StockQuantity {
				return &errors.ErrInsufficientStock{
					ProductID:   product.ID.String(),
					ProductName: product.Name,
					Requested:   quantity,
					Available:   product.StockQuantity,
				}
			}
			c.Items[idx].Quantity = quantity
		}

		if len(c.Items) == 0 {
			c.VendorID = nil
		}
		c.RecalculateTotal()
		return nil
	})
}

// RemoveItem drops a line from the cart
func (s *CartService) RemoveItem(ctx context.Context, cartID string, productID uuid.UUID) (*domain.Cart, error) {
	return s.store.Update(ctx, cartID, func(c *domain.Cart) error {
		idx := c.FindItem(productID)
		if idx < 0 {
			return &errors.ErrNotFound{Resource: "cart item", ID: productID.String()}
		}

		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		if len(c.Items) == 0 {
			c.VendorID = nil
		}
		c.RecalculateTotal()
		return nil
	})
}

// Clear empties the cart and resets the vendor binding
func (s *CartService) Clear(ctx context.Context, cartID string) (*domain.Cart, error) {
	return s.store.Update(ctx, cartID, func(c *domain.Cart) error {
		c.Items = []domain.CartItem{}
		c.VendorID = nil
		c.Total = 0
		return nil
	})
}
