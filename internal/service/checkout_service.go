package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/internal/cart"
	"github.com/perfumeshop/salesapi/internal/domain"
	"github.com/perfumeshop/salesapi/internal/repository"
	"github.com/perfumeshop/salesapi/internal/whatsapp"
	"github.com/perfumeshop/salesapi/pkg/errors"
)

// CheckoutService turns a cart into a committed sales order. It is the
// only unit of work allowed to create an order and mutate stock, and it
// does both inside a single transaction: stock revalidation, order and
// item inserts and the conditional decrements all commit together or
// not at all.
type CheckoutService struct {
	carts  cart.Store
	uow    repository.UnitOfWork
	orders repository.OrderRepository
	logger *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(carts cart.Store, uow repository.UnitOfWork, orders repository.OrderRepository, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		carts:  carts,
		uow:    uow,
		orders: orders,
		logger: logger,
	}
}

// CreateOrder executes the checkout transaction for the given cart.
//
// The returned order carries the composed WhatsApp message and link.
// Storing the message happens after commit and may fail without
// invalidating the order: in that case the order is returned together
// with ErrMessageDelivery and the message can be rebuilt later through
// RegenerateContactMessage. Callers must clear the originating cart
// only after a nil or ErrMessageDelivery result.
func (s *CheckoutService) CreateOrder(ctx context.Context, customerName, customerPhone, cartID string) (*domain.Order, error) {
	snapshot, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Items) == 0 {
		return nil, &errors.ErrInvalidInput{Message: "cart is empty"}
	}
	if snapshot.VendorID == nil {
		return nil, &errors.ErrInvalidInput{Message: "cart has no vendor"}
	}

	var order *domain.Order
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		// Revalidate every line against the catalog under row locks;
		// cart snapshot prices and stock counts are never trusted here
		items, total, err := buildOrderLines(ctx, tx.Products, snapshot)
		if err != nil {
			return err
		}

		order = &domain.Order{
			ID:            uuid.New(),
			CustomerName:  customerName,
			CustomerPhone: customerPhone,
			Total:         total,
			Status:        domain.OrderStatusPending,
			VendorID:      *snapshot.VendorID,
			Items:         items,
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := tx.Products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Message composition is a pure function of committed data and runs
	// outside the transaction
	message, link := composeContact(order)
	order.ContactMessage = message
	order.ContactLink = link

	if err := s.orders.UpdateContactMessage(ctx, order.ID, message, link); err != nil {
		s.logger.Warn("Order committed but contact message not stored",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return order, &errors.ErrMessageDelivery{OrderID: order.ID.String(), Err: err}
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("vendor_id", order.VendorID.String()),
		zap.Float64("total", order.Total))

	return order, nil
}

// Preview composes the WhatsApp message and link from the current cart
// without creating an order or touching stock
func (s *CheckoutService) Preview(ctx context.Context, customerName, customerPhone, cartID string) (message, link string, err error) {
	snapshot, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return "", "", err
	}
	if len(snapshot.Items) == 0 {
		return "", "", &errors.ErrInvalidInput{Message: "cart is empty"}
	}

	lines := make([]whatsapp.Line, len(snapshot.Items))
	for i, it := range snapshot.Items {
		lines[i] = whatsapp.Line{Name: it.Name, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	message = whatsapp.ComposeMessage(customerName, lines, snapshot.Total, "")
	link = whatsapp.ComposeLink(whatsapp.FormatPhone(customerPhone), message)
	return message, link, nil
}

// RegenerateContactMessage rebuilds and stores the contact message for
// an already-committed order, the recovery path for a post-commit
// message failure
func (s *CheckoutService) RegenerateContactMessage(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	message, link := composeContact(order)
	order.ContactMessage = message
	order.ContactLink = link

	if err := s.orders.UpdateContactMessage(ctx, order.ID, message, link); err != nil {
		return nil, &errors.ErrMessageDelivery{OrderID: order.ID.String(), Err: err}
	}
	return order, nil
}

// buildOrderLines re-reads price and stock for every cart line and
// produces commit-priced order items plus the order total, rounded
// half-up to cents
func buildOrderLines(ctx context.Context, products repository.ProductRepository, snapshot *domain.Cart) ([]domain.OrderItem, float64, error) {
	items := make([]domain.OrderItem, 0, len(snapshot.Items))
	total := 0.0

	for _, line := range snapshot.Items {
		product, err := products.GetForUpdate(ctx, line.ProductID)
		if err != nil {
			return nil, 0, err
		}
		if product.StockQuantity < line.Quantity {
			return nil, 0, &errors.ErrInsufficientStock{
				ProductID:   product.ID.String(),
				ProductName: product.Name,
				Requested:   line.Quantity,
				Available:   product.StockQuantity,
			}
		}

		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		})
		total += float64(line.Quantity) * product.Price
	}

	return items, roundToCents(total), nil
}

func composeContact(order *domain.Order) (message, link string) {
	lines := make([]whatsapp.Line, len(order.Items))
	for i, it := range order.Items {
		lines[i] = whatsapp.Line{Name: it.ProductName, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	message = whatsapp.ComposeMessage(order.CustomerName, lines, order.Total, order.ID.String())
	link = whatsapp.ComposeLink(whatsapp.FormatPhone(order.CustomerPhone), message)
	return message, link
}

// roundToCents rounds half-up at the second decimal
func roundToCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
