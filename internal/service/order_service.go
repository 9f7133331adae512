package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/internal/domain"
	"github.com/perfumeshop/salesapi/internal/repository"
	"github.com/perfumeshop/salesapi/pkg/errors"
)

// OrderService exposes the vendor-facing order operations that happen
// after checkout: listing, inspection and status transitions. Vendor
// identity arrives authenticated from the upstream collaborator.
type OrderService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(repos *repository.Repositories, logger *zap.Logger) *OrderService {
	return &OrderService{
		repos:  repos,
		logger: logger,
	}
}

// ListOrders returns all orders of a vendor, newest first
func (s *OrderService) ListOrders(ctx context.Context, vendorID uuid.UUID) ([]*domain.Order, error) {
	return s.repos.Orders.ListByVendor(ctx, vendorID)
}

// GetOrder fetches one order, enforcing that it belongs to the vendor
func (s *OrderService) GetOrder(ctx context.Context, orderID, vendorID uuid.UUID) (*domain.Order, error) {
	order, err := s.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.VendorID != vendorID {
		return nil, &errors.ErrForbidden{Message: "order belongs to another vendor"}
	}
	return order, nil
}

// UpdateStatus moves an order through its status state machine
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, vendorID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, &errors.ErrInvalidInput{Message: "unknown order status: " + string(status)}
	}

	order, err := s.GetOrder(ctx, orderID, vendorID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, &errors.ErrInvalidStateTransition{From: order.Status, To: status}
	}

	if err := s.repos.Orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	s.logger.Info("Order status changed",
		zap.String("order_id", orderID.String()),
		zap.String("from", string(order.Status)),
		zap.String("to", string(status)))

	order.Status = status
	return order, nil
}

// UpdateCustomer patches the customer contact fields of an order
func (s *OrderService) UpdateCustomer(ctx context.Context, orderID, vendorID uuid.UUID, name, phone *string) (*domain.Order, error) {
	if _, err := s.GetOrder(ctx, orderID, vendorID); err != nil {
		return nil, err
	}

	if err := s.repos.Orders.UpdateCustomer(ctx, orderID, name, phone); err != nil {
		return nil, err
	}
	return s.repos.Orders.GetByID(ctx, orderID)
}
