package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/internal/domain"
	"github.com/perfumeshop/salesapi/internal/repository"
	"github.com/perfumeshop/salesapi/pkg/errors"
)

type orderRepository struct {
	db     dbtx
	logger *zap.Logger
}

// NewOrderRepository creates an order repository
func NewOrderRepository(db dbtx, logger *zap.Logger) repository.OrderRepository {
	return &orderRepository{db: db, logger: logger}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	now := time.Now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	query := `
		INSERT INTO orders (id, customer_name, customer_phone, total, status, vendor_id, contact_message, contact_link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.CustomerName,
		order.CustomerPhone,
		order.Total,
		order.Status,
		order.VendorID,
		order.ContactMessage,
		order.ContactLink,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order", zap.Error(err))
		return err
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}

		_, err := r.db.ExecContext(ctx, itemQuery,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to create order item",
				zap.String("order_id", order.ID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
			return err
		}
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, customer_name, customer_phone, total, status, vendor_id, contact_message, contact_link, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var o domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.Total,
		&o.Status,
		&o.VendorID,
		&o.ContactMessage,
		&o.ContactLink,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get order", zap.String("order_id", id.String()), zap.Error(err))
		return nil, err
	}

	items, err := r.itemsFor(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *orderRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*domain.Order, error) {
	query := `
		SELECT id, customer_name, customer_phone, total, status, vendor_id, contact_message, contact_link, created_at, updated_at
		FROM orders
		WHERE vendor_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.String("vendor_id", vendorID.String()), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(
			&o.ID,
			&o.CustomerName,
			&o.CustomerPhone,
			&o.Total,
			&o.Status,
			&o.VendorID,
			&o.ContactMessage,
			&o.ContactLink,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := r.itemsFor(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}

	return orders, nil
}

func (r *orderRepository) itemsFor(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		r.logger.Error("Failed to get order items", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var it domain.OrderItem
		err := rows.Scan(
			&it.ID,
			&it.OrderID,
			&it.ProductID,
			&it.ProductName,
			&it.Quantity,
			&it.UnitPrice,
			&it.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	return r.update(ctx, id, `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`, status)
}

func (r *orderRepository) UpdateContactMessage(ctx context.Context, id uuid.UUID, message, link string) error {
	return r.update(ctx, id, `UPDATE orders SET contact_message = $2, contact_link = $3, updated_at = $4 WHERE id = $1`, message, link)
}

func (r *orderRepository) UpdateCustomer(ctx context.Context, id uuid.UUID, name, phone *string) error {
	query := `
		UPDATE orders
		SET customer_name = COALESCE($2, customer_name),
		    customer_phone = COALESCE($3, customer_phone),
		    updated_at = $4
		WHERE id = $1
	`
	return r.update(ctx, id, query, name, phone)
}

func (r *orderRepository) update(ctx context.Context, id uuid.UUID, query string, args ...interface{}) error {
	all := append([]interface{}{id}, args...)
	all = append(all, time.Now())

	result, err := r.db.ExecContext(ctx, query, all...)
	if err != nil {
		r.logger.Error("Failed to update order", zap.String("order_id", id.String()), zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	return nil
}
