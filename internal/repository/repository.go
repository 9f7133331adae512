// Package repository declares the persistence contracts consumed by the
// services: the product catalog (inventory gateway), vendors, orders and
// the transactional unit of work that ties order creation to stock
// decrements.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/perfumeshop/salesapi/internal/domain"
)

// ProductFilter narrows and pages catalog listings
type ProductFilter struct {
	Name  string
	Page  int
	Limit int
}

// Search sort orders
const (
	SortLowestPrice  = "lowest_price"
	SortHighestPrice = "highest_price"
	SortBestSelling  = "best_selling"
)

// SearchFilter drives the public cross-vendor perfume search. City and
// state are mandatory and matched case-insensitively; the price bounds
// are inclusive when set.
type SearchFilter struct {
	City     string
	State    string
	Term     string
	PriceMin *float64
	PriceMax *float64
	Sort     string
	Page     int
	Limit    int
}

// ProductRepository is the inventory gateway: catalog reads plus the
// atomic stock decrement used at order commit
type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Perfume, error)
	List(ctx context.Context, vendorID uuid.UUID, filter ProductFilter) ([]*domain.Perfume, int, error)

	// GetForUpdate reads a product holding a row lock for the duration
	// of the surrounding transaction. Only meaningful inside WithinTx.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Perfume, error)

	// DecrementStock conditionally subtracts quantity from available
	// stock. It fails with ErrInsufficientStock instead of driving the
	// count negative, and never uses a read-then-write race.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	Create(ctx context.Context, p *domain.Perfume) error

	// Search runs the public storefront search across all vendors in a
	// city/state, default-ordered by sales count
	Search(ctx context.Context, filter SearchFilter) ([]*domain.SearchHit, int, error)
}

// VendorRepository provides vendor reads for order scoping
type VendorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error)
	Create(ctx context.Context, v *domain.Vendor) error
}

// OrderRepository persists sales orders and their line items
type OrderRepository interface {
	// Create inserts the order and all of its items
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	UpdateCustomer(ctx context.Context, id uuid.UUID, name, phone *string) error
	UpdateContactMessage(ctx context.Context, id uuid.UUID, message, link string) error
}

// Repositories bundles the persistence interfaces handed to services
type Repositories struct {
	Products ProductRepository
	Vendors  VendorRepository
	Orders   OrderRepository
}

// UnitOfWork runs a function against transactional repositories. The
// callback either returns nil and every write commits together, or
// returns an error and nothing survives.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error
}
