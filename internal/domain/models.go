package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vendor represents a seller with their own perfume catalog. City and
// state locate the storefront for the public search.
type Vendor struct {
	ID        uuid.UUID
	Name      string
	StoreName string
	Email     string
	Phone     string
	City      string
	State     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Perfume represents a catalog product owned by a vendor
type Perfume struct {
	ID            uuid.UUID
	Name          string
	Brand         string
	Description   *string
	PhotoURL      *string
	Price         float64
	StockQuantity int
	VendorID      uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Cart is an ephemeral shopping cart bound to at most one vendor. The ID
// is an opaque token issued by the cart store; carts are volatile and do
// not survive a process restart.
type Cart struct {
	ID        string     `json:"id"`
	VendorID  *uuid.UUID `json:"vendor_id,omitempty"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is a cart line with a product snapshot captured at add time.
// Name, price and photo are display data only; checkout re-reads the
// catalog and never trusts these values.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	PhotoURL  *string   `json:"photo_url,omitempty"`
	Quantity  int       `json:"quantity"`
}

// Clone returns a deep copy so callers can hand out cart snapshots
// without sharing line slices
func (c *Cart) Clone() *Cart {
	cp := *c
	if c.VendorID != nil {
		v := *c.VendorID
		cp.VendorID = &v
	}
	cp.Items = make([]CartItem, len(c.Items))
	copy(cp.Items, c.Items)
	return &cp
}

// RecalculateTotal recomputes the derived total from the current lines
func (c *Cart) RecalculateTotal() {
	total := 0.0
	for _, it := range c.Items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	c.Total = total
}

// FindItem returns the index of the line holding productID, or -1
func (c *Cart) FindItem(productID uuid.UUID) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// SearchHit is one row of the public perfume search: the product plus
// the seller details shown on the storefront listing
type SearchHit struct {
	Perfume   Perfume
	StoreName string
	City      string
	State     string
}

// Order represents a committed checkout for a single vendor
type Order struct {
	ID             uuid.UUID
	CustomerName   string
	CustomerPhone  string
	Total          float64
	Status         OrderStatus
	VendorID       uuid.UUID
	ContactMessage string
	ContactLink    string
	Items          []OrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem is an order line with the unit price captured at commit
// time, immune to later catalog price changes
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   float64
	CreatedAt   time.Time
}

// Subtotal returns quantity times the committed unit price
func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}
