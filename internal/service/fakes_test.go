package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/perfumeshop/salesapi/internal/domain"
	"github.com/perfumeshop/salesapi/internal/repository"
	"github.com/perfumeshop/salesapi/pkg/errors"
)

// fakeCatalog is an in-memory ProductRepository with the same
// conditional-decrement semantics as the Postgres implementation
type fakeCatalog struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Perfume
}

func newFakeCatalog(products ...*domain.Perfume) *fakeCatalog {
	m := make(map[uuid.UUID]*domain.Perfume, len(products))
	for _, p := range products {
		cp := *p
		m[p.ID] = &cp
	}
	return &fakeCatalog{products: m}
}

func (f *fakeCatalog) get(id uuid.UUID) (*domain.Perfume, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	cp := *p
	return &cp, nil
}

func (f *fakeCatalog) GetByID(_ context.Context, id uuid.UUID) (*domain.Perfume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.get(id)
}

func (f *fakeCatalog) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Perfume, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeCatalog) List(_ context.Context, vendorID uuid.UUID, filter repository.ProductFilter) ([]*domain.Perfume, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]*domain.Perfume, 0)
	for _, p := range f.products {
		if p.VendorID != vendorID {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		cp := *p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, len(result), nil
}

func (f *fakeCatalog) DecrementStock(_ context.Context, id uuid.UUID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	if p.StockQuantity < quantity {
		return &errors.ErrInsufficientStock{
			ProductID:   id.String(),
			ProductName: p.Name,
			Requested:   quantity,
			Available:   p.StockQuantity,
		}
	}
	p.StockQuantity -= quantity
	return nil
}

func (f *fakeCatalog) Search(_ context.Context, _ repository.SearchFilter) ([]*domain.SearchHit, int, error) {
	return []*domain.SearchHit{}, 0, nil
}

func (f *fakeCatalog) Create(_ context.Context, p *domain.Perfume) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeCatalog) stockOf(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].StockQuantity
}

func (f *fakeCatalog) setPrice(id uuid.UUID, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[id].Price = price
}

func (f *fakeCatalog) snapshot() map[uuid.UUID]domain.Perfume {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(map[uuid.UUID]domain.Perfume, len(f.products))
	for id, p := range f.products {
		snap[id] = *p
	}
	return snap
}

func (f *fakeCatalog) restore(snap map[uuid.UUID]domain.Perfume) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = make(map[uuid.UUID]*domain.Perfume, len(snap))
	for id := range snap {
		p := snap[id]
		f.products[id] = &p
	}
}

// fakeOrderStore is an in-memory OrderRepository
type fakeOrderStore struct {
	mu                sync.Mutex
	orders            map[uuid.UUID]*domain.Order
	failCreate        bool
	failMessageUpdate bool
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[uuid.UUID]*domain.Order)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	cp := *o
	cp.Items = make([]domain.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

func (f *fakeOrderStore) Create(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return fmt.Errorf("storage unavailable")
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	f.orders[order.ID] = cloneOrder(order)
	return nil
}

func (f *fakeOrderStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	return cloneOrder(o), nil
}

func (f *fakeOrderStore) ListByVendor(_ context.Context, vendorID uuid.UUID) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.Order, 0)
	for _, o := range f.orders {
		if o.VendorID == vendorID {
			result = append(result, cloneOrder(o))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	o.Status = status
	return nil
}

func (f *fakeOrderStore) UpdateCustomer(_ context.Context, id uuid.UUID, name, phone *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if name != nil {
		o.CustomerName = *name
	}
	if phone != nil {
		o.CustomerPhone = *phone
	}
	return nil
}

func (f *fakeOrderStore) UpdateContactMessage(_ context.Context, id uuid.UUID, message, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMessageUpdate {
		return fmt.Errorf("storage unavailable")
	}
	o, ok := f.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	o.ContactMessage = message
	o.ContactLink = link
	return nil
}

func (f *fakeOrderStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func (f *fakeOrderStore) snapshot() map[uuid.UUID]*domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(map[uuid.UUID]*domain.Order, len(f.orders))
	for id, o := range f.orders {
		snap[id] = cloneOrder(o)
	}
	return snap
}

func (f *fakeOrderStore) restore(snap map[uuid.UUID]*domain.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = snap
}

// fakeUnitOfWork serializes transactions and restores the pre-tx state
// when the callback fails, mirroring a database rollback
type fakeUnitOfWork struct {
	txMu    sync.Mutex
	catalog *fakeCatalog
	orders  *fakeOrderStore
}

func (u *fakeUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *repository.Repositories) error) error {
	u.txMu.Lock()
	defer u.txMu.Unlock()

	catalogSnap := u.catalog.snapshot()
	ordersSnap := u.orders.snapshot()

	err := fn(ctx, &repository.Repositories{
		Products: u.catalog,
		Orders:   u.orders,
	})
	if err != nil {
		u.catalog.restore(catalogSnap)
		u.orders.restore(ordersSnap)
		return err
	}
	return nil
}

func perfume(name string, price float64, stock int, vendorID uuid.UUID) *domain.Perfume {
	return &domain.Perfume{
		ID:            uuid.New(),
		Name:          name,
		Brand:         "Test Brand",
		Price:         price,
		StockQuantity: stock,
		VendorID:      vendorID,
	}
}
