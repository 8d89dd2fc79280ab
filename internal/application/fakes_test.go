package application

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/ports"
)

// fakeStore is an in-memory mirror keyed the same way as the database
type fakeStore struct {
	mu sync.Mutex

	tenants   map[int64]*domain.Tenant
	customers map[[2]int64]*domain.Customer
	products  map[[2]int64]*domain.Product
	orders    map[[2]int64]*domain.Order
	nextID    int64

	failCustomerUpsertAfter int // fail once this many upserts succeeded, when > 0
	customerUpserts         int
	failProductID           int64
	failCount               error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tenants:   make(map[int64]*domain.Tenant),
		customers: make(map[[2]int64]*domain.Customer),
		products:  make(map[[2]int64]*domain.Product),
		orders:    make(map[[2]int64]*domain.Order),
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addTenant(id int64, shopDomain, token string) {
	s.tenants[id] = &domain.Tenant{ID: id, ShopifyDomain: shopDomain, AccessToken: token}
}

// tenant repository

type fakeTenantRepo struct{ *fakeStore }

func (r fakeTenantRepo) Upsert(ctx context.Context, shopifyDomain, accessToken string) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tenants {
		if t.ShopifyDomain == shopifyDomain {
			t.AccessToken = accessToken
			return t, nil
		}
	}
	t := &domain.Tenant{ID: r.id(), ShopifyDomain: shopifyDomain, AccessToken: accessToken}
	r.tenants[t.ID] = t
	return t, nil
}

func (r fakeTenantRepo) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tenants[id], nil
}

func (r fakeTenantRepo) GetByDomain(ctx context.Context, shopifyDomain string) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tenants {
		if t.ShopifyDomain == shopifyDomain {
			return t, nil
		}
	}
	return nil, nil
}

func (r fakeTenantRepo) List(ctx context.Context) ([]*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Tenant
	for _, t := range r.tenants {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// customer repository

type fakeCustomerRepo struct{ *fakeStore }

func (r fakeCustomerRepo) Upsert(ctx context.Context, tenantID int64, c *domain.ShopifyCustomer) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCustomerUpsertAfter > 0 && r.customerUpserts >= r.failCustomerUpsertAfter {
		return 0, errors.New("customer write failed")
	}
	r.customerUpserts++

	key := [2]int64{tenantID, c.ID}
	if existing, ok := r.customers[key]; ok {
		existing.FirstName, existing.LastName, existing.Email = c.FirstName, c.LastName, c.Email
		return existing.ID, nil
	}
	row := &domain.Customer{ID: r.id(), TenantID: tenantID, ShopifyCustomerID: c.ID, FirstName: c.FirstName, LastName: c.LastName, Email: c.Email}
	r.customers[key] = row
	return row.ID, nil
}

func (r fakeCustomerRepo) ListByTenant(ctx context.Context, tenantID int64) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Customer
	for key, c := range r.customers {
		if key[0] == tenantID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeCustomerRepo) CountByTenant(ctx context.Context, tenantID int64) (int64, error) {
	if r.failCount != nil {
		return 0, r.failCount
	}
	list, _ := r.ListByTenant(ctx, tenantID)
	return int64(len(list)), nil
}

// product repository

type fakeProductRepo struct{ *fakeStore }

func (r fakeProductRepo) Upsert(ctx context.Context, tenantID int64, p *domain.ShopifyProduct) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failProductID != 0 && p.ID == r.failProductID {
		return 0, errors.New("product write failed")
	}

	key := [2]int64{tenantID, p.ID}
	if existing, ok := r.products[key]; ok {
		existing.Title, existing.Price = p.Title, p.FirstVariantPrice()
		return existing.ID, nil
	}
	row := &domain.Product{ID: r.id(), TenantID: tenantID, ShopifyProductID: p.ID, Title: p.Title, Price: p.FirstVariantPrice()}
	r.products[key] = row
	return row.ID, nil
}

func (r fakeProductRepo) ListByTenant(ctx context.Context, tenantID int64) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Product
	for key, p := range r.products {
		if key[0] == tenantID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r fakeProductRepo) CountByTenant(ctx context.Context, tenantID int64) (int64, error) {
	list, _ := r.ListByTenant(ctx, tenantID)
	return int64(len(list)), nil
}

// order repository

type fakeOrderRepo struct{ *fakeStore }

func (r fakeOrderRepo) Upsert(ctx context.Context, tenantID int64, o *domain.ShopifyOrder, customerID *int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := [2]int64{tenantID, o.ID}
	if existing, ok := r.orders[key]; ok {
		existing.CustomerID, existing.TotalPrice, existing.Currency, existing.OrderDate = customerID, o.TotalPrice, o.Currency, o.CreatedAt
		return existing.ID, nil
	}
	row := &domain.Order{ID: r.id(), TenantID: tenantID, ShopifyOrderID: o.ID, CustomerID: customerID, TotalPrice: o.TotalPrice, Currency: o.Currency, OrderDate: o.CreatedAt}
	r.orders[key] = row
	return row.ID, nil
}

func (r fakeOrderRepo) ListByTenant(ctx context.Context, tenantID int64) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for key, o := range r.orders {
		if key[0] == tenantID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r fakeOrderRepo) CountByTenant(ctx context.Context, tenantID int64) (int64, error) {
	list, _ := r.ListByTenant(ctx, tenantID)
	return int64(len(list)), nil
}

// shopify client

type fakeClient struct {
	shop      *domain.ShopifyShop
	products  []domain.ShopifyProduct
	customers []domain.ShopifyCustomer
	orders    []domain.ShopifyOrder
	listErr   error

	createBody json.RawMessage
	createErr  error
	lastCreate json.RawMessage
}

func (c *fakeClient) GetShop(ctx context.Context) (*domain.ShopifyShop, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.shop, nil
}

func (c *fakeClient) ListProducts(ctx context.Context) ([]domain.ShopifyProduct, error) {
	return c.products, c.listErr
}

func (c *fakeClient) ListCustomers(ctx context.Context) ([]domain.ShopifyCustomer, error) {
	return c.customers, c.listErr
}

func (c *fakeClient) ListOrders(ctx context.Context) ([]domain.ShopifyOrder, error) {
	return c.orders, c.listErr
}

func (c *fakeClient) CreateCustomer(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	c.lastCreate = payload
	return c.createBody, c.createErr
}

func (c *fakeClient) CreateOrder(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	c.lastCreate = payload
	return c.createBody, c.createErr
}

type fakeFactory struct {
	client *fakeClient
	seen   []domain.Credentials
}

func (f *fakeFactory) ForTenant(creds domain.Credentials) (ports.ShopifyClient, error) {
	f.seen = append(f.seen, creds)
	return f.client, nil
}

// activity

type fakeEvents struct {
	mu     sync.Mutex
	events []*domain.Event
}

func (e *fakeEvents) LogEvent(ctx context.Context, event *domain.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

func (e *fakeEvents) ListEvents(ctx context.Context, tenantID int64, limit int) ([]*domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*domain.Event
	for i := len(e.events) - 1; i >= 0 && len(out) < limit; i-- {
		if e.events[i].TenantID == tenantID {
			out = append(out, e.events[i])
		}
	}
	return out, nil
}

type fakeStatuses struct {
	mu       sync.Mutex
	statuses map[string]*domain.SyncStatus
}

func (s *fakeStatuses) SaveStatus(ctx context.Context, status *domain.SyncStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statuses == nil {
		s.statuses = make(map[string]*domain.SyncStatus)
	}
	s.statuses[status.Entity] = status
	return nil
}

func (s *fakeStatuses) ListStatuses(ctx context.Context, tenantID int64) ([]*domain.SyncStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.SyncStatus
	for _, st := range s.statuses {
		if st.TenantID == tenantID {
			out = append(out, st)
		}
	}
	return out, nil
}

type fakeMetrics struct {
	mu             sync.Mutex
	syncRuns       []string
	mirrorFailures []string
}

func (m *fakeMetrics) RecordSyncRun(entity string, count int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := "success"
	if err != nil {
		result = "error"
	}
	m.syncRuns = append(m.syncRuns, entity+":"+result)
}

func (m *fakeMetrics) RecordUpstreamCall(operation string, duration time.Duration, err error) {}

func (m *fakeMetrics) RecordMirrorWriteFailure(entity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mirrorFailures = append(m.mirrorFailures, entity)
}
