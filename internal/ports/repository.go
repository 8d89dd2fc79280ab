package ports

import (
	"context"

	"shopify-mirror/internal/domain"
)

// TenantRepository defines persistence for onboarded stores
type TenantRepository interface {
	// Upsert inserts the tenant or overwrites its access token, keyed by shopify domain
	Upsert(ctx context.Context, shopifyDomain string, accessToken string) (*domain.Tenant, error)
	// GetByID returns nil when no tenant exists
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
	// GetByDomain returns nil when no tenant exists
	GetByDomain(ctx context.Context, shopifyDomain string) (*domain.Tenant, error)
	List(ctx context.Context) ([]*domain.Tenant, error)
}

// CustomerRepository defines persistence for mirrored customers.
// Upsert is keyed on (tenant_id, shopify_customer_id) and returns the internal id.
type CustomerRepository interface {
	Upsert(ctx context.Context, tenantID int64, customer *domain.ShopifyCustomer) (int64, error)
	ListByTenant(ctx context.Context, tenantID int64) ([]domain.Customer, error)
	CountByTenant(ctx context.Context, tenantID int64) (int64, error)
}

// ProductRepository defines persistence for mirrored products
type ProductRepository interface {
	Upsert(ctx context.Context, tenantID int64, product *domain.ShopifyProduct) (int64, error)
	ListByTenant(ctx context.Context, tenantID int64) ([]domain.Product, error)
	CountByTenant(ctx context.Context, tenantID int64) (int64, error)
}

// OrderRepository defines persistence for mirrored orders.
// customerID is the local customers row id, nil when the order has no customer.
type OrderRepository interface {
	Upsert(ctx context.Context, tenantID int64, order *domain.ShopifyOrder, customerID *int64) (int64, error)
	ListByTenant(ctx context.Context, tenantID int64) ([]domain.Order, error)
	CountByTenant(ctx context.Context, tenantID int64) (int64, error)
}

// EventRepository defines the tenant activity log
type EventRepository interface {
	LogEvent(ctx context.Context, event *domain.Event) error
	// ListEvents returns the newest events first; a non-positive limit means no limit
	ListEvents(ctx context.Context, tenantID int64, limit int) ([]*domain.Event, error)
}

// SyncStatusStore keeps the last sync outcome per tenant and entity
type SyncStatusStore interface {
	SaveStatus(ctx context.Context, status *domain.SyncStatus) error
	ListStatuses(ctx context.Context, tenantID int64) ([]*domain.SyncStatus, error)
}
