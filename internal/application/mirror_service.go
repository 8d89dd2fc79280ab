package application

import (
	"context"
	"fmt"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/ports"

	"github.com/rs/zerolog"
)

// MirrorService pulls Shopify data into the local mirror and proxies creates upstream.
// It depends on ports, not concrete implementations.
type MirrorService struct {
	tenants   ports.TenantRepository
	customers ports.CustomerRepository
	products  ports.ProductRepository
	orders    ports.OrderRepository
	clients   ports.ShopifyClientFactory
	activity  *ActivityRecorder
	logger    zerolog.Logger
}

// NewMirrorService creates a new mirror service
func NewMirrorService(
	tenants ports.TenantRepository,
	customers ports.CustomerRepository,
	products ports.ProductRepository,
	orders ports.OrderRepository,
	clients ports.ShopifyClientFactory,
	activity *ActivityRecorder,
	logger zerolog.Logger,
) *MirrorService {
	return &MirrorService{
		tenants:   tenants,
		customers: customers,
		products:  products,
		orders:    orders,
		clients:   clients,
		activity:  activity,
		logger:    logger,
	}
}

// clientForTenant loads the tenant row and builds a client from its stored credentials
func (s *MirrorService) clientForTenant(ctx context.Context, tenantID int64) (ports.ShopifyClient, error) {
	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	if tenant == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrTenantNotFound, tenantID)
	}

	client, err := s.clients.ForTenant(tenant.Credentials())
	if err != nil {
		return nil, fmt.Errorf("failed to get client for tenant %d: %w", tenantID, err)
	}

	return client, nil
}

// upsertOrder writes the order's embedded customer first, when present,
// and links the order to the resulting local customer id.
func (s *MirrorService) upsertOrder(ctx context.Context, tenantID int64, order *domain.ShopifyOrder) (int64, error) {
	var customerID *int64
	if order.Customer != nil {
		id, err := s.customers.Upsert(ctx, tenantID, order.Customer)
		if err != nil {
			return 0, err
		}
		customerID = &id
	}

	return s.orders.Upsert(ctx, tenantID, order, customerID)
}
