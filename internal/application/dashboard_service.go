package application

import (
	"context"
	"fmt"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/ports"

	"github.com/rs/zerolog"
)

// DashboardService serves read-only views of the mirror
type DashboardService struct {
	customers ports.CustomerRepository
	products  ports.ProductRepository
	orders    ports.OrderRepository
	logger    zerolog.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	customers ports.CustomerRepository,
	products ports.ProductRepository,
	orders ports.OrderRepository,
	logger zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		customers: customers,
		products:  products,
		orders:    orders,
		logger:    logger,
	}
}

// GetDashboard counts the tenant's mirrored rows
func (s *DashboardService) GetDashboard(ctx context.Context, tenantID int64) (*domain.DashboardStats, error) {
	customers, err := s.customers.CountByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error().Err(err).Int64("tenantId", tenantID).Msg("Failed to count customers")
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	orders, err := s.orders.CountByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error().Err(err).Int64("tenantId", tenantID).Msg("Failed to count orders")
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	products, err := s.products.CountByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error().Err(err).Int64("tenantId", tenantID).Msg("Failed to count products")
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	return &domain.DashboardStats{
		TotalCustomers: customers,
		TotalOrders:    orders,
		TotalProducts:  products,
		EventsToday:    domain.EventsTodayPlaceholder,
	}, nil
}

// ListCustomers returns the tenant's customers ordered by id
func (s *DashboardService) ListCustomers(ctx context.Context, tenantID int64) ([]domain.Customer, error) {
	customers, err := s.customers.ListByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error().Err(err).Int64("tenantId", tenantID).Msg("Failed to list customers")
		return nil, err
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	return customers, nil
}

// ListProducts returns the tenant's products, newest rows first
func (s *DashboardService) ListProducts(ctx context.Context, tenantID int64) ([]domain.Product, error) {
	products, err := s.products.ListByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error().Err(err).Int64("tenantId", tenantID).Msg("Failed to list products")
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// ListOrders returns the tenant's orders, most recent order date first
func (s *DashboardService) ListOrders(ctx context.Context, tenantID int64) ([]domain.Order, error) {
	orders, err := s.orders.ListByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error().Err(err).Int64("tenantId", tenantID).Msg("Failed to list orders")
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}
