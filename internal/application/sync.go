package application

import (
	"context"
	"fmt"

	"shopify-mirror/internal/domain"
)

// Messages returned by sync runs
const (
	ProductsSyncedMessage  = "Products inserted/updated"
	CustomersSyncedMessage = "Customers inserted/updated"
	OrdersSyncedMessage    = "Orders + Customers synced"
)

// SyncProducts fetches the store's products and upserts each one.
// The first failing write aborts the run; rows written before it are kept.
func (s *MirrorService) SyncProducts(ctx context.Context, tenantID int64) (*domain.SyncResult, error) {
	count, err := s.syncProducts(ctx, tenantID)
	s.activity.RecordSync(ctx, tenantID, domain.EntityProducts, count, err)
	if err != nil {
		s.logger.Error().Err(err).Int64("tenantId", tenantID).Msg("Failed to sync products")
		return nil, err
	}

	s.logger.Info().Int64("tenantId", tenantID).Int("count", count).Msg("Products synced")
	return &domain.SyncResult{Message: ProductsSyncedMessage, Count: count}, nil
}

func (s *MirrorService) syncProducts(ctx context.Context, tenantID int64) (int, error) {
	client, err := s.clientForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	products, err := client.ListProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to sync products: %w", err)
	}

	for i := range products {
		if _, err := s.products.Upsert(ctx, tenantID, &products[i]); err != nil {
			return len(products), fmt.Errorf("failed to sync products: %w", err)
		}
	}

	return len(products), nil
}

// SyncCustomers fetches the store's customers and upserts each one
func (s *MirrorService) SyncCustomers(ctx context.Context, tenantID int64) (*domain.SyncResult, error) {
	count, err := s.syncCustomers(ctx, tenantID)
	s.activity.RecordSync(ctx, tenantID, domain.EntityCustomers, count, err)
	if err != nil {
		s.logger.Error().Err(err).Int64("tenantId", tenantID).Msg("Failed to sync customers")
		return nil, err
	}

	s.logger.Info().Int64("tenantId", tenantID).Int("count", count).Msg("Customers synced")
	return &domain.SyncResult{Message: CustomersSyncedMessage, Count: count}, nil
}

func (s *MirrorService) syncCustomers(ctx context.Context, tenantID int64) (int, error) {
	client, err := s.clientForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	customers, err := client.ListCustomers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to sync customers: %w", err)
	}

	for i := range customers {
		if _, err := s.customers.Upsert(ctx, tenantID, &customers[i]); err != nil {
			return len(customers), fmt.Errorf("failed to sync customers: %w", err)
		}
	}

	return len(customers), nil
}

// SyncOrders fetches the store's orders and upserts each one together with its customer
func (s *MirrorService) SyncOrders(ctx context.Context, tenantID int64) (*domain.SyncResult, error) {
	count, err := s.syncOrders(ctx, tenantID)
	s.activity.RecordSync(ctx, tenantID, domain.EntityOrders, count, err)
	if err != nil {
		s.logger.Error().Err(err).Int64("tenantId", tenantID).Msg("Failed to sync orders")
		return nil, err
	}

	s.logger.Info().Int64("tenantId", tenantID).Int("count", count).Msg("Orders synced")
	return &domain.SyncResult{Message: OrdersSyncedMessage, Count: count}, nil
}

func (s *MirrorService) syncOrders(ctx context.Context, tenantID int64) (int, error) {
	client, err := s.clientForTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	orders, err := client.ListOrders(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to sync orders: %w", err)
	}

	for i := range orders {
		if _, err := s.upsertOrder(ctx, tenantID, &orders[i]); err != nil {
			return len(orders), fmt.Errorf("failed to sync orders: %w", err)
		}
	}

	return len(orders), nil
}
