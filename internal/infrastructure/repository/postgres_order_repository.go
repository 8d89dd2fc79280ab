package repository

import (
	"context"
	"fmt"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/ports"

	"github.com/jmoiron/sqlx"
)

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *sqlx.DB
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository
func NewPostgresOrderRepository(db *sqlx.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

var _ ports.OrderRepository = (*PostgresOrderRepository)(nil)

// Upsert inserts or updates an order keyed by (tenant_id, shopify_order_id).
// customerID is the local customers.id, or nil for orders without a customer.
func (r *PostgresOrderRepository) Upsert(ctx context.Context, tenantID int64, order *domain.ShopifyOrder, customerID *int64) (int64, error) {
	query := `
		INSERT INTO orders (tenant_id, shopify_order_id, customer_id, total_price, currency, order_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id, shopify_order_id) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			total_price = EXCLUDED.total_price,
			currency = EXCLUDED.currency,
			order_date = EXCLUDED.order_date,
			updated_at = NOW()
		RETURNING id`

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		tenantID, order.ID, customerID, order.TotalPrice, order.Currency, order.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert order %d: %w", order.ID, err)
	}

	return id, nil
}

// ListByTenant retrieves all orders of a tenant, most recent order date first
func (r *PostgresOrderRepository) ListByTenant(ctx context.Context, tenantID int64) ([]domain.Order, error) {
	query := `
		SELECT id, tenant_id, shopify_order_id, customer_id, total_price, currency, order_date, created_at, updated_at
		FROM orders
		WHERE tenant_id = $1
		ORDER BY order_date DESC NULLS LAST, id DESC`

	orders := make([]domain.Order, 0)
	if err := r.db.SelectContext(ctx, &orders, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// CountByTenant counts the orders of a tenant
func (r *PostgresOrderRepository) CountByTenant(ctx context.Context, tenantID int64) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders WHERE tenant_id = $1`, tenantID); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return count, nil
}
