package repository

import (
	"context"
	"fmt"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/ports"

	"github.com/jmoiron/sqlx"
)

// PostgresCustomerRepository implements CustomerRepository using PostgreSQL
type PostgresCustomerRepository struct {
	db *sqlx.DB
}

// NewPostgresCustomerRepository creates a new PostgreSQL customer repository
func NewPostgresCustomerRepository(db *sqlx.DB) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

var _ ports.CustomerRepository = (*PostgresCustomerRepository)(nil)

// Upsert inserts or updates a customer keyed by (tenant_id, shopify_customer_id)
// and returns the local row id in both cases.
func (r *PostgresCustomerRepository) Upsert(ctx context.Context, tenantID int64, customer *domain.ShopifyCustomer) (int64, error) {
	query := `
		INSERT INTO customers (tenant_id, shopify_customer_id, first_name, last_name, email)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, shopify_customer_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			updated_at = NOW()
		RETURNING id`

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		tenantID, customer.ID, customer.FirstName, customer.LastName, customer.Email,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert customer %d: %w", customer.ID, err)
	}

	return id, nil
}

// ListByTenant retrieves all customers of a tenant ordered by id
func (r *PostgresCustomerRepository) ListByTenant(ctx context.Context, tenantID int64) ([]domain.Customer, error) {
	query := `
		SELECT id, tenant_id, shopify_customer_id, first_name, last_name, email, created_at, updated_at
		FROM customers
		WHERE tenant_id = $1
		ORDER BY id`

	customers := make([]domain.Customer, 0)
	if err := r.db.SelectContext(ctx, &customers, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, nil
}

// CountByTenant counts the customers of a tenant
func (r *PostgresCustomerRepository) CountByTenant(ctx context.Context, tenantID int64) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM customers WHERE tenant_id = $1`, tenantID); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}

	return count, nil
}
