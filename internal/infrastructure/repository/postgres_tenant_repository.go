package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/ports"

	"github.com/jmoiron/sqlx"
)

const tenantColumns = `id, shopify_domain, access_token, created_at, updated_at`

// PostgresTenantRepository implements TenantRepository using PostgreSQL
type PostgresTenantRepository struct {
	db *sqlx.DB
}

// NewPostgresTenantRepository creates a new PostgreSQL tenant repository
func NewPostgresTenantRepository(db *sqlx.DB) *PostgresTenantRepository {
	return &PostgresTenantRepository{db: db}
}

var _ ports.TenantRepository = (*PostgresTenantRepository)(nil)

// Upsert inserts the tenant or overwrites the access token of an existing domain
func (r *PostgresTenantRepository) Upsert(ctx context.Context, shopifyDomain string, accessToken string) (*domain.Tenant, error) {
	query := `
		INSERT INTO tenants (shopify_domain, access_token)
		VALUES ($1, $2)
		ON CONFLICT (shopify_domain) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			updated_at = NOW()
		RETURNING ` + tenantColumns

	var tenant domain.Tenant
	if err := r.db.GetContext(ctx, &tenant, query, shopifyDomain, accessToken); err != nil {
		return nil, fmt.Errorf("failed to upsert tenant: %w", err)
	}

	return &tenant, nil
}

// GetByID retrieves a tenant by its id
func (r *PostgresTenantRepository) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.db.GetContext(ctx, &tenant, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &tenant, nil
}

// GetByDomain retrieves a tenant by its myshopify domain
func (r *PostgresTenantRepository) GetByDomain(ctx context.Context, shopifyDomain string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.db.GetContext(ctx, &tenant, `SELECT `+tenantColumns+` FROM tenants WHERE shopify_domain = $1`, shopifyDomain)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant by domain: %w", err)
	}

	return &tenant, nil
}

// List retrieves all tenants ordered by id
func (r *PostgresTenantRepository) List(ctx context.Context) ([]*domain.Tenant, error) {
	tenants := make([]*domain.Tenant, 0)
	if err := r.db.SelectContext(ctx, &tenants, `SELECT `+tenantColumns+` FROM tenants ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	return tenants, nil
}
