package repository

import (
	"context"
	"fmt"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/ports"

	"github.com/jmoiron/sqlx"
)

// PostgresProductRepository implements ProductRepository using PostgreSQL
type PostgresProductRepository struct {
	db *sqlx.DB
}

// NewPostgresProductRepository creates a new PostgreSQL product repository
func NewPostgresProductRepository(db *sqlx.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

var _ ports.ProductRepository = (*PostgresProductRepository)(nil)

// Upsert inserts or updates a product keyed by (tenant_id, shopify_product_id).
// The stored price is the first variant's price, NULL when there are no variants.
func (r *PostgresProductRepository) Upsert(ctx context.Context, tenantID int64, product *domain.ShopifyProduct) (int64, error) {
	query := `
		INSERT INTO products (tenant_id, shopify_product_id, title, body_html, vendor, product_type, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id, shopify_product_id) DO UPDATE SET
			title = EXCLUDED.title,
			body_html = EXCLUDED.body_html,
			vendor = EXCLUDED.vendor,
			product_type = EXCLUDED.product_type,
			price = EXCLUDED.price,
			updated_at = NOW()
		RETURNING id`

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		tenantID, product.ID, product.Title, product.BodyHTML, product.Vendor, product.ProductType,
		product.FirstVariantPrice(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert product %d: %w", product.ID, err)
	}

	return id, nil
}

// ListByTenant retrieves all products of a tenant, newest rows first
func (r *PostgresProductRepository) ListByTenant(ctx context.Context, tenantID int64) ([]domain.Product, error) {
	query := `
		SELECT id, tenant_id, shopify_product_id, title, body_html, vendor, product_type, price, created_at, updated_at
		FROM products
		WHERE tenant_id = $1
		ORDER BY id DESC`

	products := make([]domain.Product, 0)
	if err := r.db.SelectContext(ctx, &products, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// CountByTenant counts the products of a tenant
func (r *PostgresProductRepository) CountByTenant(ctx context.Context, tenantID int64) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM products WHERE tenant_id = $1`, tenantID); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}
