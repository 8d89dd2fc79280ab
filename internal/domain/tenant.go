package domain

import (
	"context"
	"strings"
	"time"
)

// DefaultTenantID is used when a request does not name a tenant
const DefaultTenantID int64 = 1

// Tenant represents one onboarded Shopify store
type Tenant struct {
	ID            int64     `json:"id" db:"id"`
	ShopifyDomain string    `json:"shopify_domain" db:"shopify_domain"`
	AccessToken   string    `json:"-" db:"access_token"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Credentials returns the upstream credentials stored on the tenant row
func (t *Tenant) Credentials() Credentials {
	return Credentials{
		ShopDomain:  t.ShopifyDomain,
		AccessToken: t.AccessToken,
	}
}

// Credentials identifies a store and the token used to call its Admin API
type Credentials struct {
	ShopDomain  string
	AccessToken string
}

// ShopifyDomainForStore turns a bare store name into its myshopify.com domain.
// Values that already contain a dot are returned unchanged.
func ShopifyDomainForStore(store string) string {
	store = strings.TrimSpace(store)
	if store == "" || strings.Contains(store, ".") {
		return store
	}
	return store + ".myshopify.com"
}

type contextKey string

const tenantIDKey contextKey = "tenant_id"

// WithTenantID stores the tenant id in the context
func WithTenantID(ctx context.Context, tenantID int64) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// GetTenantIDFromContext returns the tenant id from the context, or DefaultTenantID
func GetTenantIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(tenantIDKey).(int64); ok && id > 0 {
		return id
	}
	return DefaultTenantID
}
