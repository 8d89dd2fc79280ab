package ports

import (
	"context"
	"encoding/json"

	"shopify-mirror/internal/domain"
)

// ShopifyClient defines the Admin API calls the mirror needs.
// Each method issues exactly one HTTP request and never retries.
type ShopifyClient interface {
	// Shop API
	GetShop(ctx context.Context) (*domain.ShopifyShop, error)

	// Collection reads (first page only)
	ListProducts(ctx context.Context) ([]domain.ShopifyProduct, error)
	ListCustomers(ctx context.Context) ([]domain.ShopifyCustomer, error)
	ListOrders(ctx context.Context) ([]domain.ShopifyOrder, error)

	// Creates forward the payload verbatim and return the upstream body unmodified
	CreateCustomer(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
	CreateOrder(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
}

// ShopifyClientFactory builds a client bound to one store's credentials
type ShopifyClientFactory interface {
	ForTenant(creds domain.Credentials) (ShopifyClient, error)
}
