package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// DefaultAPIVersion is the Admin API version used when none is configured
const DefaultAPIVersion = "2025-01"

// ClientFactory builds Shopify clients for tenant credentials
type ClientFactory struct {
	app        goshopify.App
	apiVersion string
	httpClient *http.Client
	metrics    ports.MetricsRecorder
	logger     zerolog.Logger
}

// FactoryOptions configures a ClientFactory
type FactoryOptions struct {
	APIVersion string
	HTTPClient *http.Client
	Metrics    ports.MetricsRecorder
}

// NewClientFactory creates a new Shopify client factory
func NewClientFactory(opts FactoryOptions, logger zerolog.Logger) *ClientFactory {
	if opts.APIVersion == "" {
		opts.APIVersion = DefaultAPIVersion
	}
	return &ClientFactory{
		apiVersion: opts.APIVersion,
		httpClient: opts.HTTPClient,
		metrics:    opts.Metrics,
		logger:     logger,
	}
}

// ForTenant returns a client bound to the given store credentials
func (f *ClientFactory) ForTenant(creds domain.Credentials) (ports.ShopifyClient, error) {
	if creds.ShopDomain == "" {
		return nil, fmt.Errorf("failed to create client: shop domain is required")
	}
	if creds.AccessToken == "" {
		return nil, fmt.Errorf("failed to create client: access token is required for %s", creds.ShopDomain)
	}

	opts := []goshopify.Option{goshopify.WithVersion(f.apiVersion)}
	if f.httpClient != nil {
		opts = append(opts, goshopify.WithHTTPClient(f.httpClient))
	}

	gs, err := goshopify.NewClient(f.app, creds.ShopDomain, creds.AccessToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &client{
		shop:    creds.ShopDomain,
		gs:      gs,
		metrics: f.metrics,
		logger:  f.logger.With().Str("shop", creds.ShopDomain).Logger(),
	}, nil
}

type client struct {
	shop    string
	gs      *goshopify.Client
	metrics ports.MetricsRecorder
	logger  zerolog.Logger
}

type shopResource struct {
	Shop *domain.ShopifyShop `json:"shop"`
}

type productsResource struct {
	Products []domain.ShopifyProduct `json:"products"`
}

type customersResource struct {
	Customers []domain.ShopifyCustomer `json:"customers"`
}

type ordersResource struct {
	Orders []domain.ShopifyOrder `json:"orders"`
}

// Shop API

func (c *client) GetShop(ctx context.Context) (*domain.ShopifyShop, error) {
	var resource shopResource
	if err := c.get(ctx, "get_shop", "shop.json", &resource); err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	if resource.Shop == nil {
		return nil, fmt.Errorf("failed to get shop: empty response for %s", c.shop)
	}
	return resource.Shop, nil
}

// Collection reads

func (c *client) ListProducts(ctx context.Context) ([]domain.ShopifyProduct, error) {
	var resource productsResource
	if err := c.get(ctx, "list_products", "products.json", &resource); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return resource.Products, nil
}

func (c *client) ListCustomers(ctx context.Context) ([]domain.ShopifyCustomer, error) {
	var resource customersResource
	if err := c.get(ctx, "list_customers", "customers.json", &resource); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return resource.Customers, nil
}

func (c *client) ListOrders(ctx context.Context) ([]domain.ShopifyOrder, error) {
	var resource ordersResource
	if err := c.get(ctx, "list_orders", "orders.json", &resource); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return resource.Orders, nil
}

// Creates

func (c *client) CreateCustomer(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	body, err := c.post(ctx, "create_customer", "customers.json", payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return body, nil
}

func (c *client) CreateOrder(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	body, err := c.post(ctx, "create_order", "orders.json", payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return body, nil
}

func (c *client) get(ctx context.Context, operation, path string, resource interface{}) error {
	start := time.Now()
	err := c.gs.Get(ctx, path, resource, nil)
	c.observe(operation, start, err)
	return err
}

func (c *client) post(ctx context.Context, operation, path string, payload json.RawMessage) (json.RawMessage, error) {
	var body json.RawMessage
	start := time.Now()
	err := c.gs.Post(ctx, path, payload, &body)
	c.observe(operation, start, err)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *client) observe(operation string, start time.Time, err error) {
	elapsed := time.Since(start)
	if c.metrics != nil {
		c.metrics.RecordUpstreamCall(operation, elapsed, err)
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("operation", operation).Dur("elapsed", elapsed).Msg("Shopify request failed")
		return
	}
	c.logger.Debug().Str("operation", operation).Dur("elapsed", elapsed).Msg("Shopify request completed")
}
