// Package api exposes the mirror over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/infrastructure/pubsub"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// DashboardReader serves mirror reads
type DashboardReader interface {
	GetDashboard(ctx context.Context, tenantID int64) (*domain.DashboardStats, error)
	ListCustomers(ctx context.Context, tenantID int64) ([]domain.Customer, error)
	ListProducts(ctx context.Context, tenantID int64) ([]domain.Product, error)
	ListOrders(ctx context.Context, tenantID int64) ([]domain.Order, error)
}

// Mirror runs syncs and proxied creates
type Mirror interface {
	SyncProducts(ctx context.Context, tenantID int64) (*domain.SyncResult, error)
	SyncCustomers(ctx context.Context, tenantID int64) (*domain.SyncResult, error)
	SyncOrders(ctx context.Context, tenantID int64) (*domain.SyncResult, error)
	CreateCustomer(ctx context.Context, tenantID int64, payload json.RawMessage) (json.RawMessage, error)
	CreateOrder(ctx context.Context, tenantID int64, payload json.RawMessage) (json.RawMessage, error)
}

// Tenants manages onboarded stores
type Tenants interface {
	FetchShop(ctx context.Context) (*domain.ShopifyShop, error)
	OnboardTenant(ctx context.Context, shopDomain string, accessToken string) (*domain.Tenant, error)
	ListTenants(ctx context.Context) ([]*domain.Tenant, error)
	ResolveTenant(ctx context.Context, id int64) (*domain.Tenant, error)
}

// Activity serves the activity log and sync statuses
type Activity interface {
	ListEvents(ctx context.Context, tenantID int64, limit int) ([]*domain.Event, error)
	SyncStatuses(ctx context.Context, tenantID int64) ([]*domain.SyncStatus, error)
}

// EventStream hands out live activity subscriptions
type EventStream interface {
	Subscribe(ctx context.Context, filter *pubsub.EventFilter) *pubsub.Subscription
}

// HealthCheck reports whether a backing store is reachable
type HealthCheck func(ctx context.Context) error

// RouterDeps wires the handlers to their services
type RouterDeps struct {
	Dashboard DashboardReader
	Mirror    Mirror
	Tenants   Tenants
	Activity  Activity
	Stream    EventStream

	Health         HealthCheck
	Metrics        http.Handler
	Docs           http.Handler
	AllowedOrigins []string

	// Middleware runs after the built-in chain and before routing
	Middleware []func(http.Handler) http.Handler

	Logger zerolog.Logger
}

// NewRouter builds the HTTP handler for the service
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Tenant-ID", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	for _, mw := range deps.Middleware {
		r.Use(mw)
	}

	health := &healthHandler{check: deps.Health}
	r.Get("/health", health.ServeHTTP)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}
	if deps.Docs != nil {
		r.Handle("/swagger/*", deps.Docs)
	}

	mirror := &mirrorHandler{dashboard: deps.Dashboard, mirror: deps.Mirror}
	tenants := &tenantHandler{tenants: deps.Tenants}
	activity := &activityHandler{activity: deps.Activity, stream: deps.Stream, logger: deps.Logger}

	r.Route("/api", func(r chi.Router) {
		// reads
		r.Get("/dashboard", mirror.dashboardStats)
		r.Get("/customersfront", mirror.listCustomers)
		r.Get("/productsfront", mirror.listProducts)
		r.Get("/ordersfront", mirror.listOrders)

		// syncs
		r.Get("/products", mirror.syncProducts)
		r.Get("/customers", mirror.syncCustomers)
		r.Get("/orders", mirror.syncOrders)

		// write proxy
		r.Post("/customers/create-customers", mirror.createCustomer)
		r.Post("/order/create-order", mirror.createOrder)

		// tenants
		r.Get("/tenant", tenants.fetchShop)
		r.Get("/tenants", tenants.list)
		r.Post("/tenants", tenants.onboard)
		r.Get("/tenants/{tenantID}", tenants.get)

		// activity
		r.Get("/events", activity.listEvents)
		r.Get("/events/stream", activity.streamEvents)
		r.Get("/sync/status", activity.syncStatuses)
	})

	return r
}
