package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the mirrored copy of a Shopify customer
type Customer struct {
	ID                int64     `json:"id" db:"id"`
	TenantID          int64     `json:"tenant_id" db:"tenant_id"`
	ShopifyCustomerID int64     `json:"shopify_customer_id" db:"shopify_customer_id"`
	FirstName         *string   `json:"first_name" db:"first_name"`
	LastName          *string   `json:"last_name" db:"last_name"`
	Email             *string   `json:"email" db:"email"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// Product is the mirrored copy of a Shopify product.
// Price comes from the first variant and is nil when the product has none.
type Product struct {
	ID               int64            `json:"id" db:"id"`
	TenantID         int64            `json:"tenant_id" db:"tenant_id"`
	ShopifyProductID int64            `json:"shopify_product_id" db:"shopify_product_id"`
	Title            string           `json:"title" db:"title"`
	BodyHTML         *string          `json:"body_html" db:"body_html"`
	Vendor           *string          `json:"vendor" db:"vendor"`
	ProductType      *string          `json:"product_type" db:"product_type"`
	Price            *decimal.Decimal `json:"price" db:"price"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// Order is the mirrored copy of a Shopify order.
// CustomerID references the local customers row, not the Shopify customer id.
type Order struct {
	ID             int64            `json:"id" db:"id"`
	TenantID       int64            `json:"tenant_id" db:"tenant_id"`
	ShopifyOrderID int64            `json:"shopify_order_id" db:"shopify_order_id"`
	CustomerID     *int64           `json:"customer_id" db:"customer_id"`
	TotalPrice     *decimal.Decimal `json:"total_price" db:"total_price"`
	Currency       *string          `json:"currency" db:"currency"`
	OrderDate      *time.Time       `json:"order_date" db:"order_date"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

// EventsTodayPlaceholder is reported by the dashboard until event tracking feeds it
const EventsTodayPlaceholder = 45

// DashboardStats aggregates the mirror for a tenant
type DashboardStats struct {
	TotalCustomers int64 `json:"total_customers"`
	TotalOrders    int64 `json:"total_orders"`
	TotalProducts  int64 `json:"total_products"`
	EventsToday    int64 `json:"events_today"`
}

// SyncResult is returned by every sync run
type SyncResult struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}
