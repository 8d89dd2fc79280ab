package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShopifyShop is the subset of the Admin API shop resource the service keeps
type ShopifyShop struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Domain          string     `json:"domain"`
	MyshopifyDomain string     `json:"myshopify_domain"`
	Currency        string     `json:"currency"`
	CountryName     string     `json:"country_name"`
	PlanName        string     `json:"plan_name"`
	IanaTimezone    string     `json:"iana_timezone"`
	CreatedAt       *time.Time `json:"created_at"`
}

// ShopifyCustomer is a customer as returned by the Admin API
type ShopifyCustomer struct {
	ID        int64   `json:"id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

// ShopifyVariant is a product variant as returned by the Admin API
type ShopifyVariant struct {
	ID    int64            `json:"id"`
	Price *decimal.Decimal `json:"price"`
}

// ShopifyProduct is a product as returned by the Admin API
type ShopifyProduct struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	BodyHTML    *string          `json:"body_html"`
	Vendor      *string          `json:"vendor"`
	ProductType *string          `json:"product_type"`
	Variants    []ShopifyVariant `json:"variants"`
}

// FirstVariantPrice returns the price of the first variant, or nil without variants
func (p *ShopifyProduct) FirstVariantPrice() *decimal.Decimal {
	if len(p.Variants) == 0 {
		return nil
	}
	return p.Variants[0].Price
}

// ShopifyOrder is an order as returned by the Admin API
type ShopifyOrder struct {
	ID         int64            `json:"id"`
	TotalPrice *decimal.Decimal `json:"total_price"`
	Currency   *string          `json:"currency"`
	CreatedAt  *time.Time       `json:"created_at"`
	Customer   *ShopifyCustomer `json:"customer"`
}
