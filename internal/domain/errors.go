package domain

import "errors"

var (
	// ErrTenantNotFound is returned when no tenant row matches the request
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrInvalidPayload is returned for create requests without a JSON object body
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrInvalidCredentials is returned when Shopify rejects a store's access token
	ErrInvalidCredentials = errors.New("access token is invalid or revoked")
)
