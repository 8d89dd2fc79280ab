package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// TokenManager verifies store credentials before they are stored on a tenant
type TokenManager struct {
	factory ports.ShopifyClientFactory
	logger  zerolog.Logger
}

// NewTokenManager creates a new token manager
func NewTokenManager(factory ports.ShopifyClientFactory, logger zerolog.Logger) *TokenManager {
	return &TokenManager{
		factory: factory,
		logger:  logger,
	}
}

// VerifyCredentials makes a shop call with the credentials and returns the shop on success.
// A 401 or 403 from Shopify yields domain.ErrInvalidCredentials; other failures are returned as is.
func (tm *TokenManager) VerifyCredentials(ctx context.Context, creds domain.Credentials) (*domain.ShopifyShop, error) {
	if creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: token is empty", domain.ErrInvalidPayload)
	}
	if creds.ShopDomain == "" {
		return nil, fmt.Errorf("%w: shop domain is required", domain.ErrInvalidPayload)
	}

	client, err := tm.factory.ForTenant(creds)
	if err != nil {
		return nil, err
	}

	shop, err := client.GetShop(ctx)
	if err != nil {
		if IsAuthError(err) {
			tm.logger.Warn().
				Str("shop", creds.ShopDomain).
				Msg("Token verification failed: token is invalid or revoked")
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, creds.ShopDomain)
		}
		return nil, err
	}

	tm.logger.Debug().
		Str("shop", creds.ShopDomain).
		Msg("Token verification successful")
	return shop, nil
}

// IsAuthError reports whether err carries a 401 or 403 response from Shopify
func IsAuthError(err error) bool {
	var respErr goshopify.ResponseError
	if errors.As(err, &respErr) {
		return respErr.Status == http.StatusUnauthorized || respErr.Status == http.StatusForbidden
	}
	return false
}
