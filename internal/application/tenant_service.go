package application

import (
	"context"
	"fmt"
	"strings"

	"shopify-mirror/internal/domain"
	"shopify-mirror/internal/ports"

	"github.com/rs/zerolog"
)

// CredentialVerifier checks store credentials against Shopify
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, creds domain.Credentials) (*domain.ShopifyShop, error)
}

// TenantService manages onboarded stores
type TenantService struct {
	tenants   ports.TenantRepository
	clients   ports.ShopifyClientFactory
	verifier  CredentialVerifier
	bootstrap domain.Credentials
	logger    zerolog.Logger
}

// NewTenantService creates a new tenant service.
// bootstrap holds the configured store used by FetchShop; it may be empty.
func NewTenantService(
	tenants ports.TenantRepository,
	clients ports.ShopifyClientFactory,
	verifier CredentialVerifier,
	bootstrap domain.Credentials,
	logger zerolog.Logger,
) *TenantService {
	return &TenantService{
		tenants:   tenants,
		clients:   clients,
		verifier:  verifier,
		bootstrap: bootstrap,
		logger:    logger,
	}
}

// FetchShop reads the configured store's shop info and records it as a tenant
func (s *TenantService) FetchShop(ctx context.Context) (*domain.ShopifyShop, error) {
	if s.bootstrap.ShopDomain == "" || s.bootstrap.AccessToken == "" {
		return nil, fmt.Errorf("failed to fetch shop: shopify store is not configured")
	}

	client, err := s.clients.ForTenant(s.bootstrap)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shop: %w", err)
	}

	shop, err := client.GetShop(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", s.bootstrap.ShopDomain).Msg("Failed to fetch shop")
		return nil, err
	}

	if _, err := s.saveTenant(ctx, shop, s.bootstrap); err != nil {
		return nil, err
	}

	return shop, nil
}

// OnboardTenant verifies the credentials and stores them as a tenant
func (s *TenantService) OnboardTenant(ctx context.Context, shopDomain string, accessToken string) (*domain.Tenant, error) {
	creds := domain.Credentials{
		ShopDomain:  domain.ShopifyDomainForStore(shopDomain),
		AccessToken: strings.TrimSpace(accessToken),
	}
	if creds.ShopDomain == "" || creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: shopify_domain and access_token are required", domain.ErrInvalidPayload)
	}

	shop, err := s.verifier.VerifyCredentials(ctx, creds)
	if err != nil {
		return nil, err
	}

	return s.saveTenant(ctx, shop, creds)
}

// saveTenant keys the tenant by the shop's myshopify domain, falling back to the requested one
func (s *TenantService) saveTenant(ctx context.Context, shop *domain.ShopifyShop, creds domain.Credentials) (*domain.Tenant, error) {
	shopDomain := shop.MyshopifyDomain
	if shopDomain == "" {
		shopDomain = creds.ShopDomain
	}

	tenant, err := s.tenants.Upsert(ctx, shopDomain, creds.AccessToken)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shopDomain).Msg("Failed to save tenant")
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}

	s.logger.Info().Int64("tenantId", tenant.ID).Str("shop", shopDomain).Msg("Tenant saved")
	return tenant, nil
}

// ListTenants returns every onboarded store
func (s *TenantService) ListTenants(ctx context.Context) ([]*domain.Tenant, error) {
	tenants, err := s.tenants.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list tenants")
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	if tenants == nil {
		tenants = []*domain.Tenant{}
	}
	return tenants, nil
}

// ResolveTenant returns the tenant or ErrTenantNotFound
func (s *TenantService) ResolveTenant(ctx context.Context, id int64) (*domain.Tenant, error) {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	if tenant == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrTenantNotFound, id)
	}
	return tenant, nil
}
