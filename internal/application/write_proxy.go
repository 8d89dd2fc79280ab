package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"shopify-mirror/internal/domain"
)

type createdCustomer struct {
	Customer *domain.ShopifyCustomer `json:"customer"`
}

type createdOrder struct {
	Order *domain.ShopifyOrder `json:"order"`
}

// validatePayload accepts only a JSON object body
func validatePayload(payload json.RawMessage) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: body is empty", domain.ErrInvalidPayload)
	}
	if trimmed[0] != '{' || !json.Valid(trimmed) {
		return fmt.Errorf("%w: body must be a JSON object", domain.ErrInvalidPayload)
	}
	return nil
}

// CreateCustomer forwards the payload to Shopify unchanged and returns Shopify's body.
// The created customer is then written to the mirror; a failing write is logged only.
func (s *MirrorService) CreateCustomer(ctx context.Context, tenantID int64, payload json.RawMessage) (json.RawMessage, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	client, err := s.clientForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	body, err := client.CreateCustomer(ctx, payload)
	if err != nil {
		s.logger.Error().Err(err).Int64("tenantId", tenantID).Msg("Failed to create customer")
		return nil, err
	}

	// the upstream create already happened, so the mirror write outlives the request
	mirrorCtx := context.WithoutCancel(ctx)
	var created createdCustomer
	var shopifyID int64
	mirrorErr := json.Unmarshal(body, &created)
	if mirrorErr == nil && created.Customer != nil {
		shopifyID = created.Customer.ID
		_, mirrorErr = s.customers.Upsert(mirrorCtx, tenantID, created.Customer)
	} else if mirrorErr == nil {
		mirrorErr = errors.New("response has no customer object")
	}
	s.logMirrorResult(tenantID, domain.EntityCustomers, shopifyID, mirrorErr)
	s.activity.RecordCreate(mirrorCtx, tenantID, domain.EntityCustomers, shopifyID, mirrorErr)

	return body, nil
}

// CreateOrder forwards the payload to Shopify unchanged and returns Shopify's body.
// The created order and its customer are then written to the mirror; a failing write is logged only.
func (s *MirrorService) CreateOrder(ctx context.Context, tenantID int64, payload json.RawMessage) (json.RawMessage, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	client, err := s.clientForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	body, err := client.CreateOrder(ctx, payload)
	if err != nil {
		s.logger.Error().Err(err).Int64("tenantId", tenantID).Msg("Failed to create order")
		return nil, err
	}

	mirrorCtx := context.WithoutCancel(ctx)
	var created createdOrder
	var shopifyID int64
	mirrorErr := json.Unmarshal(body, &created)
	if mirrorErr == nil && created.Order != nil {
		shopifyID = created.Order.ID
		_, mirrorErr = s.upsertOrder(mirrorCtx, tenantID, created.Order)
	} else if mirrorErr == nil {
		mirrorErr = errors.New("response has no order object")
	}
	s.logMirrorResult(tenantID, domain.EntityOrders, shopifyID, mirrorErr)
	s.activity.RecordCreate(mirrorCtx, tenantID, domain.EntityOrders, shopifyID, mirrorErr)

	return body, nil
}

func (s *MirrorService) logMirrorResult(tenantID int64, entity string, shopifyID int64, err error) {
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("tenantId", tenantID).
			Str("entity", entity).
			Int64("shopifyId", shopifyID).
			Msg("Created upstream but mirror write failed")
		return
	}
	s.logger.Info().
		Int64("tenantId", tenantID).
		Str("entity", entity).
		Int64("shopifyId", shopifyID).
		Msg("Created upstream and mirrored")
}
