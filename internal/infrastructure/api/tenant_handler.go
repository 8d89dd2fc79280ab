package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"shopify-mirror/internal/domain"

	"github.com/go-chi/chi/v5"
)

type tenantHandler struct {
	tenants Tenants
}

type onboardRequest struct {
	ShopifyDomain string `json:"shopify_domain"`
	AccessToken   string `json:"access_token"`
}

func (h *tenantHandler) fetchShop(w http.ResponseWriter, r *http.Request) {
	shop, err := h.tenants.FetchShop(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shop)
}

func (h *tenantHandler) list(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.tenants.ListTenants(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tenants)
}

func (h *tenantHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "tenantID"), 10, 64)
	if err != nil || id <= 0 {
		writeErrorMessage(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	tenant, err := h.tenants.ResolveTenant(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}

func (h *tenantHandler) onboard(w http.ResponseWriter, r *http.Request) {
	var req onboardRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes)).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err))
		return
	}

	tenant, err := h.tenants.OnboardTenant(r.Context(), req.ShopifyDomain, req.AccessToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tenant)
}
