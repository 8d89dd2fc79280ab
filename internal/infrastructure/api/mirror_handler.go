package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"shopify-mirror/internal/domain"
)

// maxPayloadBytes bounds a proxied create body
const maxPayloadBytes = 1 << 20

type mirrorHandler struct {
	dashboard DashboardReader
	mirror    Mirror
}

func (h *mirrorHandler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.GetDashboard(r.Context(), domain.GetTenantIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *mirrorHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.dashboard.ListCustomers(r.Context(), domain.GetTenantIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *mirrorHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.dashboard.ListProducts(r.Context(), domain.GetTenantIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *mirrorHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.dashboard.ListOrders(r.Context(), domain.GetTenantIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *mirrorHandler) syncProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.mirror.SyncProducts(r.Context(), domain.GetTenantIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *mirrorHandler) syncCustomers(w http.ResponseWriter, r *http.Request) {
	result, err := h.mirror.SyncCustomers(r.Context(), domain.GetTenantIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *mirrorHandler) syncOrders(w http.ResponseWriter, r *http.Request) {
	result, err := h.mirror.SyncOrders(r.Context(), domain.GetTenantIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *mirrorHandler) createCustomer(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := h.mirror.CreateCustomer(r.Context(), domain.GetTenantIDFromContext(r.Context()), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

func (h *mirrorHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := h.mirror.CreateOrder(r.Context(), domain.GetTenantIDFromContext(r.Context()), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRawJSON(w, http.StatusOK, body)
}

func readPayload(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	defer r.Body.Close()

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: body exceeds %d bytes", domain.ErrInvalidPayload, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: failed to read body", domain.ErrInvalidPayload)
	}
	return payload, nil
}
