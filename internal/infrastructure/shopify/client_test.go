package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"shopify-mirror/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// rewriteTransport sends every request to the test server regardless of the shop host
type rewriteTransport struct {
	target *url.URL
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = t.target.Scheme
	out.URL.Host = t.target.Host
	out.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(out)
}

type recordedCall struct {
	operation string
	err       error
}

type fakeMetrics struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (m *fakeMetrics) RecordSyncRun(string, int, error) {}

func (m *fakeMetrics) RecordUpstreamCall(operation string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, recordedCall{operation: operation, err: err})
}

func (m *fakeMetrics) RecordMirrorWriteFailure(string) {}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*fakeMetrics, *client) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	target, _ := url.Parse(srv.URL)
	metrics := &fakeMetrics{}
	factory := NewClientFactory(FactoryOptions{
		HTTPClient: &http.Client{Transport: &rewriteTransport{target: target}},
		Metrics:    metrics,
	}, zerolog.Nop())

	c, err := factory.ForTenant(domain.Credentials{ShopDomain: "demo-store.myshopify.com", AccessToken: "shpat_test"})
	if err != nil {
		t.Fatalf("ForTenant returned error: %v", err)
	}
	return metrics, c.(*client)
}

func TestForTenant_RequiresCredentials(t *testing.T) {
	factory := NewClientFactory(FactoryOptions{}, zerolog.Nop())

	if _, err := factory.ForTenant(domain.Credentials{AccessToken: "shpat_test"}); err == nil {
		t.Error("expected error without shop domain")
	}
	if _, err := factory.ForTenant(domain.Credentials{ShopDomain: "demo-store.myshopify.com"}); err == nil {
		t.Error("expected error without access token")
	}
}

func TestListProducts_SendsTokenAndVersionedPath(t *testing.T) {
	var gotPath, gotToken string
	metrics, c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"products":[
			{"id":1,"title":"Hat","vendor":"Acme","variants":[{"id":11,"price":"19.99"}]},
			{"id":2,"title":"Gift card","variants":[]}
		]}`)
	})

	products, err := c.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts returned error: %v", err)
	}

	if gotPath != "/admin/api/"+DefaultAPIVersion+"/products.json" {
		t.Errorf("path = %q, want /admin/api/%s/products.json", gotPath, DefaultAPIVersion)
	}
	if gotToken != "shpat_test" {
		t.Errorf("X-Shopify-Access-Token = %q, want shpat_test", gotToken)
	}
	if len(products) != 2 {
		t.Fatalf("len(products) = %d, want 2", len(products))
	}
	if p := products[0].FirstVariantPrice(); p == nil || p.StringFixed(2) != "19.99" {
		t.Errorf("first product price = %v, want 19.99", p)
	}
	if p := products[1].FirstVariantPrice(); p != nil {
		t.Errorf("second product price = %v, want nil", p)
	}
	if len(metrics.calls) != 1 || metrics.calls[0].operation != "list_products" || metrics.calls[0].err != nil {
		t.Errorf("metrics calls = %+v, want one successful list_products", metrics.calls)
	}
}

func TestListOrders_DecodesCustomer(t *testing.T) {
	_, c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"orders":[
			{"id":100,"total_price":"50.00","currency":"EUR","created_at":"2024-05-01T10:00:00Z","customer":{"id":7,"email":"a@example.com"}},
			{"id":101,"total_price":"5.00","currency":"EUR","created_at":"2024-05-02T10:00:00Z"}
		]}`)
	})

	orders, err := c.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("ListOrders returned error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("len(orders) = %d, want 2", len(orders))
	}
	if orders[0].Customer == nil || orders[0].Customer.ID != 7 {
		t.Errorf("orders[0].Customer = %+v, want id 7", orders[0].Customer)
	}
	if orders[1].Customer != nil {
		t.Errorf("orders[1].Customer = %+v, want nil", orders[1].Customer)
	}
}

func TestListCustomers_UpstreamErrorIsWrapped(t *testing.T) {
	var hits int
	metrics, c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"errors":"Internal Server Error"}`)
	})

	_, err := c.ListCustomers(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.HasPrefix(err.Error(), "failed to list customers: ") {
		t.Errorf("error = %q, want failed to list customers prefix", err.Error())
	}
	if hits != 1 {
		t.Errorf("upstream hits = %d, want exactly 1 (no retry)", hits)
	}
	if len(metrics.calls) != 1 || metrics.calls[0].err == nil {
		t.Errorf("metrics calls = %+v, want one failed call", metrics.calls)
	}
}

func TestCreateCustomer_ForwardsPayloadVerbatim(t *testing.T) {
	payload := json.RawMessage(`{"customer":{"first_name":"Steve","email":"steve@example.com","tags":"vip"}}`)
	upstream := `{"customer":{"id":1073339467,"first_name":"Steve","email":"steve@example.com"}}`

	var gotMethod, gotPath string
	var gotBody map[string]interface{}
	_, c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, upstream)
	})

	body, err := c.CreateCustomer(context.Background(), payload)
	if err != nil {
		t.Fatalf("CreateCustomer returned error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if !strings.HasSuffix(gotPath, "/customers.json") {
		t.Errorf("path = %q, want suffix /customers.json", gotPath)
	}
	customer, _ := gotBody["customer"].(map[string]interface{})
	if customer["tags"] != "vip" {
		t.Errorf("forwarded body = %v, want tags preserved", gotBody)
	}
	if string(body) != upstream {
		t.Errorf("body = %s, want %s", body, upstream)
	}
}

func TestCreateOrder_UpstreamValidationError(t *testing.T) {
	_, c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"errors":{"line_items":["can't be blank"]}}`)
	})

	_, err := c.CreateOrder(context.Background(), json.RawMessage(`{"order":{}}`))
	if err == nil {
		t.Fatal("expected error for 422 response")
	}
	if !strings.HasPrefix(err.Error(), "failed to create order: ") {
		t.Errorf("error = %q, want failed to create order prefix", err.Error())
	}
}

func TestGetShop(t *testing.T) {
	_, c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/shop.json") {
			t.Errorf("path = %q, want suffix /shop.json", r.URL.Path)
		}
		io.WriteString(w, `{"shop":{"id":548380009,"name":"Demo","myshopify_domain":"demo-store.myshopify.com","currency":"USD"}}`)
	})

	shop, err := c.GetShop(context.Background())
	if err != nil {
		t.Fatalf("GetShop returned error: %v", err)
	}
	if shop.MyshopifyDomain != "demo-store.myshopify.com" || shop.Name != "Demo" {
		t.Errorf("shop = %+v", shop)
	}
}

func TestVerifyCredentials_UnauthorizedIsInvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"errors":"[API] Invalid API key or access token (unrecognized login or wrong password)"}`)
	}))
	defer srv.Close()

	target, _ := url.Parse(srv.URL)
	factory := NewClientFactory(FactoryOptions{
		HTTPClient: &http.Client{Transport: &rewriteTransport{target: target}},
	}, zerolog.Nop())
	tm := NewTokenManager(factory, zerolog.Nop())

	_, err := tm.VerifyCredentials(context.Background(), domain.Credentials{ShopDomain: "demo-store.myshopify.com", AccessToken: "bad"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestVerifyCredentials_RejectsEmptyInput(t *testing.T) {
	tm := NewTokenManager(NewClientFactory(FactoryOptions{}, zerolog.Nop()), zerolog.Nop())

	_, err := tm.VerifyCredentials(context.Background(), domain.Credentials{ShopDomain: "demo-store.myshopify.com"})
	if !errors.Is(err, domain.ErrInvalidPayload) {
		t.Errorf("error = %v, want ErrInvalidPayload", err)
	}
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unauthorized", goshopify.ResponseError{Status: http.StatusUnauthorized}, true},
		{"forbidden wrapped", fmt.Errorf("failed to get shop: %w", goshopify.ResponseError{Status: http.StatusForbidden}), true},
		{"server error", goshopify.ResponseError{Status: http.StatusInternalServerError}, false},
		{"plain error", errors.New("connection reset"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAuthError(tt.err); got != tt.want {
				t.Errorf("IsAuthError = %v, want %v", got, tt.want)
			}
		})
	}
}
