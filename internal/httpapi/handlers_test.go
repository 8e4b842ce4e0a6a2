package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokopos/internal/cache"
	"tokopos/internal/cart"
	"tokopos/internal/domain"
	"tokopos/internal/service"
	"tokopos/internal/store"
	"tokopos/internal/store/memory"
)

const testManagerPIN = "739154"

// newTestAPI builds a full API with an in-memory store, real AuthManager and
// real Service so handler tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()
	api, _ := newTestAPIWithStore(t)
	return api
}

func newTestAPIWithStore(t *testing.T) (*API, *memory.Store) {
	t.Helper()

	repo := memory.NewSeeded()
	svc := service.New(repo, nil, service.Options{Timeout: 5 * time.Second})
	carts := cart.NewSessions(cache.NewMemoryCartStore(), svc, svc, cart.Options{TTL: time.Hour, OverrideUpdatesCatalog: true}, nil)
	auth := NewAuthManager("test-secret-key", time.Hour, testManagerPIN, repo, nil)

	return New(svc, carts, auth, Options{AllowedOrigin: "*"}), repo
}

// call sends a JSON request and decodes the JSON response into out when out
// is non-nil.
func call(t *testing.T, h http.Handler, method string, path string, token string, body any, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), "body: %s", rec.Body.String())
	}
	return rec.Code
}

func TestHandleHealth(t *testing.T) {
	api := newTestAPI(t)

	var body map[string]any
	code := call(t, api.Handler(), http.MethodGet, "/healthz", "", nil, &body)

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestHandleLogin_Success(t *testing.T) {
	api := newTestAPI(t)

	var body map[string]any
	code := call(t, api.Handler(), http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "admin",
		"password": "admin123",
	}, &body)

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["access_token"] == "" || body["access_token"] == nil {
		t.Fatalf("expected access_token in response, got %v", body)
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	api := newTestAPI(t)

	code := call(t, api.Handler(), http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "admin",
		"password": "wrongpassword",
	}, nil)

	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestHandleProducts_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	code := call(t, api.Handler(), http.MethodGet, "/api/v1/products", "", nil, nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestHandleProducts_WithValidToken(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "cashier", "cashier123")

	var body struct {
		Products []domain.Product `json:"products"`
	}
	code := call(t, api.Handler(), http.MethodGet, "/api/v1/products", token, nil, &body)

	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(body.Products) == 0 {
		t.Fatalf("expected seeded products")
	}
}

func TestGetUnknownProductIs404(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "cashier", "cashier123")

	code := call(t, api.Handler(), http.MethodGet, "/api/v1/products/nope", token, nil, nil)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

type cartEnvelope struct {
	Cart struct {
		ID       string                  `json:"id"`
		Customer domain.CustomerSnapshot `json:"customer"`
		Items    []struct {
			Quantity  int    `json:"quantity"`
			UnitPrice string `json:"unit_price"`
		} `json:"items"`
		Totals struct {
			Total string `json:"total"`
		} `json:"totals"`
	} `json:"cart"`
}

func TestCartCheckoutVoidFlow(t *testing.T) {
	api, repo := newTestAPIWithStore(t)
	h := api.Handler()
	token := loginAs(t, api, "cashier", "cashier123")

	var opened cartEnvelope
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/api/v1/carts", token, nil, &opened))
	cartPath := "/api/v1/carts/" + opened.Cart.ID
	assert.Equal(t, domain.WalkInName, opened.Cart.Customer.Name)

	var updated cartEnvelope
	require.Equal(t, http.StatusOK, call(t, h, http.MethodPost, cartPath+"/items", token, map[string]any{
		"product_id": "prod-widget-01",
		"quantity":   3,
	}, &updated))
	require.Len(t, updated.Cart.Items, 1)
	assert.Equal(t, "30", updated.Cart.Totals.Total)

	var result domain.CheckoutResult
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, cartPath+"/checkout", token, map[string]any{
		"payment_method":  "cash",
		"received_amount": "50",
	}, &result))
	assert.True(t, result.Sale.Total.Equal(result.Sale.Subtotal))
	assert.Equal(t, "20", result.Sale.ChangeAmount.String())

	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodGet, cartPath, token, nil, nil), "cart should be gone after checkout")

	salePath := "/api/v1/sales/" + result.Sale.ID
	var receipt struct {
		Receipt domain.Receipt `json:"receipt"`
	}
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, salePath+"/receipt", token, nil, &receipt))
	require.Len(t, receipt.Receipt.Lines, 1)
	assert.Equal(t, "Widget", receipt.Receipt.Lines[0].Name)

	var voided domain.VoidResult
	require.Equal(t, http.StatusOK, call(t, h, http.MethodPost, salePath+"/void", token, map[string]string{"manager_pin": testManagerPIN}, &voided))
	assert.Equal(t, domain.SaleStatusCancelled, voided.Sale.Status)
	require.Len(t, voided.Movements, 1)

	p, err := repo.GetProduct(context.Background(), "prod-widget-01")
	require.NoError(t, err)
	assert.Equal(t, 120, p.StockQuantity)
}

func TestCartCheckoutEmptyCartIs400(t *testing.T) {
	api := newTestAPI(t)
	h := api.Handler()
	token := loginAs(t, api, "cashier", "cashier123")

	var opened cartEnvelope
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/api/v1/carts", token, nil, &opened))

	code := call(t, h, http.MethodPost, "/api/v1/carts/"+opened.Cart.ID+"/checkout", token, map[string]any{"received_amount": "0"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestReceiptAsText(t *testing.T) {
	api := newTestAPI(t)
	h := api.Handler()
	token := loginAs(t, api, "cashier", "cashier123")

	var opened cartEnvelope
	call(t, h, http.MethodPost, "/api/v1/carts", token, nil, &opened)
	cartPath := "/api/v1/carts/" + opened.Cart.ID
	call(t, h, http.MethodPost, cartPath+"/items", token, map[string]any{"product_id": "prod-widget-01", "quantity": 1}, nil)
	var result domain.CheckoutResult
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, cartPath+"/checkout", token, map[string]any{"received_amount": "10"}, &result))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/"+result.Sale.ID+"/receipt?format=text", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Body.String(), "Thank you")
}

func TestSaleEditFlow(t *testing.T) {
	api := newTestAPI(t)
	h := api.Handler()
	token := loginAs(t, api, "cashier", "cashier123")

	var opened cartEnvelope
	call(t, h, http.MethodPost, "/api/v1/carts", token, nil, &opened)
	cartPath := "/api/v1/carts/" + opened.Cart.ID
	call(t, h, http.MethodPost, cartPath+"/items", token, map[string]any{"product_id": "prod-widget-01", "quantity": 5}, nil)
	var sold domain.CheckoutResult
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, cartPath+"/checkout", token, map[string]any{"received_amount": "50"}, &sold))
	editPath := "/api/v1/sales/" + sold.Sale.ID + "/edit"
	itemID := sold.SaleItems[0].ID

	var begun struct {
		Edit service.EditView `json:"edit"`
	}
	require.Equal(t, http.StatusOK, call(t, h, http.MethodPost, editPath, token, nil, &begun))
	assert.Equal(t, service.EditEditing, begun.Edit.State)

	assert.Equal(t, http.StatusBadRequest, call(t, h, http.MethodDelete, editPath+"/items/"+itemID, token, nil, nil), "removing the last item")
	require.Equal(t, http.StatusOK, call(t, h, http.MethodPatch, editPath+"/items/"+itemID, token, map[string]int{"delta": -2}, nil))

	var saved domain.EditResult
	require.Equal(t, http.StatusOK, call(t, h, http.MethodPost, editPath+"/save", token, nil, &saved))
	require.Len(t, saved.Movements, 1)
	assert.Equal(t, domain.MovementIn, saved.Movements[0].Type)
	assert.Equal(t, 2, saved.Movements[0].Quantity)
	assert.Equal(t, "30", saved.Sale.Total.String())

	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodGet, editPath, token, nil, nil), "session closes after save")
}

func TestEditCancelledSaleIsConflict(t *testing.T) {
	api := newTestAPI(t)
	h := api.Handler()
	token := loginAs(t, api, "admin", "admin123")

	var opened cartEnvelope
	call(t, h, http.MethodPost, "/api/v1/carts", token, nil, &opened)
	cartPath := "/api/v1/carts/" + opened.Cart.ID
	call(t, h, http.MethodPost, cartPath+"/items", token, map[string]any{"product_id": "prod-teh-01"}, nil)
	var sold domain.CheckoutResult
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, cartPath+"/checkout", token, map[string]any{"received_amount": "9800"}, &sold))

	salePath := "/api/v1/sales/" + sold.Sale.ID
	require.Equal(t, http.StatusOK, call(t, h, http.MethodPost, salePath+"/void", token, map[string]string{"manager_pin": testManagerPIN}, nil))
	assert.Equal(t, http.StatusConflict, call(t, h, http.MethodPost, salePath+"/edit", token, nil, nil))
}

func TestReceiveBatchAndLabels(t *testing.T) {
	api := newTestAPI(t)
	h := api.Handler()
	admin := loginAs(t, api, "admin", "admin123")
	cashier := loginAs(t, api, "cashier", "cashier123")

	req := map[string]any{
		"supplier": "PT Sumber",
		"lines":    []map[string]any{{"product_id": "prod-gula-01", "quantity": 2, "unit_cost": "14000"}},
	}
	assert.Equal(t, http.StatusForbidden, call(t, h, http.MethodPost, "/api/v1/batches", cashier, req, nil))

	var received domain.BatchReceiveResult
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/api/v1/batches", admin, req, &received))
	assert.Equal(t, 2, received.Batch.TotalQuantity)

	var labels domain.LabelSheet
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/v1/batches/"+received.Batch.ID+"/labels", cashier, nil, &labels))
	assert.Len(t, labels.Labels, 2)
	assert.Equal(t, 2, labels.Total)
	assert.Nil(t, labels.NextOffset)

	var page domain.LabelSheet
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/v1/batches/"+received.Batch.ID+"/labels?offset=0&limit=1", cashier, nil, &page))
	assert.Len(t, page.Labels, 1)
	require.NotNil(t, page.NextOffset)
	assert.Equal(t, 1, *page.NextOffset)
	assert.Equal(t, http.StatusBadRequest, call(t, h, http.MethodGet, "/api/v1/batches/"+received.Batch.ID+"/labels?offset=x", cashier, nil, nil))
}

func TestDailyReportBadDateIs400(t *testing.T) {
	api := newTestAPI(t)
	token := loginAs(t, api, "admin", "admin123")

	code := call(t, api.Handler(), http.MethodGet, "/api/v1/reports/daily?date=yesterday", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"not found", fmt.Errorf("sale x: %w", store.ErrNotFound), http.StatusNotFound},
		{"validation", domain.Invalid("price", "must not be negative"), http.StatusBadRequest},
		{"state", domain.Invalid("status", "only completed sales can be edited"), http.StatusConflict},
		{"conflict", store.ErrConflict, http.StatusConflict},
		{"timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"persistence", domain.Persist("insert sale", errors.New("disk full")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}
