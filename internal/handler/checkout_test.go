package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jamesboogie/storefront-api/internal/checkout"
	"github.com/jamesboogie/storefront-api/internal/woocommerce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCheckoutService struct {
	placeOrderFunc func(ctx context.Context, req *checkout.OrderRequest) (*checkout.OrderConfirmation, error)
	orderFunc      func(ctx context.Context, orderID int, orderKey string) (*checkout.OrderDetail, error)
}

func (m *mockCheckoutService) PlaceOrder(ctx context.Context, req *checkout.OrderRequest) (*checkout.OrderConfirmation, error) {
	return m.placeOrderFunc(ctx, req)
}

func (m *mockCheckoutService) Order(ctx context.Context, orderID int, orderKey string) (*checkout.OrderDetail, error) {
	return m.orderFunc(ctx, orderID, orderKey)
}

func newCheckoutRouter(svc CheckoutService) *chi.Mux {
	h := NewCheckoutHandler(svc)
	r := chi.NewRouter()
	r.Post("/api/orders/create", h.CreateOrder)
	r.Get("/api/orders/{id}", h.GetOrder)
	return r
}

const createOrderBody = `{
	"cartItems": [{"product": {"databaseId": 42, "name": "Ventile Parka"}, "quantity": 1}],
	"formData": {"firstName": "Rizky", "email": "rizky@example.com", "phone": "081234567890"},
	"shippingOption": {"service": "REG", "price": 10000},
	"paymentMethod": "bacs"
}`

func TestCheckoutHandler_CreateOrder(t *testing.T) {
	three := 3

	tests := []struct {
		name           string
		body           string
		placeOrder     func(ctx context.Context, req *checkout.OrderRequest) (*checkout.OrderConfirmation, error)
		expectedStatus int
		checkBody      func(t *testing.T, body map[string]any)
	}{
		{
			name: "success",
			body: createOrderBody,
			placeOrder: func(ctx context.Context, req *checkout.OrderRequest) (*checkout.OrderConfirmation, error) {
				return &checkout.OrderConfirmation{
					ID:         123,
					Number:     "123",
					OrderKey:   "wc_order_abc",
					Status:     "on-hold",
					Total:      "110234",
					PaymentURL: "https://shop.example.com/order-success/123?key=wc_order_abc",
				}, nil
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["success"])
				order := body["order"].(map[string]any)
				assert.Equal(t, float64(123), order["id"])
				assert.Contains(t, order["paymentUrl"], "/order-success/123")
			},
		},
		{
			name: "out_of_stock",
			body: createOrderBody,
			placeOrder: func(ctx context.Context, req *checkout.OrderRequest) (*checkout.OrderConfirmation, error) {
				return nil, &checkout.StockError{Kind: checkout.KindOutOfStock, ProductName: "Ventile Parka"}
			},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "OUT_OF_STOCK", body["code"])
				assert.Contains(t, body["error"], "Ventile Parka")
				_, hasAvailable := body["stock_available"]
				assert.False(t, hasAvailable)
			},
		},
		{
			name: "insufficient_stock",
			body: createOrderBody,
			placeOrder: func(ctx context.Context, req *checkout.OrderRequest) (*checkout.OrderConfirmation, error) {
				return nil, &checkout.StockError{Kind: checkout.KindInsufficientStock, ProductName: "Ventile Parka", Available: &three}
			},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
				assert.Equal(t, float64(3), body["stock_available"])
			},
		},
		{
			name: "validation_failure",
			body: createOrderBody,
			placeOrder: func(ctx context.Context, req *checkout.OrderRequest) (*checkout.OrderConfirmation, error) {
				return nil, &checkout.ValidationError{Details: []string{"Email is required"}}
			},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Validation failed", body["error"])
				assert.Equal(t, []any{"Email is required"}, body["details"])
			},
		},
		{
			name: "non_positive_quantity_is_bad_request",
			body: createOrderBody,
			placeOrder: func(ctx context.Context, req *checkout.OrderRequest) (*checkout.OrderConfirmation, error) {
				return nil, &checkout.ValidationError{Details: []string{`Quantity for "Ventile Parka" must be a positive integer`}}
			},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Validation failed", body["error"])
				assert.Equal(t, []any{`Quantity for "Ventile Parka" must be a positive integer`}, body["details"])
			},
		},
		{
			name: "backend_failure_is_generic",
			body: createOrderBody,
			placeOrder: func(ctx context.Context, req *checkout.OrderRequest) (*checkout.OrderConfirmation, error) {
				return nil, &woocommerce.APIError{
					Code:       "woocommerce_rest_cannot_create",
					Message:    "SQLSTATE[HY000] [2002] Connection refused at /var/www/html/wp-includes/class-wpdb.php:1987",
					StatusCode: 500,
				}
			},
			expectedStatus: http.StatusInternalServerError,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Unable to create order. Please contact support.", body["error"])
				raw, _ := json.Marshal(body)
				assert.NotContains(t, string(raw), "SQLSTATE")
				assert.NotContains(t, string(raw), "wp-includes")
			},
		},
		{
			name:           "invalid_json",
			body:           `{invalid`,
			placeOrder:     func(ctx context.Context, req *checkout.OrderRequest) (*checkout.OrderConfirmation, error) { return nil, nil },
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "invalid request body", body["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newCheckoutRouter(&mockCheckoutService{placeOrderFunc: tt.placeOrder})

			req := httptest.NewRequest(http.MethodPost, "/api/orders/create", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			tt.checkBody(t, body)
		})
	}
}

func TestCheckoutHandler_GetOrder(t *testing.T) {
	svc := &mockCheckoutService{
		orderFunc: func(ctx context.Context, orderID int, orderKey string) (*checkout.OrderDetail, error) {
			if orderKey != "wc_order_abc" {
				return nil, checkout.ErrOrderKeyMismatch
			}
			return &checkout.OrderDetail{ID: orderID, Status: "on-hold", UniqueCode: "234"}, nil
		},
	}
	router := newCheckoutRouter(svc)

	t.Run("valid_key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/123?key=wc_order_abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"uniqueCode":"234"`)
	})

	t.Run("wrong_key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/123?key=stolen", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NotContains(t, w.Body.String(), "uniqueCode")
	})

	t.Run("invalid_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/abc?key=x", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
