package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jamesboogie/storefront-api/internal/checkout"
	"github.com/jamesboogie/storefront-api/internal/woocommerce"
	"github.com/rs/zerolog/log"
)

// CheckoutService runs the order pipeline.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, req *checkout.OrderRequest) (*checkout.OrderConfirmation, error)
	Order(ctx context.Context, orderID int, orderKey string) (*checkout.OrderDetail, error)
}

// CheckoutHandler handles order creation and retrieval.
type CheckoutHandler struct {
	svc CheckoutService
}

func NewCheckoutHandler(svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// CreateOrder handles POST /api/orders/create.
func (h *CheckoutHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req checkout.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	confirmation, err := h.svc.PlaceOrder(r.Context(), &req)
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   confirmation,
	})
}

// writeCheckoutError maps pipeline failures to the response taxonomy:
// stock and validation violations are structured 400s, everything else
// is a generic 500. Backend error internals go to the server log only.
func (h *CheckoutHandler) writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var stockErr *checkout.StockError
	if errors.As(err, &stockErr) {
		resp := map[string]any{
			"error": stockErr.Message(),
			"code":  string(stockErr.Kind),
		}
		if stockErr.Available != nil {
			resp["stock_available"] = *stockErr.Available
		}
		respondJSON(w, http.StatusBadRequest, resp)
		return
	}

	var validationErr *checkout.ValidationError
	if errors.As(err, &validationErr) {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Validation failed",
			"details": validationErr.Details,
		})
		return
	}

	var resolveErr *checkout.ResolveError
	if errors.As(err, &resolveErr) {
		respondError(w, http.StatusBadRequest, "Invalid product in cart. Please refresh and try again.")
		return
	}

	if errors.Is(err, checkout.ErrEmptyCart) {
		respondError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	log.Error().
		Err(err).
		Str("endpoint", r.URL.Path).
		Str("request_id", requestIDFrom(r.Context())).
		Msg("Order pipeline failure")
	respondError(w, http.StatusInternalServerError, woocommerce.UserMessage(err))
}

// GetOrder handles GET /api/orders/{id}?key=. The order key is the
// capability token returned at creation time.
func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	detail, err := h.svc.Order(r.Context(), orderID, r.URL.Query().Get("key"))
	if err != nil {
		if errors.Is(err, checkout.ErrOrderKeyMismatch) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Error().
			Err(err).
			Str("endpoint", r.URL.Path).
			Str("request_id", requestIDFrom(r.Context())).
			Msg("Order lookup failure")
		respondError(w, http.StatusInternalServerError, woocommerce.UserMessage(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   detail,
	})
}
