package checkout

import (
	"context"
	"fmt"

	"github.com/jamesboogie/storefront-api/internal/jne"
	"github.com/jamesboogie/storefront-api/internal/woocommerce"
	"github.com/rs/zerolog/log"
)

// PriceStockOracle is the authoritative source for product price and
// stock state. Implemented by the WooCommerce client.
type PriceStockOracle interface {
	Product(ctx context.Context, productID int) (*woocommerce.Product, error)
	Variation(ctx context.Context, productID, variationID int) (*woocommerce.Product, error)
}

// RateOracle is the authoritative source for shipping quotes.
// Implemented by the JNE client.
type RateOracle interface {
	Price(ctx context.Context, params jne.PriceRequest) (*jne.PriceResponse, error)
}

// OrderGateway submits and retrieves orders at the commerce backend.
type OrderGateway interface {
	CreateOrder(ctx context.Context, payload *woocommerce.OrderPayload) (*woocommerce.Order, error)
	Order(ctx context.Context, orderID int) (*woocommerce.Order, error)
}

// Options tune the pipeline. Zero values fall back to the storefront
// defaults.
type Options struct {
	// OriginCode is the warehouse's carrier tariff code.
	OriginCode string
	// CarrierID is the shipping method id recorded on orders.
	CarrierID string
	// FrontendURL is the storefront's public base URL, used to rewrite
	// the backend's payment redirect.
	FrontendURL string
	// ShippingPolicy controls the reconciler when the rate oracle is
	// unreachable.
	ShippingPolicy FailurePolicy
	// MaxConcurrent caps the per-item oracle fan-out.
	MaxConcurrent int
}

// Service runs the checkout pipeline: revalidate cart, reconcile
// shipping, build payload, validate, submit. Each checkout works on
// the cart snapshot it was handed; nothing here mutates client state
// or caches oracle answers across requests.
type Service struct {
	products PriceStockOracle
	rates    RateOracle
	orders   OrderGateway

	originCode     string
	carrierID      string
	frontendURL    string
	shippingPolicy FailurePolicy
	maxConcurrent  int
}

func NewService(products PriceStockOracle, rates RateOracle, orders OrderGateway, opts Options) *Service {
	if opts.OriginCode == "" {
		opts.OriginCode = "BDO10000"
	}
	if opts.CarrierID == "" {
		opts.CarrierID = "jne"
	}
	if opts.FrontendURL == "" {
		opts.FrontendURL = "http://localhost:3000"
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 8
	}
	return &Service{
		products:       products,
		rates:          rates,
		orders:         orders,
		originCode:     opts.OriginCode,
		carrierID:      opts.CarrierID,
		frontendURL:    opts.FrontendURL,
		shippingPolicy: opts.ShippingPolicy,
		maxConcurrent:  opts.MaxConcurrent,
	}
}

// PlaceOrder runs the whole pipeline for one checkout attempt. No
// order is created unless every prior stage passed. Submissions are
// not idempotent; retrying a successful call creates a duplicate order.
func (s *Service) PlaceOrder(ctx context.Context, req *OrderRequest) (*OrderConfirmation, error) {
	if len(req.CartItems) == 0 {
		return nil, ErrEmptyCart
	}

	items, err := s.Revalidate(ctx, req.CartItems)
	if err != nil {
		return nil, err
	}

	shipping, err := s.ReconcileShipping(ctx, items, req.FormData, req.ShippingOption)
	if err != nil {
		return nil, err
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = paymentMethodBACS
	}

	payload := BuildOrderPayload(items, req.FormData, shipping, paymentMethod, s.carrierID, 0)

	if result := ValidatePayload(payload); !result.Valid {
		return nil, &ValidationError{Details: result.Errors}
	}

	order, err := s.orders.CreateOrder(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("checkout: order submission failed: %w", err)
	}

	return &OrderConfirmation{
		ID:         order.ID,
		Number:     order.Number,
		OrderKey:   order.OrderKey,
		Status:     order.Status,
		Total:      order.Total,
		PaymentURL: fmt.Sprintf("%s/order-success/%d?key=%s", s.frontendURL, order.ID, order.OrderKey),
	}, nil
}

// OrderDetail is what the order-success page needs.
type OrderDetail struct {
	ID              int    `json:"id"`
	Number          string `json:"number"`
	Status          string `json:"status"`
	Total           string `json:"total"`
	PaymentMethod   string `json:"paymentMethod"`
	ShippingService string `json:"shippingService"`
	UniqueCode      string `json:"uniqueCode,omitempty"`
	TransferAmount  string `json:"transferAmount,omitempty"`
}

// Order fetches an order, gated by its order key. The key acts as a
// capability token; a mismatch reveals nothing about the order.
func (s *Service) Order(ctx context.Context, orderID int, orderKey string) (*OrderDetail, error) {
	if orderKey == "" {
		return nil, ErrOrderKeyMismatch
	}

	order, err := s.orders.Order(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("checkout: failed to fetch order %d: %w", orderID, err)
	}
	if order.OrderKey != orderKey {
		log.Warn().Int("order_id", orderID).Msg("Order key mismatch")
		return nil, ErrOrderKeyMismatch
	}

	detail := &OrderDetail{
		ID:              order.ID,
		Number:          order.Number,
		Status:          order.Status,
		Total:           order.Total,
		PaymentMethod:   order.PaymentMethod,
		ShippingService: order.MetaValue("_shipping_jne_service"),
	}
	if order.PaymentMethod == paymentMethodBACS {
		detail.UniqueCode = order.MetaValue("_unique_payment_code")
		detail.TransferAmount = order.MetaValue("_transfer_amount")
		if detail.TransferAmount == "" {
			detail.TransferAmount = order.Total
		}
	}
	return detail, nil
}
