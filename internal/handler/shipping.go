package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jamesboogie/storefront-api/internal/jne"
	"github.com/jamesboogie/storefront-api/internal/komerce"
	"github.com/jamesboogie/storefront-api/internal/locations"
	"github.com/rs/zerolog/log"
)

const destinationSearchLimit = 20

// RateClient quotes the JNE carrier.
type RateClient interface {
	Price(ctx context.Context, params jne.PriceRequest) (*jne.PriceResponse, error)
}

// AggregatorClient talks to the Komerce shipping aggregator.
type AggregatorClient interface {
	SearchDestinations(ctx context.Context, search string, limit int) ([]komerce.Destination, error)
	CalculateCost(ctx context.Context, origin, destination string, weight int, courier string) ([]komerce.CostOption, error)
}

// CheckoutProxyClient forwards to the store's checkout endpoints.
type CheckoutProxyClient interface {
	SearchDestination(ctx context.Context, search string) (json.RawMessage, error)
	CalculateShipping(ctx context.Context, destinationID string, weight int) (json.RawMessage, error)
}

// ShippingHandler serves rate quotes and destination lookups.
type ShippingHandler struct {
	rates      RateClient
	aggregator AggregatorClient
	proxy      CheckoutProxyClient
	store      *locations.Store
}

func NewShippingHandler(rates RateClient, aggregator AggregatorClient, proxy CheckoutProxyClient, store *locations.Store) *ShippingHandler {
	return &ShippingHandler{rates: rates, aggregator: aggregator, proxy: proxy, store: store}
}

type jnePriceRequestDTO struct {
	From   string `json:"from"`
	Thru   string `json:"thru"`
	Weight *int   `json:"weight"`
}

// JNEPrice handles POST /api/shipping/jne.
func (h *ShippingHandler) JNEPrice(w http.ResponseWriter, r *http.Request) {
	var req jnePriceRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.From == "" || req.Thru == "" || req.Weight == nil {
		respondError(w, http.StatusBadRequest, "Origin (from), Destination (thru), and Weight are required")
		return
	}

	priced, err := h.rates.Price(r.Context(), jne.PriceRequest{From: req.From, Thru: req.Thru, Weight: *req.Weight})
	if err != nil {
		log.Error().
			Err(err).
			Str("endpoint", r.URL.Path).
			Str("request_id", requestIDFrom(r.Context())).
			Msg("JNE price lookup failed")
		respondError(w, http.StatusInternalServerError, "Failed to calculate JNE price")
		return
	}
	if priced.Error != "" {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": priced.Error, "status": false})
		return
	}

	respondJSON(w, http.StatusOK, priced)
}

// SearchJNEDestinations handles GET /api/shipping/search over the
// embedded tariff-code dataset.
func (h *ShippingHandler) SearchJNEDestinations(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	if len(search) < 3 {
		respondError(w, http.StatusBadRequest, "Please type at least 3 characters")
		return
	}

	results := h.store.SearchDestinations(search, destinationSearchLimit)
	respondJSON(w, http.StatusOK, map[string]any{"data": results})
}

// KomerceDestinations handles GET /api/shipping/destinations. The
// storefront expects an array in every case, including failures.
func (h *ShippingHandler) KomerceDestinations(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	if len(search) < 3 {
		respondJSON(w, http.StatusOK, []komerce.Destination{})
		return
	}

	dests, err := h.aggregator.SearchDestinations(r.Context(), search, destinationSearchLimit)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestIDFrom(r.Context())).Msg("Komerce destination search failed")
		respondJSON(w, http.StatusInternalServerError, []komerce.Destination{})
		return
	}
	if dests == nil {
		dests = []komerce.Destination{}
	}
	respondJSON(w, http.StatusOK, dests)
}

type komerceCostRequestDTO struct {
	Origin        string `json:"origin"`
	OriginID      string `json:"origin_id"`
	Destination   string `json:"destination"`
	DestinationID string `json:"destination_id"`
	Weight        *int   `json:"weight"`
	Courier       string `json:"courier"`
}

// KomerceCost handles POST /api/shipping/cost.
func (h *ShippingHandler) KomerceCost(w http.ResponseWriter, r *http.Request) {
	var req komerceCostRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	origin := req.Origin
	if origin == "" {
		origin = req.OriginID
	}
	destination := req.Destination
	if destination == "" {
		destination = req.DestinationID
	}
	courier := req.Courier
	if courier == "" {
		courier = "jne"
	}
	if origin == "" || destination == "" || req.Weight == nil {
		respondError(w, http.StatusBadRequest, "Missing required params")
		return
	}

	costs, err := h.aggregator.CalculateCost(r.Context(), origin, destination, *req.Weight, courier)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestIDFrom(r.Context())).Msg("Komerce cost lookup failed")
		respondError(w, http.StatusBadGateway, "Failed to calculate shipping cost")
		return
	}
	if costs == nil {
		costs = []komerce.CostOption{}
	}
	respondJSON(w, http.StatusOK, costs)
}

// SearchDestination handles GET /api/checkout/search-destination,
// proxying the store's destination lookup.
func (h *ShippingHandler) SearchDestination(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	if len(search) < 3 {
		respondError(w, http.StatusBadRequest, "Minimum 3 characters required")
		return
	}

	data, err := h.proxy.SearchDestination(r.Context(), search)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestIDFrom(r.Context())).Msg("Destination search proxy failed")
		respondError(w, http.StatusInternalServerError, "Failed to search destinations")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

type calculateShippingRequestDTO struct {
	DestinationID string `json:"destination_id"`
	Weight        *int   `json:"weight"`
}

// CalculateShipping handles POST /api/checkout/calculate-shipping,
// proxying the store's shipping calculator.
func (h *ShippingHandler) CalculateShipping(w http.ResponseWriter, r *http.Request) {
	var req calculateShippingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DestinationID == "" || req.Weight == nil {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	data, err := h.proxy.CalculateShipping(r.Context(), req.DestinationID, *req.Weight)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestIDFrom(r.Context())).Msg("Shipping calculation proxy failed")
		respondError(w, http.StatusInternalServerError, "Failed to calculate shipping")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
