package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jamesboogie/storefront-api/internal/handler"
	"github.com/jamesboogie/storefront-api/internal/locations"
)

// NewRouter wires the storefront API surface.
func NewRouter(
	checkoutSvc handler.CheckoutService,
	rates handler.RateClient,
	aggregator handler.AggregatorClient,
	proxy handler.CheckoutProxyClient,
	store *locations.Store,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(handler.RequestID, handler.RequestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	co := handler.NewCheckoutHandler(checkoutSvc)
	sh := handler.NewShippingHandler(rates, aggregator, proxy, store)
	lo := handler.NewLocationsHandler(store)

	r.Route("/api", func(r chi.Router) {
		r.Post("/orders/create", co.CreateOrder)
		r.Get("/orders/{id}", co.GetOrder)

		r.Post("/shipping/jne", sh.JNEPrice)
		r.Get("/shipping/search", sh.SearchJNEDestinations)
		r.Get("/shipping/destinations", sh.KomerceDestinations)
		r.Post("/shipping/cost", sh.KomerceCost)

		r.Get("/checkout/search-destination", sh.SearchDestination)
		r.Post("/checkout/calculate-shipping", sh.CalculateShipping)

		r.Route("/locations", func(r chi.Router) {
			r.Get("/provinces", lo.Provinces)
			r.Get("/cities", lo.Cities)
			r.Get("/districts", lo.Districts)
			r.Get("/subdistricts", lo.Subdistricts)
		})
	})

	return r
}
