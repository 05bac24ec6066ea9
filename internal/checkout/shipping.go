package checkout

import (
	"context"
	"fmt"
	"math"

	"github.com/jamesboogie/storefront-api/internal/jne"
	"github.com/rs/zerolog/log"
)

// A cart with no usable weights is still shippable; assume half a kilo
// before rounding.
const defaultCartWeightGrams = 500

// billableWeightKg sums item weights in grams and rounds up to whole
// kilograms, minimum 1 kg.
func billableWeightKg(items []RevalidatedItem) int {
	var grams float64
	for _, item := range items {
		grams += item.WeightGrams * float64(item.Quantity)
	}
	if grams <= 0 {
		grams = defaultCartWeightGrams
	}
	kg := int(math.Ceil(grams / 1000))
	if kg < 1 {
		kg = 1
	}
	return kg
}

// ReconcileShipping re-quotes the carrier for the revalidated cart and
// overrides the client-claimed price when the matching service quotes a
// different one. The override is silent towards the customer; only a
// log entry records the discrepancy.
//
// Unlike cart revalidation this stage degrades by default: an
// unreachable carrier API keeps the client price rather than blocking
// the order. PolicyAbort flips that for deployments that prefer to
// fail closed.
func (s *Service) ReconcileShipping(ctx context.Context, items []RevalidatedItem, form CheckoutForm, selected ShippingOption) (ShippingOption, error) {
	weight := billableWeightKg(items)

	quoted, err := s.rates.Price(ctx, jne.PriceRequest{
		From:   s.originCode,
		Thru:   form.JNEDestinationCode,
		Weight: weight,
	})
	if err == nil && quoted.Error != "" {
		err = fmt.Errorf("checkout: rate oracle rejected quote: %s", quoted.Error)
	}
	if err != nil {
		if s.shippingPolicy == PolicyAbort {
			return ShippingOption{}, fmt.Errorf("checkout: shipping requote failed: %w", err)
		}
		log.Warn().Err(err).
			Int("weight_kg", weight).
			Str("destination", form.JNEDestinationCode).
			Msg("Shipping requote failed, falling back to client price")
		return selected, nil
	}

	for _, quote := range quoted.Price {
		// Service names match case-sensitively; "REG" and "Reg" are
		// different carrier products.
		if quote.ServiceDisplay != selected.Service {
			continue
		}
		official, perr := quote.PriceInt()
		if perr != nil {
			log.Warn().Err(perr).Str("service", selected.Service).Msg("Unparseable carrier quote, keeping client price")
			return selected, nil
		}
		if official != selected.Price {
			log.Warn().
				Str("service", selected.Service).
				Int64("client_price", selected.Price).
				Int64("official_price", official).
				Msg("Shipping price mismatch, overriding with carrier quote")
			selected.Price = official
		}
		return selected, nil
	}

	log.Warn().
		Str("service", selected.Service).
		Int("quotes", len(quoted.Price)).
		Msg("Selected service missing from carrier quote, keeping client price")
	return selected, nil
}
