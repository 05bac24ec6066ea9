package checkout

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jamesboogie/storefront-api/internal/woocommerce"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Revalidate replaces every client-claimed price with the authoritative
// backend price and enforces the stock/backorder policy. Lookups fan
// out concurrently, one per line item. Oracle I/O failures abort the
// checkout (fail closed). Stock violations are recorded per item and
// the first one in cart order is reported, independent of which lookup
// finished first.
func (s *Service) Revalidate(ctx context.Context, items []CartItem) ([]RevalidatedItem, error) {
	revalidated := make([]RevalidatedItem, len(items))
	rejections := make([]*StockError, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		idx := idx
		g.Go(func() error {
			item := items[idx]

			if item.Quantity <= 0 {
				// Invalid client input, not a backend fault.
				return &ValidationError{Details: []string{
					fmt.Sprintf("Quantity for %q must be a positive integer", item.Product.Name),
				}}
			}

			productID, err := item.ProductID()
			if err != nil {
				return err
			}

			variationID := 0
			if item.Variation != nil && item.Variation.DatabaseID > 0 {
				variationID = item.Variation.DatabaseID
			}

			var state *woocommerce.Product
			if variationID > 0 {
				state, err = s.products.Variation(ctx, productID, variationID)
			} else {
				state, err = s.products.Product(ctx, productID)
			}
			if err != nil {
				return fmt.Errorf("checkout: failed to fetch state for product %d: %w", productID, err)
			}

			name := state.Name
			if name == "" {
				name = item.Product.Name
			}

			if rejection := checkStock(state, name, item.Quantity); rejection != nil {
				rejections[idx] = rejection
				return nil
			}

			price, err := parsePrice(state.Price)
			if err != nil {
				return fmt.Errorf("checkout: invalid backend price %q for product %d: %w", state.Price, productID, err)
			}

			weight := float64(item.Product.Weight)
			if state.Weight != "" {
				if w, werr := strconv.ParseFloat(state.Weight, 64); werr == nil {
					weight = w
				}
			}

			revalidated[idx] = RevalidatedItem{
				CartItem:           item,
				BackendProductID:   productID,
				BackendVariationID: variationID,
				ProductName:        name,
				OfficialPrice:      price,
				WeightGrams:        weight,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, rejection := range rejections {
		if rejection != nil {
			log.Warn().
				Str("kind", string(rejection.Kind)).
				Str("product", rejection.ProductName).
				Msg("Checkout rejected by stock policy")
			return nil, rejection
		}
	}
	return revalidated, nil
}

// checkStock applies the backorder policy. Any backorder-permitted path
// accepts, including uncapped oversell.
func checkStock(state *woocommerce.Product, name string, quantity int) *StockError {
	if state.Backorders != woocommerce.BackordersNo {
		return nil
	}
	if state.StockStatus == woocommerce.StockOutOfStock {
		return &StockError{Kind: KindOutOfStock, ProductName: name}
	}
	if state.ManageStock && state.StockQuantity != nil && *state.StockQuantity < quantity {
		return &StockError{Kind: KindInsufficientStock, ProductName: name, Available: state.StockQuantity}
	}
	return nil
}
