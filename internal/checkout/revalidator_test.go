package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jamesboogie/storefront-api/internal/checkout"
	"github.com/jamesboogie/storefront-api/internal/woocommerce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPriceStockOracle struct {
	productFunc   func(ctx context.Context, productID int) (*woocommerce.Product, error)
	variationFunc func(ctx context.Context, productID, variationID int) (*woocommerce.Product, error)
}

func (m *mockPriceStockOracle) Product(ctx context.Context, productID int) (*woocommerce.Product, error) {
	return m.productFunc(ctx, productID)
}

func (m *mockPriceStockOracle) Variation(ctx context.Context, productID, variationID int) (*woocommerce.Product, error) {
	return m.variationFunc(ctx, productID, variationID)
}

func intPtr(v int) *int { return &v }

func simpleItem(productID int, quantity int) checkout.CartItem {
	return checkout.CartItem{
		Product: checkout.CartProduct{
			ID:         "cHJvZHVjdDox",
			DatabaseID: productID,
			Name:       "Ventile Parka",
			Price:      "1",
			Weight:     800,
		},
		Quantity: quantity,
	}
}

func inStockProduct(name, price string) *woocommerce.Product {
	return &woocommerce.Product{
		Name:        name,
		Price:       price,
		StockStatus: woocommerce.StockInStock,
		Backorders:  woocommerce.BackordersNo,
		Weight:      "800",
	}
}

func newRevalidationService(oracle checkout.PriceStockOracle) *checkout.Service {
	return checkout.NewService(oracle, nil, nil, checkout.Options{})
}

func TestRevalidate_PriceSovereignty(t *testing.T) {
	oracle := &mockPriceStockOracle{
		productFunc: func(ctx context.Context, productID int) (*woocommerce.Product, error) {
			return inStockProduct("Ventile Parka", "250000"), nil
		},
	}
	svc := newRevalidationService(oracle)

	// Client claims a 1 rupiah price; the oracle decides.
	items, err := svc.Revalidate(context.Background(), []checkout.CartItem{simpleItem(42, 2)})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "250000", items[0].OfficialPrice.String())
	assert.Equal(t, "500000", items[0].LineTotal().String())
	assert.Equal(t, 42, items[0].BackendProductID)
}

func TestRevalidate_VariationPriceWins(t *testing.T) {
	var gotProductID, gotVariationID int
	oracle := &mockPriceStockOracle{
		productFunc: func(ctx context.Context, productID int) (*woocommerce.Product, error) {
			return nil, errors.New("product lookup must not be used when a variation is selected")
		},
		variationFunc: func(ctx context.Context, productID, variationID int) (*woocommerce.Product, error) {
			gotProductID, gotVariationID = productID, variationID
			return inStockProduct("Ventile Parka - L", "275000"), nil
		},
	}
	svc := newRevalidationService(oracle)

	item := simpleItem(42, 1)
	item.Variation = &checkout.CartVariation{DatabaseID: 101, Price: "9"}

	items, err := svc.Revalidate(context.Background(), []checkout.CartItem{item})

	require.NoError(t, err)
	assert.Equal(t, 42, gotProductID)
	assert.Equal(t, 101, gotVariationID)
	assert.Equal(t, "275000", items[0].OfficialPrice.String())
	assert.Equal(t, 101, items[0].BackendVariationID)
}

func TestRevalidate_StockPolicy(t *testing.T) {
	tests := []struct {
		name          string
		state         *woocommerce.Product
		quantity      int
		wantKind      checkout.StockErrorKind
		wantAvailable *int
	}{
		{
			name: "out_of_stock_rejected",
			state: &woocommerce.Product{
				Name:        "Ventile Parka",
				Price:       "250000",
				StockStatus: woocommerce.StockOutOfStock,
				Backorders:  woocommerce.BackordersNo,
			},
			quantity: 1,
			wantKind: checkout.KindOutOfStock,
		},
		{
			name: "insufficient_stock_rejected",
			state: &woocommerce.Product{
				Name:          "Ventile Parka",
				Price:         "250000",
				StockStatus:   woocommerce.StockInStock,
				Backorders:    woocommerce.BackordersNo,
				ManageStock:   true,
				StockQuantity: intPtr(3),
			},
			quantity:      4,
			wantKind:      checkout.KindInsufficientStock,
			wantAvailable: intPtr(3),
		},
		{
			name: "exact_stock_accepted",
			state: &woocommerce.Product{
				Name:          "Ventile Parka",
				Price:         "250000",
				StockStatus:   woocommerce.StockInStock,
				Backorders:    woocommerce.BackordersNo,
				ManageStock:   true,
				StockQuantity: intPtr(3),
			},
			quantity: 3,
		},
		{
			name: "backorders_allow_oversell",
			state: &woocommerce.Product{
				Name:          "Ventile Parka",
				Price:         "250000",
				StockStatus:   woocommerce.StockOutOfStock,
				Backorders:    woocommerce.BackordersYes,
				ManageStock:   true,
				StockQuantity: intPtr(0),
			},
			quantity: 10,
		},
		{
			name: "unmanaged_stock_accepted",
			state: &woocommerce.Product{
				Name:        "Ventile Parka",
				Price:       "250000",
				StockStatus: woocommerce.StockInStock,
				Backorders:  woocommerce.BackordersNo,
				ManageStock: false,
			},
			quantity: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &mockPriceStockOracle{
				productFunc: func(ctx context.Context, productID int) (*woocommerce.Product, error) {
					return tt.state, nil
				},
			}
			svc := newRevalidationService(oracle)

			items, err := svc.Revalidate(context.Background(), []checkout.CartItem{simpleItem(42, tt.quantity)})

			if tt.wantKind == "" {
				require.NoError(t, err)
				require.Len(t, items, 1)
				return
			}

			var stockErr *checkout.StockError
			require.ErrorAs(t, err, &stockErr)
			assert.Equal(t, tt.wantKind, stockErr.Kind)
			assert.Equal(t, "Ventile Parka", stockErr.ProductName)
			if tt.wantAvailable != nil {
				require.NotNil(t, stockErr.Available)
				assert.Equal(t, *tt.wantAvailable, *stockErr.Available)
			}
		})
	}
}

func TestRevalidate_FirstViolationInCartOrder(t *testing.T) {
	// Both items violate; the reported violation must be the first by
	// cart position regardless of which lookup finishes first.
	oracle := &mockPriceStockOracle{
		productFunc: func(ctx context.Context, productID int) (*woocommerce.Product, error) {
			return &woocommerce.Product{
				Name:        "Item " + map[int]string{1: "A", 2: "B"}[productID],
				Price:       "100",
				StockStatus: woocommerce.StockOutOfStock,
				Backorders:  woocommerce.BackordersNo,
			}, nil
		},
	}
	svc := newRevalidationService(oracle)

	_, err := svc.Revalidate(context.Background(), []checkout.CartItem{simpleItem(1, 1), simpleItem(2, 1)})

	var stockErr *checkout.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Item A", stockErr.ProductName)
}

func TestRevalidate_NonPositiveQuantity(t *testing.T) {
	oracle := &mockPriceStockOracle{
		productFunc: func(ctx context.Context, productID int) (*woocommerce.Product, error) {
			return inStockProduct("Ventile Parka", "250000"), nil
		},
	}
	svc := newRevalidationService(oracle)

	for _, quantity := range []int{0, -1} {
		_, err := svc.Revalidate(context.Background(), []checkout.CartItem{simpleItem(42, quantity)})

		// A bogus quantity is invalid client input, not a backend fault.
		var validationErr *checkout.ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Len(t, validationErr.Details, 1)
		assert.Equal(t, `Quantity for "Ventile Parka" must be a positive integer`, validationErr.Details[0])
	}
}

func TestRevalidate_OracleFailureFailsClosed(t *testing.T) {
	oracleDown := errors.New("connection refused")
	oracle := &mockPriceStockOracle{
		productFunc: func(ctx context.Context, productID int) (*woocommerce.Product, error) {
			return nil, oracleDown
		},
	}
	svc := newRevalidationService(oracle)

	_, err := svc.Revalidate(context.Background(), []checkout.CartItem{simpleItem(42, 1)})

	require.Error(t, err)
	assert.ErrorIs(t, err, oracleDown)
}

func TestRevalidate_UnresolvableProductID(t *testing.T) {
	oracle := &mockPriceStockOracle{
		productFunc: func(ctx context.Context, productID int) (*woocommerce.Product, error) {
			return inStockProduct("Ventile Parka", "250000"), nil
		},
	}
	svc := newRevalidationService(oracle)

	item := checkout.CartItem{
		Product:  checkout.CartProduct{ID: "cHJvZHVjdDox", Name: "Ventile Parka"},
		Quantity: 1,
	}

	_, err := svc.Revalidate(context.Background(), []checkout.CartItem{item})

	var resolveErr *checkout.ResolveError
	require.ErrorAs(t, err, &resolveErr)
}
