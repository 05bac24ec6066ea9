// Package checkout implements the order-validation and shipping-price
// reconciliation pipeline. A client-submitted cart is never trusted:
// prices and stock state are re-derived from the commerce backend and
// shipping cost is re-quoted from the carrier before an order is built
// and submitted.
package checkout

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Grams is a weight that the storefront may send either as a JSON
// number or as a numeric string.
type Grams float64

func (g *Grams) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*g = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Client-claimed weights are untrusted input; an unparseable
		// value degrades to zero rather than failing the decode.
		*g = 0
		return nil
	}
	*g = Grams(v)
	return nil
}

// CartProduct is the client's view of a product. Price and weight are
// untrusted claims.
type CartProduct struct {
	ID         string `json:"id"`
	DatabaseID int    `json:"databaseId"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Weight     Grams  `json:"weight"`
}

// CartVariation is the client's view of a selected variation.
type CartVariation struct {
	ID         string `json:"id"`
	DatabaseID int    `json:"databaseId"`
	Name       string `json:"name"`
	Price      string `json:"price"`
}

// CartItem is one client-submitted cart line. It is consumed once per
// checkout attempt and never persisted server-side.
type CartItem struct {
	Product   CartProduct    `json:"product"`
	Variation *CartVariation `json:"variation,omitempty"`
	Quantity  int            `json:"quantity"`
}

// ProductID resolves the numeric backend id, preferring the explicit
// database id over parsing the generic id.
func (i CartItem) ProductID() (int, error) {
	if i.Product.DatabaseID > 0 {
		return i.Product.DatabaseID, nil
	}
	id, err := strconv.Atoi(i.Product.ID)
	if err != nil {
		return 0, &ResolveError{RawID: i.Product.ID, ProductName: i.Product.Name}
	}
	return id, nil
}

// RevalidatedItem is a cart line whose price, stock state and weight
// have been overwritten from the commerce backend. OfficialPrice is
// always oracle-derived, never the client claim.
type RevalidatedItem struct {
	CartItem
	BackendProductID   int
	BackendVariationID int
	ProductName        string
	OfficialPrice      decimal.Decimal
	WeightGrams        float64
}

// LineTotal is the oracle price times quantity.
func (r RevalidatedItem) LineTotal() decimal.Decimal {
	return r.OfficialPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
}

// ShippingOption is the client's selected carrier service. Price is an
// untrusted claim that the reconciler overrides from the rate oracle.
type ShippingOption struct {
	Service string `json:"service"`
	Price   int64  `json:"price"`
	EtdFrom string `json:"etd_from"`
	EtdThru string `json:"etd_thru"`
}

// CheckoutForm is the customer's address and contact data.
type CheckoutForm struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	Province           string `json:"province"`
	City               string `json:"city"`
	District           string `json:"district"`
	Subdistrict        string `json:"subdistrict"`
	PostalCode         string `json:"postalCode"`
	JNEDestinationCode string `json:"jneDestinationCode"`
}

// OrderRequest is the body of a checkout attempt.
type OrderRequest struct {
	CartItems      []CartItem     `json:"cartItems"`
	FormData       CheckoutForm   `json:"formData"`
	ShippingOption ShippingOption `json:"shippingOption"`
	PaymentMethod  string         `json:"paymentMethod"`
}

// OrderConfirmation is returned to the storefront after submission.
// PaymentURL points back at the storefront, not the backend.
type OrderConfirmation struct {
	ID         int    `json:"id"`
	Number     string `json:"number"`
	OrderKey   string `json:"orderKey"`
	Status     string `json:"status"`
	Total      string `json:"total"`
	PaymentURL string `json:"paymentUrl"`
}

// parsePrice parses a possibly currency-formatted decimal string, e.g.
// "Rp 250.000" or "250000.00".
func parsePrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "Rp")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	// Indonesian thousands separators use dots; keep a dot only when it
	// looks like a decimal point (at most two trailing digits).
	if idx := strings.LastIndex(cleaned, "."); idx >= 0 && len(cleaned)-idx-1 > 2 {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}
	if cleaned == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(cleaned)
}
