package checkout

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/jamesboogie/storefront-api/internal/woocommerce"
	"github.com/shopspring/decimal"
)

const (
	paymentMethodBACS = "bacs"

	countryCode = "ID"

	// Bounds of the unique payment code. Three digits, never zero, so
	// an incoming bank transfer's exact amount identifies the order.
	uniqueCodeMin = 101
	uniqueCodeMax = 999

	uniqueCodeFeeName = "UNIQUE CODE"
)

var paymentMethodTitles = map[string]string{
	"bacs":   "Direct Bank Transfer",
	"cod":    "Cash on Delivery",
	"cheque": "Check Payment",
}

func paymentMethodTitle(method string) string {
	if title, ok := paymentMethodTitles[method]; ok {
		return title
	}
	return method
}

// NewUniquePaymentCode draws a code in [101, 999]. Best-effort
// randomness; collisions with other pending orders are accepted.
func NewUniquePaymentCode() int {
	return rand.Intn(uniqueCodeMax-uniqueCodeMin+1) + uniqueCodeMin
}

// formToAddress maps the checkout form to a backend address. The email
// belongs on the billing address only.
func formToAddress(form CheckoutForm, includeEmail bool) woocommerce.Address {
	addr := woocommerce.Address{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Address1:  form.Address,
		Address2:  form.Subdistrict,
		City:      form.City,
		State:     form.Province,
		Postcode:  form.PostalCode,
		Country:   countryCode,
		Phone:     form.Phone,
	}
	if includeEmail {
		addr.Email = form.Email
	}
	return addr
}

// Subtotal sums the oracle-derived line totals.
func Subtotal(items []RevalidatedItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

// BuildOrderPayload assembles the backend order document from
// revalidated items, the reconciled shipping selection and the customer
// form. Orders start on-hold, unpaid, awaiting manual payment
// confirmation.
//
// For bank-transfer orders a unique payment code is appended as a fee
// line and recorded in metadata together with the exact transfer
// amount. Pass uniqueCode <= 0 to draw a fresh one.
func BuildOrderPayload(items []RevalidatedItem, form CheckoutForm, shipping ShippingOption, paymentMethod, carrierID string, uniqueCode int) *woocommerce.OrderPayload {
	lineItems := make([]woocommerce.LineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, woocommerce.LineItem{
			ProductID:   item.BackendProductID,
			VariationID: item.BackendVariationID,
			Quantity:    item.Quantity,
			Name:        item.ProductName,
		})
	}

	metaData := []woocommerce.MetaData{
		{Key: "province", Value: form.Province},
		{Key: "city", Value: form.City},
		{Key: "district", Value: form.District},
		{Key: "subdistrict", Value: form.Subdistrict},
		{Key: "postal_code", Value: form.PostalCode},
		{Key: "jne_destination_code", Value: form.JNEDestinationCode},
		{Key: "_shipping_jne_service", Value: shipping.Service},
		{Key: "_shipping_jne_etd", Value: fmt.Sprintf("%s-%s days", shipping.EtdFrom, shipping.EtdThru)},
	}

	payload := &woocommerce.OrderPayload{
		PaymentMethod:      paymentMethod,
		PaymentMethodTitle: paymentMethodTitle(paymentMethod),
		SetPaid:            false,
		Status:             "on-hold",
		Billing:            formToAddress(form, true),
		Shipping:           formToAddress(form, false),
		LineItems:          lineItems,
		ShippingLines: []woocommerce.ShippingLine{{
			MethodID:    carrierID,
			MethodTitle: strings.ToUpper(carrierID) + " " + shipping.Service,
			Total:       strconv.FormatInt(shipping.Price, 10),
		}},
		MetaData: metaData,
	}

	if paymentMethod == paymentMethodBACS {
		if uniqueCode <= 0 {
			uniqueCode = NewUniquePaymentCode()
		}
		transferAmount := Subtotal(items).
			Add(decimal.NewFromInt(shipping.Price)).
			Add(decimal.NewFromInt(int64(uniqueCode)))

		payload.FeeLines = []woocommerce.FeeLine{{
			Name:      uniqueCodeFeeName,
			Total:     strconv.Itoa(uniqueCode),
			TaxStatus: "none",
		}}
		payload.MetaData = append(payload.MetaData,
			woocommerce.MetaData{Key: "_unique_payment_code", Value: strconv.Itoa(uniqueCode)},
			woocommerce.MetaData{Key: "_transfer_amount", Value: transferAmount.String()},
		)
	}

	return payload
}
