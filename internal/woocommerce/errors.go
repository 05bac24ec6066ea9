package woocommerce

import "errors"

// APIError is an error response from the WooCommerce REST API.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return "woocommerce: " + e.Code + ": " + e.Message
	}
	return "woocommerce: " + e.Message
}

const genericMessage = "An unexpected error occurred. Please try again."

// Known backend error codes mapped to messages that are safe to show a
// customer. Unknown codes fall back to the backend message.
var friendlyMessages = map[string]string{
	"woocommerce_rest_invalid_product_id":  "One or more products in your cart are no longer available.",
	"woocommerce_rest_product_invalid_id":  "Invalid product in cart. Please refresh and try again.",
	"woocommerce_rest_cannot_create":       "Unable to create order. Please contact support.",
	"woocommerce_rest_shop_order_invalid_id": "Invalid order ID.",
	"rest_invalid_param":                   "Invalid order data. Please check your information.",
	"rest_missing_callback_param":          "Missing required information. Please fill all fields.",
}

// UserMessage maps a pipeline failure to a string safe for the client.
// Transport failures and nil errors never expose internals.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg, ok := friendlyMessages[apiErr.Code]; ok {
			return msg
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return genericMessage
}
