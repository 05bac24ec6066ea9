package checkout

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jamesboogie/storefront-api/internal/woocommerce"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// User-facing messages keyed by the failing field's struct namespace.
var validationMessages = map[string]string{
	"OrderPayload.Billing.FirstName": "First name is required",
	"OrderPayload.Billing.Email":     "Email is required",
	"OrderPayload.Billing.Phone":     "Phone is required",
	"OrderPayload.Billing.Address1":  "Address is required",
	"OrderPayload.Billing.City":      "City is required",
	"OrderPayload.Billing.Postcode":  "Postal code is required",
	"OrderPayload.LineItems":         "Cart is empty",
	"OrderPayload.ShippingLines":     "Shipping method is required",
}

// ValidationResult reports every violated rule at once. These checks
// are cheap and local, so unlike cart revalidation there is no reason
// to stop at the first failure.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidatePayload structurally validates an assembled order before
// submission, driven by the validate tags on the payload types. Fails
// closed.
func ValidatePayload(payload *woocommerce.OrderPayload) ValidationResult {
	err := validate.Struct(payload)
	if err == nil {
		return ValidationResult{Valid: true, Errors: []string{}}
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		log.Error().Err(err).Msg("Unexpected error type during payload validation")
		return ValidationResult{Errors: []string{"Invalid order data"}}
	}

	return ValidationResult{Errors: formatValidationErrors(validationErrors)}
}

func formatValidationErrors(errs validator.ValidationErrors) []string {
	details := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		if msg, ok := validationMessages[fieldErr.StructNamespace()]; ok {
			details = append(details, msg)
			continue
		}
		details = append(details, fmt.Sprintf("Field '%s' failed on the '%s' rule", fieldErr.Field(), fieldErr.Tag()))
	}
	return details
}
