package woocommerce

// Stock status values returned by the WooCommerce REST API.
const (
	StockInStock     = "instock"
	StockOutOfStock  = "outofstock"
	StockOnBackorder = "onbackorder"
)

// Backorder policy values.
const (
	BackordersNo     = "no"
	BackordersNotify = "notify"
	BackordersYes    = "yes"
)

// Product is the authoritative price/stock state of a product or a
// variation. It is fetched fresh for every checkout; prices change
// between cart add and checkout, so nothing here may be cached.
type Product struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	StockStatus   string `json:"stock_status"`
	StockQuantity *int   `json:"stock_quantity"`
	ManageStock   bool   `json:"manage_stock"`
	Backorders    string `json:"backorders"`
	// Weight is in grams. The store's weight unit is configured to grams
	// to match the carrier's billing; see billable weight rounding.
	Weight string `json:"weight"`
}

// Address carries validate tags for the billing address; the shipping
// copy has no email and is skipped by the payload validator.
type Address struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address_1" validate:"required"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode" validate:"required"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty" validate:"required"`
	Phone     string `json:"phone,omitempty" validate:"required"`
}

type LineItem struct {
	ProductID   int    `json:"product_id"`
	VariationID int    `json:"variation_id,omitempty"`
	Quantity    int    `json:"quantity"`
	Name        string `json:"name,omitempty"`
}

type ShippingLine struct {
	MethodID    string `json:"method_id"`
	MethodTitle string `json:"method_title"`
	Total       string `json:"total"`
}

type FeeLine struct {
	Name      string `json:"name"`
	Total     string `json:"total"`
	TaxStatus string `json:"tax_status,omitempty"`
}

type MetaData struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// OrderPayload is the order document submitted to the order-creation
// endpoint. Every monetary field in it is derived server-side.
type OrderPayload struct {
	PaymentMethod      string         `json:"payment_method"`
	PaymentMethodTitle string         `json:"payment_method_title"`
	SetPaid            bool           `json:"set_paid"`
	Status             string         `json:"status,omitempty"`
	Billing            Address        `json:"billing"`
	Shipping           Address        `json:"shipping" validate:"-"`
	LineItems          []LineItem     `json:"line_items" validate:"min=1"`
	ShippingLines      []ShippingLine `json:"shipping_lines" validate:"min=1"`
	FeeLines           []FeeLine      `json:"fee_lines,omitempty"`
	MetaData           []MetaData     `json:"meta_data,omitempty"`
}

// Order is the backend's view of a created order.
type Order struct {
	ID            int            `json:"id"`
	Number        string         `json:"number"`
	OrderKey      string         `json:"order_key"`
	Status        string         `json:"status"`
	Total         string         `json:"total"`
	PaymentMethod string         `json:"payment_method"`
	ShippingLines []ShippingLine `json:"shipping_lines"`
	MetaData      []MetaData     `json:"meta_data"`
}

// MetaValue returns the value of the order meta entry with the given
// key, or an empty string when absent.
func (o *Order) MetaValue(key string) string {
	for _, m := range o.MetaData {
		if m.Key == key {
			return m.Value
		}
	}
	return ""
}
