package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart        = errors.New("checkout: cart is empty")
	ErrOrderKeyMismatch = errors.New("checkout: order key does not match")
)

// FailurePolicy controls what a pipeline stage does when its oracle is
// unreachable. The price/stock oracle always aborts; the shipping
// oracle is configurable and degrades by default so a flaky carrier API
// cannot block orders.
type FailurePolicy int

const (
	PolicyAbort FailurePolicy = iota
	PolicyDegradeToClientValue
)

// StockErrorKind tags the two stock trust violations.
type StockErrorKind string

const (
	KindOutOfStock        StockErrorKind = "OUT_OF_STOCK"
	KindInsufficientStock StockErrorKind = "INSUFFICIENT_STOCK"
)

// StockError rejects a checkout because an item cannot be sold under
// its backorder policy. Available is set only for INSUFFICIENT_STOCK.
type StockError struct {
	Kind        StockErrorKind
	ProductName string
	Available   *int
}

func (e *StockError) Error() string {
	switch e.Kind {
	case KindInsufficientStock:
		available := 0
		if e.Available != nil {
			available = *e.Available
		}
		return fmt.Sprintf("insufficient stock for %q: only %d available", e.ProductName, available)
	default:
		return fmt.Sprintf("%q is out of stock", e.ProductName)
	}
}

// Message is the user-facing description of the violation.
func (e *StockError) Message() string {
	switch e.Kind {
	case KindInsufficientStock:
		available := 0
		if e.Available != nil {
			available = *e.Available
		}
		return fmt.Sprintf("Only %d of %q left in stock. Please reduce the quantity.", available, e.ProductName)
	default:
		return fmt.Sprintf("%q is currently out of stock.", e.ProductName)
	}
}

// ResolveError means a cart line carried no usable backend product id.
type ResolveError struct {
	RawID       string
	ProductName string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("checkout: unable to resolve backend id for product %q (id %q)", e.ProductName, e.RawID)
}

// ValidationError carries every payload rule violated at once.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout: payload validation failed: %v", e.Details)
}
