package models

import (
	"encoding/json"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as returned by the product source.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// LineItem is a product plus the quantity selected for purchase.
type LineItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
}

// UnitPrice is the price as a decimal, 0 when it is not a usable number.
func (li LineItem) UnitPrice() decimal.Decimal {
	return safePrice(li.Price)
}

// Total returns price × quantity for the item.
func (li LineItem) Total() decimal.Decimal {
	return safePrice(li.Price).Mul(decimal.NewFromInt(int64(safeQuantity(li.Quantity))))
}

// NewLineItem wraps a product with the default quantity of one.
func NewLineItem(p Product) LineItem {
	return LineItem{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Quantity:    1,
	}
}

// Subtotal folds price × quantity over items. Non-finite or negative prices
// and non-positive quantities count as 0.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Total())
	}
	return sum
}

func safePrice(p float64) decimal.Decimal {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(p)
}

func safeQuantity(q int) int {
	if q < 0 {
		return 0
	}
	return q
}

// CartState is a point-in-time copy of the cart.
type CartState struct {
	Items    []LineItem      `json:"items"`
	Subtotal decimal.Decimal `json:"-"`
	Loading  bool            `json:"loading"`
	Error    string          `json:"error,omitempty"`
}

// CheckoutStatus is a state of the checkout flow.
type CheckoutStatus string

const (
	CheckoutIdle       CheckoutStatus = "idle"
	CheckoutSubmitting CheckoutStatus = "submitting"
	CheckoutSuccess    CheckoutStatus = "success"
	CheckoutFailed     CheckoutStatus = "failed"
)

func (s CheckoutStatus) String() string {
	return string(s)
}

// CheckoutState tracks the latest checkout attempt.
type CheckoutState struct {
	Status     CheckoutStatus  `json:"status"`
	Submitting bool            `json:"submitting"`
	Message    string          `json:"message,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	AttemptID  string          `json:"attemptId,omitempty"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// CanCheckout reports whether the checkout action is enabled.
func (s CheckoutState) CanCheckout() bool {
	return s.Status != CheckoutSubmitting
}
