package controllers

import (
	"github.com/drstein77/plantcart/internal/models"
	"github.com/shopspring/decimal"
)

type itemView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Total       string  `json:"total"`
	PriceText   string  `json:"-"`
}

type cartView struct {
	Items    []itemView           `json:"items"`
	Subtotal string               `json:"subtotal"`
	Total    string               `json:"total"`
	Loading  bool                 `json:"loading"`
	Error    string               `json:"error,omitempty"`
	Checkout models.CheckoutState `json:"checkout"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func newCartView(cart models.CartState, checkout models.CheckoutState) cartView {
	items := make([]itemView, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, itemView{
			ID:          item.ID,
			Name:        item.Name,
			Price:       item.Price,
			Description: item.Description,
			Quantity:    item.Quantity,
			Total:       money(item.Total()),
			PriceText:   money(item.UnitPrice()),
		})
	}

	// no coupons or shipping, so the total is the subtotal
	subtotal := money(cart.Subtotal)
	return cartView{
		Items:    items,
		Subtotal: subtotal,
		Total:    subtotal,
		Loading:  cart.Loading,
		Error:    cart.Error,
		Checkout: checkout,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
