package models

import (
	"strconv"
	"time"
)

// OrderVariant selects the JSON shape posted to the order sink.
type OrderVariant string

const (
	// OrderFlat posts {items: [{productId, name, price, quantity}], total, orderDate}.
	OrderFlat OrderVariant = "flat"
	// OrderNested posts {items: [{product: {...}, quantity}]}.
	OrderNested OrderVariant = "nested"
)

type FlatOrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type FlatOrder struct {
	Items     []FlatOrderItem `json:"items"`
	Total     float64         `json:"total"`
	OrderDate time.Time       `json:"orderDate"`
}

type OrderProduct struct {
	ID          any    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type NestedOrderItem struct {
	Product  OrderProduct `json:"product"`
	Quantity int          `json:"quantity"`
}

type NestedOrder struct {
	Items []NestedOrderItem `json:"items"`
}

// ComposeOrder builds the request body for the given variant from the cart.
func ComposeOrder(variant OrderVariant, items []LineItem, now time.Time) any {
	if variant == OrderNested {
		order := NestedOrder{Items: make([]NestedOrderItem, 0, len(items))}
		for _, item := range items {
			order.Items = append(order.Items, NestedOrderItem{
				Product: OrderProduct{
					ID:          orderProductID(item.ID),
					Name:        item.Name,
					Description: item.Description,
				},
				Quantity: item.Quantity,
			})
		}
		return order
	}

	order := FlatOrder{
		Items:     make([]FlatOrderItem, 0, len(items)),
		OrderDate: now.UTC(),
	}
	for _, item := range items {
		order.Items = append(order.Items, FlatOrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	order.Total = Subtotal(items).Round(2).InexactFloat64()
	return order
}

// the order service keys products by integer id
func orderProductID(id string) any {
	if n, err := strconv.Atoi(id); err == nil {
		return n
	}
	return id
}
