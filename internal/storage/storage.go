package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/drstein77/plantcart/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrNotFound is returned for an intent on an item that is not in the cart.
var ErrNotFound = errors.New("not found")

type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// Source provides the products a cart is populated from.
type Source interface {
	GetProducts(ctx context.Context, ids []string) ([]models.Product, error)
}

// FallbackItems are shown when the product source answers with nothing usable.
func FallbackItems() []models.LineItem {
	return []models.LineItem{
		{
			ID:          "sample-1",
			Name:        "Sample Plant",
			Price:       19.99,
			Description: "A placeholder plant shown while the catalog is empty.",
			Quantity:    1,
		},
		{
			ID:          "sample-2",
			Name:        "Sample Planter",
			Price:       29.99,
			Description: "A placeholder planter shown while the catalog is empty.",
			Quantity:    1,
		},
	}
}

// CartStorage keeps the cart in memory. All mutations hold mx; calls to the
// source never do.
type CartStorage struct {
	mx sync.RWMutex

	items   []models.LineItem
	loaded  bool
	loading bool
	errMsg  string
	loadGen uint64

	source Source
	ids    []string
	log    Log
}

// NewCartStorage creates an empty cart that loads ids from source.
func NewCartStorage(source Source, ids []string, log Log) *CartStorage {
	return &CartStorage{
		source: source,
		ids:    append([]string(nil), ids...),
		log:    log,
	}
}

// Load fetches the products and replaces the cart with them, one of each.
// An empty answer substitutes FallbackItems; a failed fetch leaves the cart
// empty with an error message. When loads overlap only the most recently
// started one is applied; the others are discarded.
func (s *CartStorage) Load(ctx context.Context) error {
	s.mx.Lock()
	s.loadGen++
	gen := s.loadGen
	s.loading = true
	s.errMsg = ""
	s.mx.Unlock()

	products, err := s.source.GetProducts(ctx, s.ids)

	s.mx.Lock()
	defer s.mx.Unlock()
	if gen != s.loadGen {
		s.log.Info("discarding superseded cart load", zap.Error(err))
		return nil
	}
	s.loading = false

	if err != nil {
		s.log.Error("cannot load cart", zap.Error(err))
		s.items = nil
		s.loaded = false
		s.errMsg = "Failed to load cart items. Please try again later."
		return err
	}

	if len(products) == 0 {
		s.log.Info("product source returned no products, using sample items")
		s.items = FallbackItems()
	} else {
		items := make([]models.LineItem, 0, len(products))
		for _, p := range products {
			items = append(items, models.NewLineItem(p))
		}
		s.items = items
	}
	s.loaded = true

	s.log.Info("cart loaded", zap.Int("items", len(s.items)))
	return nil
}

// ChangeQuantity sets the quantity of item id. Quantities below one are
// ignored, but an unknown id is still reported.
func (s *CartStorage) ChangeQuantity(id string, quantity int) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	if quantity >= 1 {
		s.items[i].Quantity = quantity
	}
	return nil
}

// Increment adds one to the quantity of item id.
func (s *CartStorage) Increment(id string) error {
	return s.step(id, 1)
}

// Decrement removes one from the quantity of item id; at one it does nothing.
func (s *CartStorage) Decrement(id string) error {
	return s.step(id, -1)
}

func (s *CartStorage) step(id string, delta int) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	if q := s.items[i].Quantity + delta; q >= 1 {
		s.items[i].Quantity = q
	}
	return nil
}

// RemoveItem drops item id, keeping the order of the rest.
func (s *CartStorage) RemoveItem(id string) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	kept := make([]models.LineItem, 0, len(s.items)-1)
	kept = append(kept, s.items[:i]...)
	kept = append(kept, s.items[i+1:]...)
	s.items = kept
	return nil
}

// Items returns a copy of the current line items.
func (s *CartStorage) Items() []models.LineItem {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return append([]models.LineItem(nil), s.items...)
}

// Subtotal is Σ price × quantity over the current items.
func (s *CartStorage) Subtotal() decimal.Decimal {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return models.Subtotal(s.items)
}

// Ready reports whether the cart was loaded successfully and is not reloading.
func (s *CartStorage) Ready() bool {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return s.loaded && !s.loading
}

// State returns a snapshot of the cart.
func (s *CartStorage) State() models.CartState {
	s.mx.RLock()
	defer s.mx.RUnlock()

	items := append([]models.LineItem{}, s.items...)
	return models.CartState{
		Items:    items,
		Subtotal: models.Subtotal(items),
		Loading:  s.loading,
		Error:    s.errMsg,
	}
}

func (s *CartStorage) indexOf(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
