package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/drstein77/plantcart/internal/checkout"
	"github.com/drstein77/plantcart/internal/middleware"
	"github.com/drstein77/plantcart/internal/models"
	"github.com/drstein77/plantcart/internal/storage"
	"github.com/go-chi/chi"
	chimw "github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Cart is the cart state the controllers dispatch intents to.
type Cart interface {
	Load(context.Context) error
	ChangeQuantity(id string, quantity int) error
	Increment(id string) error
	Decrement(id string) error
	RemoveItem(id string) error
	State() models.CartState
}

// Checkout runs and reports checkout attempts.
type Checkout interface {
	Checkout(context.Context) (models.CheckoutState, error)
	State() models.CheckoutState
}

// Log interface for logging
type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// BaseController struct for handling requests
type BaseController struct {
	cart     Cart
	checkout Checkout
	validate *validator.Validate
	log      Log
}

// NewBaseController creates a new BaseController instance
func NewBaseController(cart Cart, checkout Checkout, log Log) *BaseController {
	return &BaseController{
		cart:     cart,
		checkout: checkout,
		validate: validator.New(),
		log:      log,
	}
}

// Route sets up the routes for the BaseController
func (h *BaseController) Route() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(h.log))
	r.Use(chimw.Recoverer)

	r.Get("/health", h.health)

	// HTML page and its form posts
	r.Group(func(r chi.Router) {
		r.Use(middleware.CompressResponseMiddleware)
		r.Get("/", h.page)
	})
	r.Post("/cart/items/{id}/increment", h.formIntent(h.cart.Increment))
	r.Post("/cart/items/{id}/decrement", h.formIntent(h.cart.Decrement))
	r.Post("/cart/items/{id}/remove", h.formIntent(h.cart.RemoveItem))
	r.Post("/cart/reload", h.formReload)
	r.Post("/checkout", h.formCheckout)

	r.Route("/api/v0", func(r chi.Router) {
		r.Use(middleware.CompressResponseMiddleware)
		r.Get("/cart", h.getCart)
		r.Post("/cart/reload", h.reloadCart)
		r.Put("/cart/items/{id}", h.putQuantity)
		r.Delete("/cart/items/{id}", h.deleteItem)
		r.Get("/checkout", h.getCheckout)
		r.Post("/checkout", h.postCheckout)
	})

	return r
}

func (h *BaseController) health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (h *BaseController) getCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.view())
}

func (h *BaseController) reloadCart(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	if err := h.cart.Load(r.Context()); err != nil {
		status = http.StatusBadGateway
	}
	h.writeJSON(w, status, h.view())
}

func (h *BaseController) putQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "quantity is required")
		return
	}

	if err := h.cart.ChangeQuantity(chi.URLParam(r, "id"), *req.Quantity); err != nil {
		h.writeIntentError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.view())
}

func (h *BaseController) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.RemoveItem(chi.URLParam(r, "id")); err != nil {
		h.writeIntentError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.view())
}

func (h *BaseController) getCheckout(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.checkout.State())
}

func (h *BaseController) postCheckout(w http.ResponseWriter, r *http.Request) {
	state, err := h.checkout.Checkout(r.Context())
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, state)
	case errors.Is(err, checkout.ErrInProgress):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrCartNotReady):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.writeJSON(w, http.StatusBadGateway, state)
	}
}

func (h *BaseController) view() cartView {
	return newCartView(h.cart.State(), h.checkout.State())
}

func (h *BaseController) writeIntentError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "item not found")
		return
	}
	h.log.Error("cart intent failed", zap.Error(err))
	h.writeError(w, http.StatusInternalServerError, "internal error")
}

func (h *BaseController) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Error: message})
}

func (h *BaseController) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}
