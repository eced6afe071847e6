package controllers

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/drstein77/plantcart/internal/checkout"
	"github.com/go-chi/chi"
	"go.uber.org/zap"
)

//go:embed templates/cart.html
var templates embed.FS

var cartPage = template.Must(template.ParseFS(templates, "templates/cart.html"))

func (h *BaseController) page(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := cartPage.Execute(&buf, h.view()); err != nil {
		h.log.Error("failed to render cart page", zap.Error(err))
		http.Error(w, "Failed to render cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// formIntent adapts a cart intent on {id} to a form post that returns to the
// page. A stale item id, e.g. from a double submit, just reloads the page.
func (h *BaseController) formIntent(intent func(id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := intent(id); err != nil {
			h.log.Info("cart intent from page not applied", zap.String("item", id), zap.Error(err))
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// formReload loads the cart again; a failure shows up on the page.
func (h *BaseController) formReload(w http.ResponseWriter, r *http.Request) {
	_ = h.cart.Load(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// formCheckout runs the checkout and returns to the page, which shows the
// resulting message. Rejected attempts leave the state untouched.
func (h *BaseController) formCheckout(w http.ResponseWriter, r *http.Request) {
	if _, err := h.checkout.Checkout(r.Context()); err != nil && !errors.Is(err, checkout.ErrInProgress) {
		h.log.Info("checkout from page did not succeed", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
