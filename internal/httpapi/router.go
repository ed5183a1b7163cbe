// Package httpapi is the thin facade UI collaborators call the engine
// through. Handlers validate input, call one engine operation and encode
// the result; no commerce rules live here.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/partsbin/storefront/internal/engine"
)

// NewRouter builds the full route table over the engine.
func NewRouter(e *engine.Engine) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	catalogH := &CatalogHandler{engine: e}
	cartH := &CartHandler{engine: e}
	selectionH := &SelectionHandler{engine: e}
	ordersH := &OrdersHandler{engine: e}
	checkoutH := &CheckoutHandler{engine: e}

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", catalogH.List)
		r.Get("/products/{slug}", catalogH.BySlug)
		r.Get("/categories", catalogH.Categories)

		r.Get("/cart", cartH.Get)
		r.Post("/cart/items", cartH.AddItem)
		r.Put("/cart/items/{productID}", cartH.UpdateQuantity)
		r.Delete("/cart/items/{productID}", cartH.RemoveItem)
		r.Delete("/cart", cartH.Clear)

		r.Get("/wishlist", selectionH.GetWishlist)
		r.Post("/wishlist/{productID}/toggle", selectionH.ToggleWishlist)

		r.Get("/compare", selectionH.GetCompare)
		r.Post("/compare/{productID}/toggle", selectionH.ToggleCompare)
		r.Delete("/compare", selectionH.ClearCompare)

		r.Get("/orders", ordersH.List)
		r.Get("/orders/{orderID}", ordersH.ByID)

		r.Post("/checkout", checkoutH.Submit)
	})

	return r
}
