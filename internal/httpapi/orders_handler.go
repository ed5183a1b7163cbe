package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/partsbin/storefront/internal/engine"
	"github.com/partsbin/storefront/internal/orders"
)

type OrdersHandler struct {
	engine *engine.Engine
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	history := h.engine.Orders.History(r.Context())
	if history == nil {
		history = []orders.Snapshot{}
	}
	respondJSON(w, http.StatusOK, history)
}

func (h *OrdersHandler) ByID(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	o, ok := h.engine.Orders.ByID(r.Context(), orderID)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "no order with that id")
		return
	}
	respondJSON(w, http.StatusOK, o)
}
