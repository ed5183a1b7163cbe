package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/partsbin/storefront/internal/checkout"
	"github.com/partsbin/storefront/internal/engine"
	"github.com/partsbin/storefront/internal/orders"
)

type CheckoutHandler struct {
	engine *engine.Engine
}

type CheckoutRequestDTO struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	var customer *orders.Customer
	if req != (CheckoutRequestDTO{}) {
		customer = &orders.Customer{
			FullName: req.FullName,
			Email:    req.Email,
			Phone:    req.Phone,
			Address:  req.Address,
		}
	}

	order, err := h.engine.Checkout.Submit(r.Context(), customer)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
	case errors.Is(err, checkout.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case err != nil:
		respondError(w, http.StatusInternalServerError, "internal_error", "checkout failed")
	default:
		respondJSON(w, http.StatusCreated, order)
	}
}
