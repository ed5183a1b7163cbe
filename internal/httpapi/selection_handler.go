package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/partsbin/storefront/internal/engine"
	"github.com/partsbin/storefront/internal/selection"
)

type SelectionHandler struct {
	engine *engine.Engine
}

type SelectionResponseDTO struct {
	IDs []string `json:"ids"`
}

func selectionResponse(s *selection.Store) SelectionResponseDTO {
	ids := s.IDs()
	if ids == nil {
		ids = []string{}
	}
	return SelectionResponseDTO{IDs: ids}
}

func (h *SelectionHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, selectionResponse(h.engine.Wishlist))
}

func (h *SelectionHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	h.engine.Wishlist.Toggle(r.Context(), chi.URLParam(r, "productID"))
	respondJSON(w, http.StatusOK, selectionResponse(h.engine.Wishlist))
}

func (h *SelectionHandler) GetCompare(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, selectionResponse(h.engine.Compare))
}

func (h *SelectionHandler) ToggleCompare(w http.ResponseWriter, r *http.Request) {
	h.engine.Compare.Toggle(r.Context(), chi.URLParam(r, "productID"))
	respondJSON(w, http.StatusOK, selectionResponse(h.engine.Compare))
}

func (h *SelectionHandler) ClearCompare(w http.ResponseWriter, r *http.Request) {
	h.engine.Compare.Clear(r.Context())
	respondJSON(w, http.StatusOK, selectionResponse(h.engine.Compare))
}
