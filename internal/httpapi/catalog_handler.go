package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/partsbin/storefront/internal/catalog"
	"github.com/partsbin/storefront/internal/engine"
)

type CatalogHandler struct {
	engine *engine.Engine
}

// List returns the catalog, optionally narrowed by one of ?q= (search
// query), ?category= (category id) or ?featured=true. The narrowings mirror
// the store lookups one to one and do not compose; q wins over category
// wins over featured.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	var products []catalog.Product
	switch {
	case params.Get("q") != "":
		products = h.engine.Inventory.Search(params.Get("q"))
	case params.Get("category") != "":
		products = h.engine.Inventory.ByCategory(params.Get("category"))
	case params.Get("featured") == "true":
		products = h.engine.Inventory.Featured()
	default:
		products = h.engine.Inventory.Products()
	}

	if products == nil {
		products = []catalog.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) BySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, ok := h.engine.Inventory.BySlug(slug)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "no product with that slug")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Categories serves the static category list the catalog ships with.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := catalog.Categories()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "category list unavailable")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}
