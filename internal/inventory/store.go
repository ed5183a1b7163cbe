// Package inventory holds the catalog snapshot and the per-product stock
// counters. Stock state lives only in memory: it is rebuilt from the catalog
// feed on every startup via Initialize, mirroring how the storefront
// re-fetches its product list.
package inventory

import (
	"strings"
	"sync"

	"github.com/partsbin/storefront/internal/catalog"
)

// Store owns the product list and its stock counters. All mutations are
// silent no-ops when they cannot apply: an unknown id or insufficient stock
// never produces an error, because UI-driven races (double clicks, stale
// views) must not crash anything.
type Store struct {
	mu       sync.RWMutex
	products []catalog.Product
	index    map[string]int // product id -> slice position
}

func New() *Store {
	return &Store{index: make(map[string]int)}
}

// Initialize replaces the product list wholesale. Idempotent; safe to call
// again on a re-fetch.
func (s *Store) Initialize(products []catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = make([]catalog.Product, len(products))
	copy(s.products, products)

	s.index = make(map[string]int, len(products))
	for i, p := range s.products {
		s.index[p.ID] = i
	}
}

// ReduceStock decrements stock for productID by qty, but only if the current
// stock covers the full amount. Partial deduction never happens; the guard
// is what keeps stock from ever going negative under rapid successive calls.
// Returns whether the deduction was applied, so callers can track how much
// they actually hold.
func (s *Store) ReduceStock(productID string, qty int) bool {
	if qty <= 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productID]
	if !ok {
		return false
	}
	if s.products[i].Stock < qty {
		return false // refused, not an error
	}
	s.products[i].Stock -= qty
	return true
}

// IncreaseStock increments stock for productID by qty. No upper bound.
func (s *Store) IncreaseStock(productID string, qty int) {
	if qty <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productID]
	if !ok {
		return
	}
	s.products[i].Stock += qty
}

// Products returns a copy of the current catalog snapshot.
func (s *Store) Products() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) ByID(productID string) (catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[productID]
	if !ok {
		return catalog.Product{}, false
	}
	return s.products[i], true
}

func (s *Store) BySlug(slug string) (catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Slug == slug {
			return p, true
		}
	}
	return catalog.Product{}, false
}

func (s *Store) ByCategory(categoryID string) []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []catalog.Product
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) Featured() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []catalog.Product
	for _, p := range s.products {
		if p.IsFeatured {
			out = append(out, p)
		}
	}
	return out
}

// Search matches the query case-insensitively against name, brand and slug.
func (s *Store) Search(query string) []catalog.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.Products()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []catalog.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Brand), q) ||
			strings.Contains(p.Slug, q) {
			out = append(out, p)
		}
	}
	return out
}
