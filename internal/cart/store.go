// Package cart holds the cart lines and the derived total quantity. Every
// mutation writes the full snapshot to durable storage; construction reads
// it back, degrading to an empty cart when the blob is missing or malformed.
package cart

import (
	"context"
	"log"
	"sync"

	"github.com/partsbin/storefront/internal/storage"
)

// Line is one product-quantity pairing. ProductID is a reference by id into
// the catalog, never an embedded product.
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// snapshot is the persisted layout under the "cart" key.
type snapshot struct {
	Items    []Line `json:"items"`
	TotalQty int    `json:"totalQty"`
}

// Store owns the line list. Invariants held after every mutation: at most
// one line per product id, every quantity >= 1, TotalQty equals the sum of
// line quantities.
type Store struct {
	mu       sync.Mutex
	store    storage.BlobStore
	items    []Line
	totalQty int
}

// New constructs the store and rehydrates it from durable storage. A stored
// blob that does not decode, or lines with non-positive quantities, degrade
// rather than fail: corrupt persisted state must never prevent startup.
func New(ctx context.Context, bs storage.BlobStore) *Store {
	s := &Store{store: bs}

	var snap snapshot
	if storage.LoadInto(ctx, bs, storage.KeyCart, &snap) {
		s.items = sanitize(snap.Items)
	}
	// TotalQty is derived, never trusted from disk.
	s.recompute()
	return s
}

// sanitize drops lines a well-behaved writer could not have produced:
// non-positive quantities are removed and duplicate product ids merged.
func sanitize(lines []Line) []Line {
	var out []Line
	pos := make(map[string]int)
	for _, l := range lines {
		if l.Quantity <= 0 || l.ProductID == "" {
			continue
		}
		if i, ok := pos[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		pos[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}

// Add upserts a line: an existing line's quantity grows by qty, otherwise a
// new line is appended. qty below 1 counts as 1, matching the storefront's
// add-one default.
func (s *Store) Add(ctx context.Context, productID string, qty int) {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, Line{ProductID: productID, Quantity: qty})
	}

	s.recompute()
	s.persist(ctx)
}

// Remove deletes the line for productID. Unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(ctx, productID)
}

func (s *Store) remove(ctx context.Context, productID string) {
	next := s.items[:0]
	for _, l := range s.items {
		if l.ProductID != productID {
			next = append(next, l)
		}
	}
	s.items = next

	s.recompute()
	s.persist(ctx)
}

// SetQty sets the line's quantity to exactly qty (absolute, not a delta).
// qty <= 0 removes the line; unknown ids are a no-op.
func (s *Store) SetQty(ctx context.Context, productID string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		s.remove(ctx, productID)
		return
	}

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = qty
			s.recompute()
			s.persist(ctx)
			return
		}
	}
}

// Clear empties the cart and removes the durable blob entirely, so the next
// rehydration sees an absent key rather than a stale empty object.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.totalQty = 0

	if st := s.store.Clear(ctx, storage.KeyCart); st == storage.StatusFailed {
		log.Printf("cart: clearing persisted snapshot failed")
	}
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) TotalQty() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.totalQty
}

// Quantity returns the quantity of the line for productID, or 0 when there
// is no such line.
func (s *Store) Quantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.items {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

func (s *Store) recompute() {
	total := 0
	for _, l := range s.items {
		total += l.Quantity
	}
	s.totalQty = total
}

func (s *Store) persist(ctx context.Context) {
	snap := snapshot{Items: s.items, TotalQty: s.totalQty}
	if snap.Items == nil {
		snap.Items = []Line{}
	}
	if st := storage.SaveJSON(ctx, s.store, storage.KeyCart, snap); st == storage.StatusFailed {
		// Fire and forget: the in-memory cart stays correct for the
		// session even when the medium is gone.
		log.Printf("cart: persisting snapshot failed")
	}
}
