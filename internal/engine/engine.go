// Package engine wires the stores together at the application level. The
// stores never hold references to each other; cross-store effects (the
// optimistic stock reservation on add, the restore on removal) live here so
// each store stays testable on its own.
package engine

import (
	"context"
	"sync"

	"github.com/partsbin/storefront/internal/cart"
	"github.com/partsbin/storefront/internal/catalog"
	"github.com/partsbin/storefront/internal/checkout"
	"github.com/partsbin/storefront/internal/inventory"
	"github.com/partsbin/storefront/internal/orders"
	"github.com/partsbin/storefront/internal/selection"
	"github.com/partsbin/storefront/internal/storage"
)

// Engine owns the lifetime of every store. The application root constructs
// exactly one per durable profile.
type Engine struct {
	Inventory *inventory.Store
	Cart      *cart.Store
	Wishlist  *selection.Store
	Compare   *selection.Store
	Orders    *orders.Recorder
	Checkout  *checkout.Service

	held *reservations
}

// New constructs and rehydrates all stores from the given medium.
// compareLimit > 0 caps the compare set on add.
func New(ctx context.Context, bs storage.BlobStore, compareLimit int) *Engine {
	inv := inventory.New()
	c := cart.New(ctx, bs)
	rec := orders.NewRecorder(bs)
	held := newReservations()

	return &Engine{
		Inventory: inv,
		Cart:      c,
		Wishlist:  selection.NewWishlist(ctx, bs),
		Compare:   selection.NewCompare(ctx, bs, compareLimit),
		Orders:    rec,
		Checkout:  checkout.NewService(c, inv, rec, held),
		held:      held,
	}
}

// LoadCatalog seeds the inventory from the product feed.
func (e *Engine) LoadCatalog(products []catalog.Product) {
	e.Inventory.Initialize(products)
}

// AddToCart adds qty of the product and optimistically reserves stock. The
// two writes are deliberately not coupled: the cart add always succeeds,
// and when stock cannot cover the quantity the reservation is simply
// refused. A refused reservation leaves no hold, so cart quantity and held
// quantity can differ; checkout settles the gap.
func (e *Engine) AddToCart(ctx context.Context, productID string, qty int) {
	if qty < 1 {
		qty = 1
	}
	e.Cart.Add(ctx, productID, qty)
	if e.Inventory.ReduceStock(productID, qty) {
		e.held.grant(productID, qty)
	}
}

// RemoveFromCart drops the line and returns its hold to stock. Only the
// quantity actually reserved comes back; quantity whose reservation was
// refused never left stock in the first place.
func (e *Engine) RemoveFromCart(ctx context.Context, productID string) {
	e.Cart.Remove(ctx, productID)
	if freed := e.held.Settle(productID); freed > 0 {
		e.Inventory.IncreaseStock(productID, freed)
	}
}

// UpdateQty sets the line's quantity absolutely and settles the stock
// delta: growing the line reserves more, shrinking it releases the part of
// the hold above the new quantity. Unknown lines are a no-op, matching the
// cart store.
func (e *Engine) UpdateQty(ctx context.Context, productID string, qty int) {
	prev := e.Cart.Quantity(productID)
	if prev == 0 {
		return
	}

	e.Cart.SetQty(ctx, productID, qty)

	next := qty
	if next < 0 {
		next = 0
	}
	switch {
	case next > prev:
		if e.Inventory.ReduceStock(productID, next-prev) {
			e.held.grant(productID, next-prev)
		}
	case next < prev:
		if freed := e.held.shrinkTo(productID, next); freed > 0 {
			e.Inventory.IncreaseStock(productID, freed)
		}
	}
}

// ClearCart empties the cart without touching stock; it is the caller's
// reset button, not a mass removal. The holds are dropped with the lines so
// a later re-add cannot claim credit for a cart that no longer exists.
func (e *Engine) ClearCart(ctx context.Context) {
	e.Cart.Clear(ctx)
	e.held.clear()
}

// reservations is the ledger of stock quantities AddToCart actually managed
// to deduct, keyed by product id. It is what keeps refused reservations
// from minting stock on removal and successful ones from being counted
// against the cart twice at checkout.
type reservations struct {
	mu   sync.Mutex
	held map[string]int
}

func newReservations() *reservations {
	return &reservations{held: make(map[string]int)}
}

func (r *reservations) grant(productID string, qty int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.held[productID] += qty
}

// Held implements checkout.StockHolds.
func (r *reservations) Held(productID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.held[productID]
}

// Settle implements checkout.StockHolds: it closes the hold and returns
// the quantity it covered.
func (r *reservations) Settle(productID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := r.held[productID]
	delete(r.held, productID)
	return q
}

// shrinkTo caps the hold at qty and returns how much was freed. A hold
// already at or under qty stays put: the cart line above it was never
// backed by stock.
func (r *reservations) shrinkTo(productID string, qty int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.held[productID]
	if h <= qty {
		return 0
	}
	if qty == 0 {
		delete(r.held, productID)
	} else {
		r.held[productID] = qty
	}
	return h - qty
}

func (r *reservations) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.held = make(map[string]int)
}
