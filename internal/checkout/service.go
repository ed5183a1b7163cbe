// Package checkout is the hard-validation half of the two-phase stock
// policy. Adding to the cart is optimistic and never refused; this is where
// insufficient stock actually stops an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/partsbin/storefront/internal/cart"
	"github.com/partsbin/storefront/internal/inventory"
	"github.com/partsbin/storefront/internal/orders"
)

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockHolds reports how much stock was already deducted for a product when
// it went into the cart. Held quantity counts toward availability at
// validation time; Settle closes a hold once the order is recorded and
// returns the quantity it covered.
type StockHolds interface {
	Held(productID string) int
	Settle(productID string) int
}

// Service validates the cart against current stock, builds an immutable
// order snapshot with prices captured now, records it and clears the cart.
type Service struct {
	cart      *cart.Store
	inventory *inventory.Store
	holds     StockHolds
	recorder  *orders.Recorder
	now       func() time.Time
}

// NewService wires the checkout over the given stores. holds may be nil
// when no add-time reservations exist; the whole order quantity is then
// deducted here.
func NewService(c *cart.Store, inv *inventory.Store, rec *orders.Recorder, holds StockHolds) *Service {
	return &Service{cart: c, inventory: inv, holds: holds, recorder: rec, now: time.Now}
}

// Submit places the order for the current cart contents. Stock is
// re-checked here: a line passes when current stock plus whatever this cart
// already holds covers its quantity; any line that falls short fails the
// whole submission.
func (s *Service) Submit(ctx context.Context, customer *orders.Customer) (orders.Snapshot, error) {
	// Each submission gets its own key so duplicate submissions can be
	// traced across the log and error reports.
	submissionID := uuid.New().String()

	lines := s.cart.Items()
	if len(lines) == 0 {
		return orders.Snapshot{}, fmt.Errorf("submission %s: %w", submissionID, ErrEmptyCart)
	}

	if over := s.overStock(lines); len(over) > 0 {
		return orders.Snapshot{}, fmt.Errorf("submission %s: %w: %s", submissionID, ErrInsufficientStock, strings.Join(over, ", "))
	}

	order := s.buildSnapshot(lines, customer)

	// ORD ids are millisecond-derived; two submissions in the same
	// millisecond collide, so bump until the recorder accepts.
	for !s.recorder.Record(ctx, order) {
		order.ID = nextOrderID(order.ID)
	}

	s.consume(lines)
	s.cart.Clear(ctx)
	log.Printf("checkout: submission %s recorded as %s (subtotal %d)", submissionID, order.ID, order.Subtotal)
	return order, nil
}

// overStock returns the product ids whose cart quantity exceeds what is
// available to this cart: current stock plus the quantity its holds already
// took out of it. Ids unknown to the inventory are not counted against the
// order; stale lines fail later lookups, not the stock check.
func (s *Service) overStock(lines []cart.Line) []string {
	var over []string
	for _, l := range lines {
		p, ok := s.inventory.ByID(l.ProductID)
		if !ok {
			continue
		}
		if l.Quantity > p.Stock+s.held(l.ProductID) {
			over = append(over, l.ProductID)
		}
	}
	return over
}

// consume finalizes the stock effect of the recorded order. Each line's
// hold is settled, and whatever the hold did not already cover comes out of
// stock now. overStock ran just before, so the remainder deduction holds.
func (s *Service) consume(lines []cart.Line) {
	for _, l := range lines {
		held := 0
		if s.holds != nil {
			held = s.holds.Settle(l.ProductID)
		}
		if rest := l.Quantity - held; rest > 0 {
			s.inventory.ReduceStock(l.ProductID, rest)
		}
	}
}

func (s *Service) held(productID string) int {
	if s.holds == nil {
		return 0
	}
	return s.holds.Held(productID)
}

func (s *Service) buildSnapshot(lines []cart.Line, customer *orders.Customer) orders.Snapshot {
	now := s.now()
	snap := orders.Snapshot{
		ID:        fmt.Sprintf("ORD-%d", now.UnixMilli()),
		CreatedAt: now,
		Items:     make([]orders.Item, 0, len(lines)),
		Customer:  customer,
	}

	var subtotal int64
	for _, l := range lines {
		// Name and unit price are captured at order time; a product
		// missing from the catalog keeps its id as the name.
		name := l.ProductID
		var price int64
		if p, ok := s.inventory.ByID(l.ProductID); ok {
			name = p.Name
			price = p.Price
		}

		snap.Items = append(snap.Items, orders.Item{
			ID:    l.ProductID,
			Name:  name,
			Qty:   l.Quantity,
			Price: price,
		})
		subtotal += price * int64(l.Quantity)
	}

	snap.Subtotal = subtotal
	return snap
}

func nextOrderID(id string) string {
	var ms int64
	if _, err := fmt.Sscanf(id, "ORD-%d", &ms); err != nil {
		return fmt.Sprintf("%s-%s", id, uuid.New().String()[:8])
	}
	return fmt.Sprintf("ORD-%d", ms+1)
}
