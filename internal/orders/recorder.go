// Package orders appends immutable order snapshots to the durable order
// history. Snapshots capture name and price at order time on purpose: the
// catalog price may change later and the history must not follow it.
package orders

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/partsbin/storefront/internal/storage"
)

// Item is one line summary inside an order snapshot.
type Item struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Qty   int    `json:"qty"`
	Price int64  `json:"price"` // unit price at order time
}

// Customer is the optional contact block collected at checkout.
type Customer struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Snapshot is an immutable order record. Created once at checkout, never
// mutated after insertion.
type Snapshot struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Subtotal  int64     `json:"subtotal"`
	Items     []Item    `json:"items"`
	Customer  *Customer `json:"customer,omitempty"`
}

// Recorder reads and writes the order history list under the "orders" key,
// most-recent-first. It holds no in-memory copy: every operation goes
// through the medium, so concurrent recorders on one profile see each
// other's inserts (within the last-writer-wins limits of the medium).
type Recorder struct {
	mu    sync.Mutex
	store storage.BlobStore
	sfg   singleflight.Group // collapses concurrent history reads
}

func NewRecorder(bs storage.BlobStore) *Recorder {
	return &Recorder{store: bs}
}

// Record inserts order at the head of the history. An order whose id is
// already present is skipped, which makes re-submission harmless. Reports
// whether the order was actually inserted.
func (r *Recorder) Record(ctx context.Context, order Snapshot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.load(ctx)
	for _, existing := range history {
		if existing.ID == order.ID {
			log.Printf("orders: duplicate submission for %s skipped", order.ID)
			return false
		}
	}

	history = append([]Snapshot{order}, history...)
	if st := storage.SaveJSON(ctx, r.store, storage.KeyOrders, history); st == storage.StatusFailed {
		// The write is best-effort like every other snapshot; the
		// caller already holds the returned order.
		log.Printf("orders: persisting history failed")
	}
	return true
}

// History returns the order list, most recent first.
func (r *Recorder) History(ctx context.Context) []Snapshot {
	v, _, _ := r.sfg.Do(storage.KeyOrders, func() (interface{}, error) {
		return r.load(ctx), nil
	})
	return v.([]Snapshot)
}

// ByID returns the snapshot with the given order id.
func (r *Recorder) ByID(ctx context.Context, id string) (Snapshot, bool) {
	for _, o := range r.History(ctx) {
		if o.ID == id {
			return o, true
		}
	}
	return Snapshot{}, false
}

func (r *Recorder) load(ctx context.Context) []Snapshot {
	var history []Snapshot
	if !storage.LoadInto(ctx, r.store, storage.KeyOrders, &history) {
		return nil // absent or malformed, same as no history
	}
	return history
}
