package cart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsbin/storefront/internal/storage"
)

// brokenStore simulates an unavailable medium: reads fail to absent, writes
// fail silently, exactly like a full or blocked localStorage.
type brokenStore struct{}

func (brokenStore) Load(context.Context, string) (json.RawMessage, storage.Status) {
	return nil, storage.StatusAbsent
}
func (brokenStore) Save(context.Context, string, json.RawMessage) storage.Status {
	return storage.StatusFailed
}
func (brokenStore) Clear(context.Context, string) storage.Status {
	return storage.StatusFailed
}

func setupCart(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	bs := storage.NewMemoryStore()
	return New(context.Background(), bs), bs
}

// totalInvariant asserts TotalQty equals the exact sum of line quantities.
func totalInvariant(t *testing.T, s *Store) {
	t.Helper()
	sum := 0
	for _, l := range s.Items() {
		sum += l.Quantity
	}
	assert.Equal(t, sum, s.TotalQty())
}

func TestAdd_NewLine(t *testing.T) {
	s, _ := setupCart(t)
	ctx := context.Background()

	s.Add(ctx, "p1", 2)

	assert.Equal(t, []Line{{ProductID: "p1", Quantity: 2}}, s.Items())
	assert.Equal(t, 2, s.TotalQty())
	totalInvariant(t, s)
}

func TestAdd_IncrementsExistingLine(t *testing.T) {
	s, _ := setupCart(t)
	ctx := context.Background()

	s.Add(ctx, "p1", 2)
	s.Add(ctx, "p1", 3)

	assert.Equal(t, []Line{{ProductID: "p1", Quantity: 5}}, s.Items())
	assert.Equal(t, 5, s.TotalQty())
	totalInvariant(t, s)
}

func TestAdd_DefaultsToOne(t *testing.T) {
	s, _ := setupCart(t)
	ctx := context.Background()

	s.Add(ctx, "p1", 0)
	s.Add(ctx, "p2", -4)

	assert.Equal(t, 2, s.TotalQty())
	assert.Equal(t, 1, s.Quantity("p1"))
	assert.Equal(t, 1, s.Quantity("p2"))
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	s, _ := setupCart(t)
	ctx := context.Background()

	s.Add(ctx, "p1", 1)
	s.Add(ctx, "p2", 1)
	s.Add(ctx, "p1", 1) // increment must not reorder

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "p2", items[1].ProductID)
}

func TestRemove(t *testing.T) {
	s, _ := setupCart(t)
	ctx := context.Background()

	s.Add(ctx, "p1", 2)
	s.Add(ctx, "p2", 1)
	s.Remove(ctx, "p1")

	assert.Equal(t, []Line{{ProductID: "p2", Quantity: 1}}, s.Items())
	assert.Equal(t, 1, s.TotalQty())
	totalInvariant(t, s)

	// Double-click remove: second call is a no-op, not a crash.
	s.Remove(ctx, "p1")
	assert.Equal(t, 1, s.TotalQty())
}

func TestSetQty_Absolute(t *testing.T) {
	s, _ := setupCart(t)
	ctx := context.Background()

	s.Add(ctx, "p1", 2)
	s.SetQty(ctx, "p1", 7)

	assert.Equal(t, 7, s.Quantity("p1"))
	assert.Equal(t, 7, s.TotalQty())
	totalInvariant(t, s)
}

func TestSetQty_ZeroAndNegativeRemove(t *testing.T) {
	for _, qty := range []int{0, -5} {
		s, _ := setupCart(t)
		ctx := context.Background()

		s.Add(ctx, "p1", 1)
		s.SetQty(ctx, "p1", qty)

		assert.Empty(t, s.Items())
		assert.Equal(t, 0, s.TotalQty())
	}
}

func TestSetQty_UnknownIDIsNoop(t *testing.T) {
	s, _ := setupCart(t)
	ctx := context.Background()

	s.Add(ctx, "p1", 1)
	s.SetQty(ctx, "nope", 5)

	assert.Equal(t, 1, s.TotalQty())
	assert.Equal(t, 0, s.Quantity("nope"))
}

func TestMutationsPersistSnapshot(t *testing.T) {
	s, bs := setupCart(t)
	ctx := context.Background()

	s.Add(ctx, "p1", 2)

	blob, st := bs.Load(ctx, storage.KeyCart)
	require.Equal(t, storage.StatusOK, st)
	assert.JSONEq(t, `{"items":[{"productId":"p1","quantity":2}],"totalQty":2}`, string(blob))
}

func TestClear_RemovesDurableKey(t *testing.T) {
	s, bs := setupCart(t)
	ctx := context.Background()

	s.Add(ctx, "p1", 2)
	s.Clear(ctx)

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalQty())

	// The key is removed, not overwritten with an empty object.
	_, st := bs.Load(ctx, storage.KeyCart)
	assert.Equal(t, storage.StatusAbsent, st)
}

func TestClear_ThenReloadYieldsEmptyCart(t *testing.T) {
	s, bs := setupCart(t)
	ctx := context.Background()

	s.Add(ctx, "p1", 3)
	s.Clear(ctx)

	reloaded := New(ctx, bs)
	assert.Empty(t, reloaded.Items())
	assert.Equal(t, 0, reloaded.TotalQty())
}

func TestRehydration_RoundTrip(t *testing.T) {
	s, bs := setupCart(t)
	ctx := context.Background()

	s.Add(ctx, "p1", 2)
	s.Add(ctx, "p2", 1)

	reloaded := New(ctx, bs)
	assert.Equal(t, s.Items(), reloaded.Items())
	assert.Equal(t, 3, reloaded.TotalQty())
}

func TestRehydration_MalformedBlobFallsBackToEmpty(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()
	bs.Save(ctx, storage.KeyCart, json.RawMessage(`{"totally":"unexpected"`))

	s := New(ctx, bs)
	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalQty())
}

func TestRehydration_SanitizesBadLines(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()
	// Zero quantities, duplicates and a bogus totalQty written by some
	// other (buggy or older) writer.
	bs.Save(ctx, storage.KeyCart, json.RawMessage(
		`{"items":[{"productId":"p1","quantity":2},{"productId":"p2","quantity":0},{"productId":"p1","quantity":3},{"productId":"","quantity":4}],"totalQty":99}`))

	s := New(ctx, bs)
	assert.Equal(t, []Line{{ProductID: "p1", Quantity: 5}}, s.Items())
	assert.Equal(t, 5, s.TotalQty())
}

func TestUnavailableMedium_SessionStaysAuthoritative(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, brokenStore{})

	s.Add(ctx, "p1", 2)
	s.SetQty(ctx, "p1", 4)
	s.Clear(ctx)
	s.Add(ctx, "p2", 1)

	// Every write failed silently; in-memory state is still exact.
	assert.Equal(t, []Line{{ProductID: "p2", Quantity: 1}}, s.Items())
	assert.Equal(t, 1, s.TotalQty())
}

func TestTotalQtyInvariantUnderMixedSequence(t *testing.T) {
	s, _ := setupCart(t)
	ctx := context.Background()

	ops := []func(){
		func() { s.Add(ctx, "p1", 3) },
		func() { s.Add(ctx, "p2", 1) },
		func() { s.SetQty(ctx, "p1", 1) },
		func() { s.Add(ctx, "p3", 2) },
		func() { s.Remove(ctx, "p2") },
		func() { s.SetQty(ctx, "p3", 0) },
		func() { s.Add(ctx, "p1", 1) },
	}
	for _, op := range ops {
		op()
		totalInvariant(t, s)
	}

	assert.Equal(t, []Line{{ProductID: "p1", Quantity: 2}}, s.Items())
}
