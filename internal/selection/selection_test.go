package selection

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partsbin/storefront/internal/storage"
)

func TestToggle_SelfInverse(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()
	w := NewWishlist(ctx, bs)

	assert.False(t, w.Has("p9"))
	w.Toggle(ctx, "p9")
	assert.True(t, w.Has("p9"))
	w.Toggle(ctx, "p9")
	assert.False(t, w.Has("p9"))
}

func TestAdd_IgnoresDuplicates(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()
	w := NewWishlist(ctx, bs)

	w.Add(ctx, "p1")
	w.Add(ctx, "p1")
	w.Add(ctx, "p2")

	assert.Equal(t, []string{"p1", "p2"}, w.IDs())
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()
	w := NewWishlist(ctx, bs)

	w.Add(ctx, "p1")
	w.Remove(ctx, "p2")

	assert.Equal(t, []string{"p1"}, w.IDs())
}

func TestInsertionOrderPreserved(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()
	c := NewCompare(ctx, bs, 0)

	c.Add(ctx, "p3")
	c.Add(ctx, "p1")
	c.Add(ctx, "p2")

	assert.Equal(t, []string{"p3", "p1", "p2"}, c.IDs())
}

func TestWishlist_PersistsBareArray(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()
	w := NewWishlist(ctx, bs)

	w.Add(ctx, "p1")
	w.Add(ctx, "p2")

	blob, st := bs.Load(ctx, storage.KeyWishlist)
	require.Equal(t, storage.StatusOK, st)
	assert.Equal(t, `["p1","p2"]`, string(blob))
}

func TestCompare_PersistsVersionedWrapper(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()
	c := NewCompare(ctx, bs, 0)

	c.Add(ctx, "p1")

	blob, st := bs.Load(ctx, storage.KeyCompare)
	require.Equal(t, storage.StatusOK, st)
	assert.JSONEq(t, `{"version":1,"ids":["p1"]}`, string(blob))
}

func TestRehydration_RoundTrip(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()

	w := NewWishlist(ctx, bs)
	w.Add(ctx, "p1")
	w.Add(ctx, "p2")
	c := NewCompare(ctx, bs, 0)
	c.Add(ctx, "p7")

	assert.Equal(t, []string{"p1", "p2"}, NewWishlist(ctx, bs).IDs())
	assert.Equal(t, []string{"p7"}, NewCompare(ctx, bs, 0).IDs())
}

func TestRehydration_MalformedFallsBackToEmpty(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()
	bs.Save(ctx, storage.KeyWishlist, json.RawMessage(`{"not":"an array"}`))

	assert.Empty(t, NewWishlist(ctx, bs).IDs())
}

func TestRehydration_UnknownCompareVersionFallsBackToEmpty(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()
	bs.Save(ctx, storage.KeyCompare, json.RawMessage(`{"version":2,"ids":["p1"]}`))

	assert.Empty(t, NewCompare(ctx, bs, 0).IDs())
}

func TestRehydration_DropsDuplicateIDs(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()
	bs.Save(ctx, storage.KeyWishlist, json.RawMessage(`["p1","p1","","p2"]`))

	assert.Equal(t, []string{"p1", "p2"}, NewWishlist(ctx, bs).IDs())
}

func TestClear(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()
	c := NewCompare(ctx, bs, 0)

	c.Add(ctx, "p1")
	c.Add(ctx, "p2")
	c.Clear(ctx)

	assert.Empty(t, c.IDs())

	blob, st := bs.Load(ctx, storage.KeyCompare)
	require.Equal(t, storage.StatusOK, st)
	assert.JSONEq(t, `{"version":1,"ids":[]}`, string(blob))
}

func TestLimitTo_KeepsMostRecent(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()
	c := NewCompare(ctx, bs, 0)

	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		c.Add(ctx, id)
	}
	c.LimitTo(ctx, 2)

	assert.Equal(t, []string{"p3", "p4"}, c.IDs())
}

func TestLimitTo_WithinLimitIsNoop(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()
	c := NewCompare(ctx, bs, 0)

	c.Add(ctx, "p1")
	c.LimitTo(ctx, 5)

	assert.Equal(t, []string{"p1"}, c.IDs())
}

func TestCompare_DefaultLimitAppliedOnAdd(t *testing.T) {
	bs := storage.NewMemoryStore()
	ctx := context.Background()
	c := NewCompare(ctx, bs, 3)

	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		c.Add(ctx, id)
	}

	// Oldest id fell off; the newest three remain.
	assert.Equal(t, []string{"p2", "p3", "p4"}, c.IDs())
	assert.False(t, c.Has("p1"))
}
