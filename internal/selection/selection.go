// Package selection implements the small persisted id sets: wishlist and
// compare. Both share the same membership semantics; they differ only in
// their persisted layout and in compare's optional size limit.
package selection

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/partsbin/storefront/internal/storage"
)

// compareSchemaVersion is the current version written into the compare
// wrapper. Rehydration drops blobs with any other version; a future bump
// would hook a migration in where the version check is today.
const compareSchemaVersion = 1

// compareBlob is the persisted layout under the "compare" key.
type compareBlob struct {
	Version int      `json:"version"`
	IDs     []string `json:"ids"`
}

type codec struct {
	encode func(ids []string) any
	decode func(raw json.RawMessage) ([]string, bool)
}

// The wishlist persists as a bare array of ids.
var wishlistCodec = codec{
	encode: func(ids []string) any { return ids },
	decode: func(raw json.RawMessage) ([]string, bool) {
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			return nil, false
		}
		return ids, true
	},
}

// The compare set persists under a versioned wrapper.
var compareCodec = codec{
	encode: func(ids []string) any {
		return compareBlob{Version: compareSchemaVersion, IDs: ids}
	},
	decode: func(raw json.RawMessage) ([]string, bool) {
		var blob compareBlob
		if err := json.Unmarshal(raw, &blob); err != nil {
			return nil, false
		}
		if blob.Version != compareSchemaVersion {
			return nil, false
		}
		return blob.IDs, true
	},
}

// Store is an ordered, duplicate-free set of product ids. Insertion order
// is preserved for display stability; it carries no other meaning.
type Store struct {
	mu    sync.Mutex
	store storage.BlobStore
	key   string
	codec codec
	ids   []string
	limit int // applied on Add; 0 means unlimited
}

// NewWishlist rehydrates the wishlist set from the "wishlist" key.
func NewWishlist(ctx context.Context, bs storage.BlobStore) *Store {
	return rehydrate(ctx, bs, storage.KeyWishlist, wishlistCodec, 0)
}

// NewCompare rehydrates the compare set from the "compare" key. limit > 0
// caps the set on every Add, trimming from the oldest end.
func NewCompare(ctx context.Context, bs storage.BlobStore, limit int) *Store {
	return rehydrate(ctx, bs, storage.KeyCompare, compareCodec, limit)
}

func rehydrate(ctx context.Context, bs storage.BlobStore, key string, c codec, limit int) *Store {
	s := &Store{store: bs, key: key, codec: c, limit: limit}

	if raw, st := bs.Load(ctx, key); st == storage.StatusOK {
		if ids, ok := c.decode(raw); ok {
			s.ids = dedupe(ids)
		}
	}
	return s
}

func dedupe(ids []string) []string {
	var out []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Add appends id if absent; a present id is a no-op (no persist either).
func (s *Store) Add(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.contains(id) {
		return
	}
	s.ids = append(s.ids, id)
	if s.limit > 0 && len(s.ids) > s.limit {
		s.ids = trimOldest(s.ids, s.limit)
	}
	s.persist(ctx)
}

// Remove filters id out; absent ids are a no-op.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.contains(id) {
		return
	}
	next := s.ids[:0]
	for _, x := range s.ids {
		if x != id {
			next = append(next, x)
		}
	}
	s.ids = next
	s.persist(ctx)
}

// Toggle adds id when absent and removes it when present. Two consecutive
// toggles of the same id restore the original membership.
func (s *Store) Toggle(ctx context.Context, id string) {
	if s.Has(id) {
		s.Remove(ctx, id)
	} else {
		s.Add(ctx, id)
	}
}

func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.contains(id)
}

// IDs returns a copy of the current ids in insertion order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Clear empties the set.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = nil
	s.persist(ctx)
}

// LimitTo trims the set to the most recent n ids, discarding from the
// oldest end. A set already within n is left untouched and not re-persisted.
func (s *Store) LimitTo(ctx context.Context, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 0 || len(s.ids) <= n {
		return
	}
	s.ids = trimOldest(s.ids, n)
	s.persist(ctx)
}

func trimOldest(ids []string, n int) []string {
	return append([]string(nil), ids[len(ids)-n:]...)
}

func (s *Store) contains(id string) bool {
	for _, x := range s.ids {
		if x == id {
			return true
		}
	}
	return false
}

func (s *Store) persist(ctx context.Context) {
	ids := s.ids
	if ids == nil {
		ids = []string{}
	}
	if st := storage.SaveJSON(ctx, s.store, s.key, s.codec.encode(ids)); st == storage.StatusFailed {
		log.Printf("selection: persisting %q failed", s.key)
	}
}
