package storage

import (
	"context"
	"encoding/json"
)

// Status is the outcome of a blob operation. The adapter never surfaces
// errors; callers branch on the status and carry on either way.
type Status int

const (
	// StatusOK means the operation completed against the medium.
	StatusOK Status = iota
	// StatusAbsent means the key does not exist, or the read failed.
	StatusAbsent
	// StatusFailed means a write or delete did not reach the medium.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusAbsent:
		return "absent"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Well-known snapshot keys. These names are part of the persisted contract
// and must not change without a migration.
const (
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
	KeyCompare  = "compare"
	KeyOrders   = "orders"
)

// BlobStore is a durable key -> JSON blob medium.
// Consumers define this interface, not the backends.
type BlobStore interface {
	// Load returns the blob stored under key, or StatusAbsent when there
	// is none (or the medium could not be read).
	Load(ctx context.Context, key string) (json.RawMessage, Status)

	// Save overwrites the blob under key wholesale.
	Save(ctx context.Context, key string, blob json.RawMessage) Status

	// Clear removes the key entirely, so a later Load reports absent
	// rather than an empty value.
	Clear(ctx context.Context, key string) Status
}

// LoadInto loads the blob under key and decodes it into v. It reports false
// when the key is absent or the payload does not decode as v's shape; the
// caller falls back to its empty state in both cases.
func LoadInto(ctx context.Context, bs BlobStore, key string, v any) bool {
	blob, st := bs.Load(ctx, key)
	if st != StatusOK {
		return false
	}
	if err := json.Unmarshal(blob, v); err != nil {
		return false
	}
	return true
}

// SaveJSON encodes v and saves it under key. An encoding failure counts as
// a write failure.
func SaveJSON(ctx context.Context, bs BlobStore, key string, v any) Status {
	blob, err := json.Marshal(v)
	if err != nil {
		return StatusFailed
	}
	return bs.Save(ctx, key, blob)
}
