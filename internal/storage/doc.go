// Package storage provides the durable key/value medium the stores persist
// their snapshots to. Each store owns one key and writes its entire state as
// a single JSON blob on every mutation; on construction it reads the blob
// back to rehydrate.
//
// The adapter is a best-effort convenience layer, not a transactional log.
// Nothing here returns an error to callers: reads that fail for any reason
// report Absent (callers fall back to their empty state), writes that fail
// report Failed (callers keep serving from memory for the session).
//
// Consistency boundary: two engine instances sharing one medium (two
// processes against the same sqlite file, two clients of the same redis)
// synchronize only by overwriting whole blobs on write and reading whole
// blobs at construction. The last writer wins at the granularity of an
// entire key. There is no merge and no conflict detection; this is a
// documented limit of the model, not something the backends try to hide.
package storage
