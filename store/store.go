// Package store defines the contract a persistent string-keyed store
// must satisfy to back a cache, and the two failure kinds every higher
// layer is allowed to see.
//
// This widens the teacher's storage.KVStore interface (Put/Get/Delete
// over []byte, see storage/lsmtree.go) into the string-keyed,
// quota-aware contract spec.md §6 requires: Keys and Clear are added,
// and every operation returns one of exactly two sentinel failure
// kinds instead of an opaque error.
package store

import "errors"

// ErrDisabled signals the underlying store is unavailable for the
// remainder of this session. It is never recoverable within a
// session; callers swallow it and degrade to a no-op.
var ErrDisabled = errors.New("store: disabled")

// ErrQuotaExceeded signals a write would exceed the host's per-origin
// byte budget. It drives the eviction engine and never escapes a
// public cache operation.
var ErrQuotaExceeded = errors.New("store: quota exceeded")

// Adapter is the thin contract over the underlying string persistence
// store. Implementations must return exactly ErrDisabled or
// ErrQuotaExceeded (wrapped with fmt.Errorf("...: %w", ...) is fine);
// any other error is treated by callers as ErrDisabled.
type Adapter interface {
	// Get returns the exact string last Set at rawKey, or ok=false if
	// absent. err is non-nil only for ErrDisabled.
	Get(rawKey string) (value string, ok bool, err error)

	// Set durably stores value at rawKey, or fails with
	// ErrQuotaExceeded (the write would exceed the host quota) or
	// ErrDisabled.
	Set(rawKey, value string) error

	// Remove deletes rawKey if present. Removing an absent key is not
	// an error.
	Remove(rawKey string) error

	// Clear deletes every key this store holds.
	Clear() error

	// Keys enumerates every key currently present, in no particular
	// order.
	Keys() ([]string, error)
}
