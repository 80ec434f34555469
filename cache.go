// Package cache implements a versioned, size-bounded, persistent
// key/value cache over a pluggable string-keyed store: Get/Add/Clear
// sequence the Metadata Manager, the Migrator, and the Eviction
// Engine the way spec.md §4.8 describes. No public operation ever
// surfaces an error — a swallowed store failure degrades the result
// instead (spec.md §7).
package cache

import (
	"time"

	"github.com/rajatkb/viscache/internal/clearall"
	"github.com/rajatkb/viscache/internal/codec"
	"github.com/rajatkb/viscache/internal/crawler"
	"github.com/rajatkb/viscache/internal/evict"
	"github.com/rajatkb/viscache/internal/metadata"
	"github.com/rajatkb/viscache/internal/migrate"
)

// guard loads the metadata record and, if its version doesn't match
// this Descriptor's version, runs the Migrator — spec.md §4.8's
// shared first step of both Get and Add.
func (d *Descriptor[T]) guard() (bits int64, equeue []codec.EqueueEntry, migrated bool) {
	meta := metadata.Load(d.cfg, d.version)
	if meta.Version != d.version {
		bits, equeue = migrate.Run(d.cfg, meta.Version, d.version, d.migrations)
		return bits, equeue, true
	}
	return meta.Bits, meta.Equeue, false
}

// Get returns the domain value stored at userKey, or ok=false if it
// is absent, undecodable, or the store is disabled. A successful Get
// touches the entry's timestamp via a plain store write — never
// through the Eviction Engine, since a read must never evict
// (spec.md §4.8).
func (d *Descriptor[T]) Get(userKey string) (value T, ok bool) {
	bits, equeue, migrated := d.guard()
	if migrated {
		metadata.Persist(d.cfg, d.version, bits, equeue)
	}

	rawKey := crawler.QualifiedKey(d.cfg.Name, userKey)
	raw, present, err := d.cfg.Store.Get(rawKey)
	if err != nil || !present {
		return value, false
	}

	entry, err := codec.DecodeEntry(raw)
	if err != nil {
		return value, false
	}

	domainValue, err := d.decode(entry.V)
	if err != nil {
		return value, false
	}

	if newRaw, encErr := codec.EncodeEntry(codec.Entry{T: d.now(), V: entry.V}); encErr == nil {
		_ = d.cfg.Store.Set(rawKey, newRaw)
	}

	// equeue is left untouched on a touch, except that a key missing
	// from the hint is appended so it becomes an eviction candidate at
	// all — spec.md §4.8's Open Question 1, resolved in favor of never
	// reordering on read.
	q := evict.FromPersisted(equeue)
	if !q.Has(rawKey) {
		q.PushBack(rawKey, codec.Size(rawKey, raw))
		metadata.Persist(d.cfg, d.version, bits, q.ToPersisted(codec.MaxPersistedQueueLen))
	}

	return domainValue, true
}

// now returns the current wall-clock millisecond timestamp, or the
// Descriptor's overridden clock if one was configured.
func (d *Descriptor[T]) now() int64 {
	if d.clock != nil {
		return d.clock()
	}
	return time.Now().UnixMilli()
}

// Add stores value at userKey, evicting the least-recently-used
// entries to make room if needed. An entry whose own qualified size
// exceeds the byte budget is never stored, and any stale entry
// previously stored at userKey is removed instead (spec.md §4.8).
func (d *Descriptor[T]) Add(userKey string, val T) {
	bits, equeue, migrated := d.guard()
	if migrated {
		// Persist the migration's result before any of this call's own
		// early returns, the same way Get does — migrate.Run already
		// rewrote every entry's envelope to the new version on disk, so
		// the metadata record's version must land too, or the next
		// Get/Add sees the old version again and re-applies the same
		// upgrade functions to entries already in the new shape.
		metadata.Persist(d.cfg, d.version, bits, equeue)
	}

	rawKey := crawler.QualifiedKey(d.cfg.Name, userKey)

	encoded, err := d.encode(val)
	if err != nil {
		return
	}

	entryStr, err := codec.EncodeEntry(codec.Entry{T: d.now(), V: encoded})
	if err != nil {
		return
	}
	entryBits := codec.Size(rawKey, entryStr)

	if entryBits > d.cfg.MaxBits {
		_ = d.cfg.Store.Remove(rawKey)
		return
	}

	bitsDiff := entryBits
	if oldRaw, present, getErr := d.cfg.Store.Get(rawKey); getErr == nil && present {
		bitsDiff = entryBits - codec.Size(rawKey, oldRaw)
	}

	// add does not eagerly insert rawKey into equeue: a fresh entry is
	// simply absent from the hint until the next Queue Rebuilder crawl
	// re-derives it from the store (spec.md §4.8's Open Question 2).
	makeValue := func(_ int64, _ []codec.EqueueEntry) string { return entryStr }
	newBits, newEqueue := evict.TrySet(d.cfg, bitsDiff, rawKey, makeValue, bits, equeue)

	metadata.Persist(d.cfg, d.version, newBits, newEqueue)
}

// Clear removes every entry and resets this cache's metadata to an
// empty record at the current version (spec.md §4.8).
func (d *Descriptor[T]) Clear() {
	clearall.Run(d.cfg, d.version)
}
