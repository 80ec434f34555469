// Package metadata implements the Metadata Manager: loading,
// validating, and persisting the per-cache metadata record.
package metadata

import (
	"github.com/rajatkb/viscache/internal/codec"
	"github.com/rajatkb/viscache/internal/crawler"
	"github.com/rajatkb/viscache/internal/evict"
	"github.com/rajatkb/viscache/internal/rt"
)

// Empty synthesizes the metadata record spec.md §4.5 requires on
// absence, decode failure, or store failure: version pinned to the
// descriptor's current version, zero bits, an empty queue, LRU policy.
func Empty(cfg rt.Config, version int) codec.Metadata {
	return codec.Metadata{
		Version: version,
		Bits:    0,
		Equeue:  []codec.EqueueEntry{},
		Policy:  "LRU",
	}
}

// Load reads the metadata record at "#"+name. Absence, a decode
// failure, or a store failure all fall back to Empty — spec.md §4.5
// makes no distinction between these three causes.
func Load(cfg rt.Config, currentVersion int) codec.Metadata {
	raw, ok, err := cfg.Store.Get(crawler.MetadataKey(cfg.Name))
	if err != nil || !ok {
		return Empty(cfg, currentVersion)
	}
	m, err := codec.DecodeMetadata(raw)
	if err != nil {
		cfg.Logger.Warn().Str("cache", cfg.Name).Err(err).Msg("metadata decode failed, synthesizing empty record")
		return Empty(cfg, currentVersion)
	}
	return m
}

// Persist writes the metadata record through the Eviction Engine, so
// a metadata write that itself overflows the quota drives eviction
// (spec.md §4.5). If even that fails, the returned accounting resets
// to bits=0/equeue=[]; whatever record was already on disk stays as it
// was.
func Persist(cfg rt.Config, version int, bits int64, equeue []codec.EqueueEntry) (int64, []codec.EqueueEntry) {
	makeValue := func(curBits int64, curEqueue []codec.EqueueEntry) string {
		value, err := codec.EncodeMetadata(codec.Metadata{
			Version: version,
			Bits:    curBits,
			Equeue:  curEqueue,
			Policy:  "LRU",
		})
		if err != nil {
			return ""
		}
		return value
	}

	// The metadata record's own on-disk size is never part of `bits`
	// (I2: bits tracks StoredEntry records only), so this write never
	// changes the accounted total on success; eviction only kicks in
	// if the underlying store itself rejects the write, or if the bits
	// passed in already exceed the budget.
	key := crawler.MetadataKey(cfg.Name)
	return evict.TrySet(cfg, 0, key, makeValue, bits, equeue)
}
