// Package clearall implements the key-removal sweep shared by the
// public Clear operation and the Migrator's missing-path fallback
// (spec.md §4.6 step 1, §4.8 Clear).
package clearall

import (
	"strings"

	"github.com/rajatkb/viscache/internal/codec"
	"github.com/rajatkb/viscache/internal/crawler"
	"github.com/rajatkb/viscache/internal/rt"
)

// Run removes every raw key owned by this cache (its metadata key and
// every qualified entry key) and writes a fresh empty metadata record
// at version. Individual store failures are swallowed; a Disabled
// store degrades this to a no-op.
func Run(cfg rt.Config, version int) {
	metaKey := crawler.MetadataKey(cfg.Name)
	entryPrefix := metaKey + "#"

	keys, err := cfg.Store.Keys()
	if err == nil {
		for _, k := range keys {
			if k == metaKey || strings.HasPrefix(k, entryPrefix) {
				_ = cfg.Store.Remove(k)
			}
		}
	}

	empty := codec.Metadata{Version: version, Bits: 0, Equeue: []codec.EqueueEntry{}, Policy: "LRU"}
	if encoded, encErr := codec.EncodeMetadata(empty); encErr == nil {
		_ = cfg.Store.Set(metaKey, encoded)
	}
}
