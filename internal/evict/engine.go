// Package evict implements the Eviction Engine: size-aware writes
// that evict oldest queue entries one by one on overflow, and the
// Queue Rebuilder that re-derives equeue from the entries actually
// present when the queue runs dry.
package evict

import (
	"sort"

	"github.com/rajatkb/viscache/internal/codec"
	"github.com/rajatkb/viscache/internal/crawler"
	"github.com/rajatkb/viscache/internal/rt"
)

// MakeValue renders the raw string to write, given the bits/equeue
// state *at the moment of the attempt* — the engine calls it again on
// every retry so a metadata write reflects victims already evicted
// mid-retry (spec.md §4.7).
type MakeValue func(bits int64, equeue []codec.EqueueEntry) string

// TrySet is the core eviction-engine primitive (spec.md §4.7):
// attempt a size-checked write, and on overflow evict the oldest
// queue entries one at a time until the write fits or the queue (and
// a full rebuild from the Crawler) is exhausted.
func TrySet(cfg rt.Config, bitsDiff int64, rawKey string, makeValue MakeValue, bits int64, equeue []codec.EqueueEntry) (int64, []codec.EqueueEntry) {
	q := FromPersisted(equeue)
	if bits+bitsDiff > cfg.MaxBits && !queueCoversLiveEntries(cfg, q) {
		// equeue is only ever a hint, and Add never inserts a fresh key
		// into it (Open Question 2) — a run of Adds with no intervening
		// Get can leave it tracking only a handful of the entries
		// actually live. Handing that partial queue straight to
		// PopFront would evict whichever key it happens to know about,
		// which can be a just-touched entry sitting alone at both ends
		// of its own one-element queue, instead of the true oldest
		// entry. Rebuild from a crawl, which orders by every live
		// entry's real timestamp, before trusting the hint to evict.
		q = RebuildQueue(cfg)
	}
	finalBits, finalQueue := trySet(cfg, bitsDiff, rawKey, makeValue, bits, q)
	return finalBits, finalQueue.ToPersisted(codec.MaxPersistedQueueLen)
}

// queueCoversLiveEntries reports whether q's length plausibly accounts
// for every entry currently live in cfg's store. It is a cheap proxy,
// not an exact membership check: a queue long enough to cover every
// live entry is trusted as-is, since `trySet`'s own retry loop already
// falls back to a rebuild once such a queue runs dry.
func queueCoversLiveEntries(cfg rt.Config, q *Queue) bool {
	count, err := crawler.Crawl(cfg.Store, cfg.Name, func(_, _ string, acc int) int {
		return acc + 1
	}, 0)
	if err != nil {
		return true
	}
	return q.Len() >= count
}

func trySet(cfg rt.Config, bitsDiff int64, rawKey string, makeValue MakeValue, bits int64, q *Queue) (int64, *Queue) {
	if bits+bitsDiff <= cfg.MaxBits {
		value := makeValue(bits, q.ToPersisted(codec.MaxPersistedQueueLen))
		if err := cfg.Store.Set(rawKey, value); err == nil {
			return bits + bitsDiff, q
		}
	}

	victimKey, victimBits, ok := q.PopFront()
	if !ok {
		rebuilt := RebuildQueue(cfg)
		if rebuilt.Len() == 0 {
			cfg.Logger.Debug().Str("cache", cfg.Name).Msg("eviction queue exhausted after rebuild, treating cache as empty")
			if cfg.Overflow != nil {
				cfg.Overflow()
			}
			return 0, NewQueue()
		}
		return trySet(cfg, bitsDiff, rawKey, makeValue, bits, rebuilt)
	}

	cfg.Logger.Debug().Str("cache", cfg.Name).Str("victim", victimKey).Msg("evicting")
	_ = cfg.Store.Remove(victimKey)
	remaining := bits - victimBits
	if remaining < 0 {
		remaining = 0
	}
	return trySet(cfg, bitsDiff, rawKey, makeValue, remaining, q)
}

type rebuildItem struct {
	key  string
	bits int64
	t    int64
}

// RebuildQueue crawls every entry of this cache, decodes only the
// timestamp, and returns a fresh Queue ordered oldest-first. Entries
// whose envelope does not decode are removed during the crawl
// (spec.md §4.7.1).
func RebuildQueue(cfg rt.Config) *Queue {
	items, err := crawler.Crawl(cfg.Store, cfg.Name, func(rawKey, rawValue string, acc []rebuildItem) []rebuildItem {
		entry, decodeErr := codec.DecodeEntry(rawValue)
		if decodeErr != nil {
			_ = cfg.Store.Remove(rawKey)
			return acc
		}
		return append(acc, rebuildItem{
			key:  rawKey,
			bits: codec.Size(rawKey, rawValue),
			t:    entry.T,
		})
	}, nil)
	if err != nil {
		return NewQueue()
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].t < items[j].t })

	q := NewQueue()
	for _, it := range items {
		q.PushBack(it.key, it.bits)
	}
	return q
}
