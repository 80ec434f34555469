// Package migrate implements the Migrator: finding an upgrade path
// through the migration DAG, applying it across every entry of a
// cache, and rebuilding the byte total and eviction queue.
package migrate

import (
	"sort"

	"github.com/rajatkb/viscache/internal/clearall"
	"github.com/rajatkb/viscache/internal/codec"
	"github.com/rajatkb/viscache/internal/crawler"
	"github.com/rajatkb/viscache/internal/dag"
	"github.com/rajatkb/viscache/internal/evict"
	"github.com/rajatkb/viscache/internal/rt"
	"github.com/rajatkb/viscache/value"
)

// Upgrade transforms one entry's intermediate value when crossing a
// single schema version edge. Returning ok=false drops the entry.
type Upgrade func(userKey string, old value.Value) (value.Value, bool)

// Edge is one user-declared migration step, From < To.
type Edge struct {
	From, To int
	Upgrade  Upgrade
}

type bufferedEntry struct {
	rawKey string
	t      int64
	value  value.Value
}

// Run migrates every entry of this cache from fromVersion to
// toVersion. If no path exists in the DAG, the cache is fully cleared
// (spec.md §4.6 step 1) and (0, an empty queue) is returned. Otherwise every
// entry is rewritten by the composed upgrade chain, oldest first, and
// writes stop the instant the next entry would exceed the byte budget
// — the remaining, newer entries are silently dropped.
func Run(cfg rt.Config, fromVersion, toVersion int, edges []Edge) (int64, []codec.EqueueEntry) {
	dagEdges := make([]dag.Edge[Upgrade], len(edges))
	for i, e := range edges {
		dagEdges[i] = dag.Edge[Upgrade]{From: e.From, To: e.To, Payload: e.Upgrade}
	}
	graph := dag.New(dagEdges, fromVersion, toVersion)

	path, ok := graph.ShortestPath(fromVersion, toVersion)
	if !ok {
		cfg.Logger.Warn().Str("cache", cfg.Name).Int("from", fromVersion).Int("to", toVersion).
			Msg("no migration path found, clearing cache")
		clearall.Run(cfg, toVersion)
		return 0, []codec.EqueueEntry{}
	}

	upgrade := compose(path)

	buffered, err := crawler.Crawl(cfg.Store, cfg.Name, func(rawKey, rawValue string, acc []bufferedEntry) []bufferedEntry {
		entry, decodeErr := codec.DecodeEntry(rawValue)
		if decodeErr != nil {
			_ = cfg.Store.Remove(rawKey)
			return acc
		}
		next, present := upgrade(crawler.UserKey(cfg.Name, rawKey), entry.V)
		if !present {
			_ = cfg.Store.Remove(rawKey)
			return acc
		}
		return append(acc, bufferedEntry{rawKey: rawKey, t: entry.T, value: next})
	}, nil)
	if err != nil {
		return 0, []codec.EqueueEntry{}
	}

	sort.SliceStable(buffered, func(i, j int) bool { return buffered[i].t < buffered[j].t })

	var bits int64
	q := evict.NewQueue()
	dropFrom := len(buffered)
	for i, b := range buffered {
		raw, encErr := codec.EncodeEntry(codec.Entry{T: b.t, V: b.value})
		if encErr != nil {
			continue
		}
		entryBits := codec.Size(b.rawKey, raw)
		if bits+entryBits > cfg.MaxBits {
			dropFrom = i
			break
		}
		if setErr := cfg.Store.Set(b.rawKey, raw); setErr != nil {
			dropFrom = i
			break
		}
		bits += entryBits
		q.PushBack(b.rawKey, entryBits)
	}
	for _, b := range buffered[dropFrom:] {
		_ = cfg.Store.Remove(b.rawKey)
	}

	return bits, q.ToPersisted(codec.MaxPersistedQueueLen)
}

// compose chains a shortest-path payload list into one upgrade:
// each step only runs if the previous one returned present.
func compose(path []Upgrade) Upgrade {
	return func(userKey string, v value.Value) (value.Value, bool) {
		cur := v
		for _, step := range path {
			next, ok := step(userKey, cur)
			if !ok {
				return value.Value{}, false
			}
			cur = next
		}
		return cur, true
	}
}
