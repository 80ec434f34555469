// Package crawler scans every raw key belonging to a named cache and
// folds it through a caller-supplied stepper, the way the Migrator and
// the Eviction Engine's Queue Rebuilder both need to.
package crawler

import (
	"strings"

	"github.com/rajatkb/viscache/store"
)

// Stepper folds one (rawKey, rawValue) pair into an accumulator. It
// must not panic; a stepper that wants to remove a bad entry does so
// itself via the store it closes over.
type Stepper[A any] func(rawKey, rawValue string, acc A) A

// Crawl lists every raw key in s, keeps only those belonging to name
// (prefix "#"+name+"#", explicitly excluding the bare metadata key
// "#"+name which has no trailing "#" — spec.md §4.4), fetches each
// value, and folds it through step. A single key's fetch failing, or
// its value being absent by the time Crawl gets to it, is tolerated:
// that key is simply skipped, never aborting the whole crawl.
func Crawl[A any](s store.Adapter, name string, step Stepper[A], initial A) (A, error) {
	prefix := "#" + name + "#"

	keys, err := s.Keys()
	if err != nil {
		return initial, err
	}

	acc := initial
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		v, ok, err := s.Get(k)
		if err != nil || !ok {
			continue
		}
		acc = step(k, v, acc)
	}
	return acc, nil
}

// UserKey strips the "#"+name+"#" prefix from a raw key, returning
// the caller-facing key. It assumes rawKey was produced by
// QualifiedKey for the same name.
func UserKey(name, rawKey string) string {
	return strings.TrimPrefix(rawKey, "#"+name+"#")
}

// QualifiedKey builds the raw store key for a cache entry.
func QualifiedKey(name, userKey string) string {
	return "#" + name + "#" + userKey
}

// MetadataKey builds the raw store key for a cache's metadata record.
func MetadataKey(name string) string {
	return "#" + name
}
