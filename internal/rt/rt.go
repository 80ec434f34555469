// Package rt holds the small slice of CacheDescriptor every internal
// package needs — the cache's name, its byte budget, the store it
// talks to, and a logger — without those packages importing the root
// package (which holds the generic Encode/Decode machinery) and
// creating an import cycle.
package rt

import (
	"github.com/phuslu/log"

	"github.com/rajatkb/viscache/store"
)

// Config is the runtime context shared by the Metadata Manager,
// Migrator, and Eviction Engine.
type Config struct {
	Name    string
	MaxBits int64
	Store   store.Adapter
	Logger  *log.Logger
	// Overflow is invoked by the Eviction Engine when a write could
	// not be accommodated even after a full queue rebuild. May be nil.
	Overflow func()
}
