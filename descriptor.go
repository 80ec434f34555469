package cache

import (
	"fmt"

	"github.com/phuslu/log"

	"github.com/rajatkb/viscache/internal/migrate"
	"github.com/rajatkb/viscache/internal/rt"
	"github.com/rajatkb/viscache/logging"
	"github.com/rajatkb/viscache/store"
	"github.com/rajatkb/viscache/value"
)

// Policy names the eviction policy a cache runs. Only PolicyLRU is
// implemented; other values are reserved (spec.md §3).
type Policy string

// PolicyLRU evicts the entry with the smallest last-touch time first.
const PolicyLRU Policy = "LRU"

// Migration is one user-declared single-step schema upgrade, an edge
// in the migration DAG. From must be strictly less than To; malformed
// edges are dropped rather than rejected (spec.md §9).
type Migration struct {
	From, To int
	Upgrade  func(userKey string, old value.Value) (value.Value, bool)
}

// Config constructs a CacheDescriptor. Name, Encode, and Decode are
// required; Store is required (spec.md's Design Notes call for the
// store to be an explicit dependency, never a process-wide
// singleton). Migrations, Policy, Overflow, and Logger are optional.
type Config[T any] struct {
	Name      string
	Version   int
	Kilobytes int64

	Encode func(T) (value.Value, error)
	Decode func(value.Value) (T, error)

	Store store.Adapter

	Migrations []Migration
	Policy     Policy
	// Overflow is a fire-and-forget hook invoked when a write could
	// not be accommodated even after eviction. Reserved; may be nil.
	Overflow func()

	Logger *log.Logger

	// Clock overrides the wall-clock source used to timestamp entries
	// on Get/Add. Reserved for tests that need deterministic,
	// monotonically increasing ticks; nil uses time.Now().
	Clock func() int64
}

// Descriptor is a constructed cache, ready for Get/Add/Clear.
// A Descriptor is safe to share across goroutines in the same sense
// spec.md §5 describes for the source: no internal locking is
// performed, concurrent operations on the same Descriptor may
// interleave, and the cache's self-healing properties tolerate that.
type Descriptor[T any] struct {
	cfg        rt.Config
	version    int
	encode     func(T) (value.Value, error)
	decode     func(value.Value) (T, error)
	migrations []migrate.Edge
	clock      func() int64
}

// New validates config and constructs a Descriptor. This is the
// "cache(config) -> CacheDescriptor" pure constructor of spec.md §4.8.
func New[T any](config Config[T]) (*Descriptor[T], error) {
	if config.Name == "" {
		return nil, fmt.Errorf("cache: name must not be empty")
	}
	if config.Version < 0 {
		return nil, fmt.Errorf("cache: version must not be negative")
	}
	if config.Kilobytes < 0 {
		return nil, fmt.Errorf("cache: kilobytes must not be negative")
	}
	if config.Encode == nil || config.Decode == nil {
		return nil, fmt.Errorf("cache: encode and decode are required")
	}
	if config.Store == nil {
		return nil, fmt.Errorf("cache: store is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	edges := make([]migrate.Edge, 0, len(config.Migrations))
	for _, m := range config.Migrations {
		edges = append(edges, migrate.Edge{From: m.From, To: m.To, Upgrade: m.Upgrade})
	}

	return &Descriptor[T]{
		cfg: rt.Config{
			Name:     config.Name,
			MaxBits:  8 * 1024 * config.Kilobytes,
			Store:    config.Store,
			Logger:   logger,
			Overflow: config.Overflow,
		},
		version:    config.Version,
		encode:     config.Encode,
		decode:     config.Decode,
		migrations: edges,
		clock:      config.Clock,
	}, nil
}
