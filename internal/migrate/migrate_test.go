package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajatkb/viscache/internal/codec"
	"github.com/rajatkb/viscache/internal/crawler"
	"github.com/rajatkb/viscache/internal/rt"
	"github.com/rajatkb/viscache/logging"
	"github.com/rajatkb/viscache/store/memstore"
	"github.com/rajatkb/viscache/value"
)

func put(t *testing.T, cfg rt.Config, userKey string, ts int64, v value.Value) {
	t.Helper()
	raw, err := codec.EncodeEntry(codec.Entry{T: ts, V: v})
	require.NoError(t, err)
	require.NoError(t, cfg.Store.Set(crawler.QualifiedKey(cfg.Name, userKey), raw))
}

func TestRunAppliesComposedUpgrade(t *testing.T) {
	s := memstore.New()
	cfg := rt.Config{Name: "c", MaxBits: 100000, Store: s, Logger: logging.Discard()}

	put(t, cfg, "k1", 1, value.Number(1))
	put(t, cfg, "k2", 2, value.Number(2))

	addOne := Edge{From: 1, To: 2, Upgrade: func(_ string, old value.Value) (value.Value, bool) {
		return value.Number(old.Number + 1), true
	}}
	timesTwo := Edge{From: 2, To: 3, Upgrade: func(_ string, old value.Value) (value.Value, bool) {
		return value.Number(old.Number * 2), true
	}}

	bits, equeue := Run(cfg, 1, 3, []Edge{addOne, timesTwo})
	assert.Positive(t, bits)
	assert.Len(t, equeue, 2)

	raw, ok, err := s.Get(crawler.QualifiedKey("c", "k1"))
	require.NoError(t, err)
	require.True(t, ok)
	entry, err := codec.DecodeEntry(raw)
	require.NoError(t, err)
	assert.Equal(t, float64(4), entry.V.Number) // (1+1)*2
}

func TestRunDropsEntryWhenUpgradeReturnsFalse(t *testing.T) {
	s := memstore.New()
	cfg := rt.Config{Name: "c", MaxBits: 100000, Store: s, Logger: logging.Discard()}
	put(t, cfg, "gone", 1, value.Number(1))

	drop := Edge{From: 1, To: 2, Upgrade: func(_ string, _ value.Value) (value.Value, bool) {
		return value.Value{}, false
	}}
	Run(cfg, 1, 2, []Edge{drop})

	_, ok, err := s.Get(crawler.QualifiedKey("c", "gone"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRunNoPathClearsCache(t *testing.T) {
	s := memstore.New()
	cfg := rt.Config{Name: "c", MaxBits: 100000, Store: s, Logger: logging.Discard()}
	put(t, cfg, "k1", 1, value.Number(1))

	bits, equeue := Run(cfg, 1, 5, []Edge{{From: 2, To: 5, Upgrade: func(_ string, v value.Value) (value.Value, bool) { return v, true }}})
	assert.Equal(t, int64(0), bits)
	assert.Empty(t, equeue)

	_, ok, err := s.Get(crawler.QualifiedKey("c", "k1"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRunDropsNewestEntriesWhenBudgetExceeded(t *testing.T) {
	s := memstore.New()
	// "old" and "new" each encode to an identically-sized envelope, so
	// a budget of exactly one envelope's worth keeps only the older
	// entry once replay order is oldest-first.
	entryBits := codec.Size(crawler.QualifiedKey("c", "old"), `{"t":1,"v":"a"}`)
	cfg := rt.Config{Name: "c", MaxBits: entryBits, Store: s, Logger: logging.Discard()}
	put(t, cfg, "old", 1, value.String("a"))
	put(t, cfg, "new", 2, value.String("b"))

	identity := Edge{From: 1, To: 2, Upgrade: func(_ string, v value.Value) (value.Value, bool) { return v, true }}
	bits, equeue := Run(cfg, 1, 2, []Edge{identity})

	assert.Equal(t, entryBits, bits)
	require.Len(t, equeue, 1)
	assert.Equal(t, crawler.QualifiedKey("c", "old"), equeue[0].Key)

	_, ok, err := s.Get(crawler.QualifiedKey("c", "old"))
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = s.Get(crawler.QualifiedKey("c", "new"))
	require.NoError(t, err)
	assert.False(t, ok)
}
