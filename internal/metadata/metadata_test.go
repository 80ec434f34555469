package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajatkb/viscache/internal/codec"
	"github.com/rajatkb/viscache/internal/crawler"
	"github.com/rajatkb/viscache/internal/rt"
	"github.com/rajatkb/viscache/logging"
	"github.com/rajatkb/viscache/store/memstore"
)

func testConfig(name string, maxBits int64) rt.Config {
	return rt.Config{
		Name:    name,
		MaxBits: maxBits,
		Store:   memstore.New(),
		Logger:  logging.Discard(),
	}
}

func TestLoadAbsentReturnsEmpty(t *testing.T) {
	cfg := testConfig("c", 1000)
	m := Load(cfg, 3)
	assert.Equal(t, Empty(cfg, 3), m)
}

func TestLoadDecodeFailureReturnsEmpty(t *testing.T) {
	cfg := testConfig("c", 1000)
	require.NoError(t, cfg.Store.Set(crawler.MetadataKey("c"), "not json"))

	m := Load(cfg, 3)
	assert.Equal(t, Empty(cfg, 3), m)
}

func TestLoadReturnsPersistedRecord(t *testing.T) {
	cfg := testConfig("c", 1000)
	raw, err := codec.EncodeMetadata(codec.Metadata{Version: 2, Bits: 50, Equeue: []codec.EqueueEntry{{Key: "x", Bits: 50}}, Policy: "LRU"})
	require.NoError(t, err)
	require.NoError(t, cfg.Store.Set(crawler.MetadataKey("c"), raw))

	m := Load(cfg, 2)
	assert.Equal(t, 2, m.Version)
	assert.Equal(t, int64(50), m.Bits)
}

func TestPersistDoesNotChargeItsOwnBytesToBits(t *testing.T) {
	cfg := testConfig("c", 1000)
	bits, equeue := Persist(cfg, 1, 42, []codec.EqueueEntry{{Key: "x", Bits: 42}})
	assert.Equal(t, int64(42), bits)
	assert.Equal(t, []codec.EqueueEntry{{Key: "x", Bits: 42}}, equeue)

	m := Load(cfg, 1)
	assert.Equal(t, int64(42), m.Bits)
}
