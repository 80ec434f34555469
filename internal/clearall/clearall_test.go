package clearall

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

func TestRunRemovesEntriesAndOtherCachesSurvive(t *testing.T) {
	s := memstore.New()
	require.NoError(t, s.Set(crawler.QualifiedKey("a", "x"), "1"))
	require.NoError(t, s.Set(crawler.QualifiedKey("a", "y"), "2"))
	require.NoError(t, s.Set(crawler.MetadataKey("a"), "old meta"))
	require.NoError(t, s.Set(crawler.QualifiedKey("b", "z"), "3"))

	cfg := rt.Config{Name: "a", MaxBits: 1000, Store: s, Logger: logging.Discard()}
	Run(cfg, 5)

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{crawler.MetadataKey("a"), crawler.QualifiedKey("b", "z")}, keys)

	raw, ok, err := s.Get(crawler.MetadataKey("a"))
	require.NoError(t, err)
	require.True(t, ok)
	m, err := codec.DecodeMetadata(raw)
	require.NoError(t, err)
	assert.Equal(t, 5, m.Version)
	assert.Equal(t, int64(0), m.Bits)
	assert.Empty(t, m.Equeue)
}
