package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajatkb/viscache/store/memstore"
)

func TestCrawlOnlyOwnKeys(t *testing.T) {
	s := memstore.New()
	require.NoError(t, s.Set(QualifiedKey("a", "x"), "1"))
	require.NoError(t, s.Set(QualifiedKey("a", "y"), "2"))
	require.NoError(t, s.Set(QualifiedKey("b", "z"), "3"))
	require.NoError(t, s.Set(MetadataKey("a"), "meta"))

	seen := map[string]string{}
	got, err := Crawl(s, "a", func(rawKey, rawValue string, acc map[string]string) map[string]string {
		acc[rawKey] = rawValue
		return acc
	}, seen)
	require.NoError(t, err)

	assert.Len(t, got, 2)
	assert.Equal(t, "1", got[QualifiedKey("a", "x")])
	assert.Equal(t, "2", got[QualifiedKey("a", "y")])
	assert.NotContains(t, got, MetadataKey("a"))
	assert.NotContains(t, got, QualifiedKey("b", "z"))
}

func TestCrawlExcludesBareMetadataKey(t *testing.T) {
	s := memstore.New()
	require.NoError(t, s.Set(MetadataKey("a"), "meta"))

	count := 0
	count, err := Crawl(s, "a", func(rawKey, rawValue string, acc int) int {
		return acc + 1
	}, count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestQualifiedKeyAndUserKeyRoundTrip(t *testing.T) {
	rawKey := QualifiedKey("cache-name", "user-key")
	assert.Equal(t, "user-key", UserKey("cache-name", rawKey))
}

func TestMetadataKey(t *testing.T) {
	assert.Equal(t, "#cache-name", MetadataKey("cache-name"))
}
