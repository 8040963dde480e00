package cache_test

import (
	"strings"
	"testing"

	"scenelang/cache"
	"scenelang/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashOf(s string) identity.ContentHash {
	return identity.ContentHashFromString(s)
}

func TestNewCacheIsEmpty(t *testing.T) {
	c := cache.New(100)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.Len())
}

func TestInsertGet(t *testing.T) {
	c := cache.New(10)
	h := hashOf("<rect/>")
	c.Insert(h, "<rect/>")
	svg, ok := c.Get(h)
	require.True(t, ok)
	assert.Equal(t, "<rect/>", svg)
}

func TestGetMiss(t *testing.T) {
	c := cache.New(10)
	_, ok := c.Get(hashOf("<nonexistent/>"))
	assert.False(t, ok)
}

func TestInsertOverwritesSameHash(t *testing.T) {
	c := cache.New(10)
	h := hashOf("<test/>")
	c.Insert(h, "<old/>")
	c.Insert(h, "<new/>")
	svg, ok := c.Get(h)
	require.True(t, ok)
	assert.Equal(t, "<new/>", svg)
}

func TestMultipleEntries(t *testing.T) {
	c := cache.New(10)
	h1, h2, h3 := hashOf("<a/>"), hashOf("<b/>"), hashOf("<c/>")
	c.Insert(h1, "<a/>")
	c.Insert(h2, "<b/>")
	c.Insert(h3, "<c/>")
	assert.Equal(t, 3, c.Len())
}

func TestEvictsLowestHitEntry(t *testing.T) {
	c := cache.New(2)
	h1, h2, h3 := hashOf("<rect/>"), hashOf("<circle/>"), hashOf("<ellipse/>")

	c.Insert(h1, "<rect/>")
	c.Insert(h2, "<circle/>")
	c.Get(h2) // bump h2's hit count above h1's

	c.Insert(h3, "<ellipse/>")

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(h1)
	assert.False(t, ok, "h1 had fewer hits than h2 and should have been evicted")
	_, ok = c.Get(h2)
	assert.True(t, ok)
}

func TestEvictionPicksLowestAcrossSeveralAccessedEntries(t *testing.T) {
	c := cache.New(3)
	h1, h2, h3, h4 := hashOf("<1/>"), hashOf("<2/>"), hashOf("<3/>"), hashOf("<4/>")

	c.Insert(h1, "<1/>")
	c.Insert(h2, "<2/>")
	c.Insert(h3, "<3/>")

	c.Get(h1)
	c.Get(h1)
	c.Get(h3)
	c.Get(h3)
	c.Get(h3)

	c.Insert(h4, "<4/>")

	_, ok := c.Get(h2)
	assert.False(t, ok, "h2 has the fewest hits and should be evicted")
	_, ok = c.Get(h1)
	assert.True(t, ok)
	_, ok = c.Get(h3)
	assert.True(t, ok)
}

func TestClearEmptiesCache(t *testing.T) {
	c := cache.New(10)
	c.Insert(hashOf("<x/>"), "<x/>")
	c.Insert(hashOf("<y/>"), "<y/>")
	require.Equal(t, 2, c.Len())
	c.Clear()
	assert.True(t, c.IsEmpty())
}

func TestGetOrInsertComputesOnceThenCaches(t *testing.T) {
	c := cache.New(10)
	h := hashOf("<path/>")
	computed := false

	svg := c.GetOrInsert(h, func() string {
		computed = true
		return "<path/>"
	})
	assert.True(t, computed)
	assert.Equal(t, "<path/>", svg)

	computed = false
	svg2 := c.GetOrInsert(h, func() string {
		computed = true
		return "<path/>"
	})
	assert.False(t, computed, "second call should resolve from cache")
	assert.Equal(t, "<path/>", svg2)
}

func TestGetOrInsertOnlyComputesOnceAcrossManyCalls(t *testing.T) {
	c := cache.New(10)
	h := hashOf("<complex/>")
	calls := 0
	for i := 0; i < 5; i++ {
		c.GetOrInsert(h, func() string {
			calls++
			return "<computed/>"
		})
	}
	assert.Equal(t, 1, calls)
}

func TestStatsReportsEntriesHitsAndBytes(t *testing.T) {
	c := cache.New(10)
	h1, h2 := hashOf("<test1/>"), hashOf("<test2/>")
	c.Insert(h1, "<test1/>")
	c.Insert(h2, "<test2test2/>")

	c.Get(h1)
	c.Get(h1)
	c.Get(h2)

	stats := c.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.GreaterOrEqual(t, stats.TotalHits, uint32(3))
	assert.Greater(t, stats.TotalBytes, 0)
}

func TestStatsOnEmptyCache(t *testing.T) {
	c := cache.New(10)
	stats := c.Stats()
	assert.Equal(t, 0, stats.Entries)
	assert.Equal(t, uint32(0), stats.TotalHits)
	assert.Equal(t, 0, stats.TotalBytes)
}

func TestCacheSizeOneEvictsPreviousOnInsert(t *testing.T) {
	c := cache.New(1)
	h1, h2 := hashOf("<a/>"), hashOf("<b/>")
	c.Insert(h1, "<a/>")
	c.Insert(h2, "<b/>")
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(h2)
	assert.True(t, ok)
}

func TestCacheLargeEntry(t *testing.T) {
	c := cache.New(10)
	large := strings.Repeat("x", 10000)
	h := hashOf(large)
	c.Insert(h, large)
	svg, ok := c.Get(h)
	require.True(t, ok)
	assert.Equal(t, large, svg)
}

func TestNewRendererStartsEmpty(t *testing.T) {
	r := cache.NewRenderer()
	assert.Equal(t, 0, r.Stats().Entries)
}

func TestRendererRenderElementCachesResult(t *testing.T) {
	r := cache.NewRendererWithCapacity(100)
	h := hashOf(`<path d="M 0 0"/>`)

	computed := false
	svg := r.RenderElement(h, func() string {
		computed = true
		return `<path d="M 0 0"/>`
	})
	assert.True(t, computed)
	assert.Equal(t, `<path d="M 0 0"/>`, svg)

	computed = false
	svg2 := r.RenderElement(h, func() string {
		computed = true
		return `<path d="M 0 0"/>`
	})
	assert.False(t, computed)
	assert.Equal(t, `<path d="M 0 0"/>`, svg2)
}

func TestRendererInvalidateClearsCache(t *testing.T) {
	r := cache.NewRenderer()
	h := hashOf("<test/>")
	r.RenderElement(h, func() string { return "<test/>" })
	require.Equal(t, 1, r.Stats().Entries)
	r.Invalidate()
	assert.Equal(t, 0, r.Stats().Entries)
}

func TestSnapshotStatsCarriesRenderID(t *testing.T) {
	r := cache.NewRenderer()
	r.RenderElement(hashOf("<a/>"), func() string { return "<a/>" })
	snap := r.SnapshotStats("render-123")
	assert.Equal(t, "render-123", snap.RenderID)
	assert.Equal(t, 1, snap.Entries)
}
