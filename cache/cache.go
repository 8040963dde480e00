// Package cache memoizes rendered SVG fragments by content hash, so a diff
// pass that touches only a handful of elements doesn't re-serialize the rest
// of the scene. Eviction is by lowest hit count rather than insertion order:
// a fragment re-requested every frame earns its keep over one inserted and
// never looked at again.
package cache

import "scenelang/identity"

type entry struct {
	svg  string
	hits uint32
}

// RenderCache is a bounded, content-addressed store of rendered SVG
// fragments.
type RenderCache struct {
	entries map[identity.ContentHash]*entry
	maxSize int
}

// New returns a RenderCache holding at most maxSize fragments.
func New(maxSize int) *RenderCache {
	return &RenderCache{entries: make(map[identity.ContentHash]*entry, maxSize), maxSize: maxSize}
}

// Get returns the cached fragment for hash, bumping its hit count, or ""
// and false on a miss.
func (c *RenderCache) Get(hash identity.ContentHash) (string, bool) {
	e, ok := c.entries[hash]
	if !ok {
		return "", false
	}
	e.hits++
	return e.svg, true
}

// Insert stores svg under hash, evicting the lowest-hit entry first if the
// cache is already at capacity.
func (c *RenderCache) Insert(hash identity.ContentHash, svg string) {
	if len(c.entries) >= c.maxSize {
		c.evictLRU()
	}
	c.entries[hash] = &entry{svg: svg, hits: 1}
}

// GetOrInsert returns the cached fragment for hash, computing and storing it
// via render first if absent.
func (c *RenderCache) GetOrInsert(hash identity.ContentHash, render func() string) string {
	if _, ok := c.entries[hash]; !ok {
		c.Insert(hash, render())
	}
	svg, _ := c.Get(hash)
	return svg
}

func (c *RenderCache) evictLRU() {
	var victim identity.ContentHash
	var minHits uint32
	first := true
	for h, e := range c.entries {
		if first || e.hits < minHits {
			victim, minHits = h, e.hits
			first = false
		}
	}
	if !first {
		delete(c.entries, victim)
	}
}

// Clear discards every cached fragment.
func (c *RenderCache) Clear() { c.entries = make(map[identity.ContentHash]*entry, c.maxSize) }

// Len reports the number of cached fragments.
func (c *RenderCache) Len() int { return len(c.entries) }

// IsEmpty reports whether the cache holds no fragments.
func (c *RenderCache) IsEmpty() bool { return len(c.entries) == 0 }

// Stats is a point-in-time snapshot of cache occupancy, for diagnostics.
type Stats struct {
	Entries    int
	TotalHits  uint32
	TotalBytes int
}

// Stats summarizes the cache's current contents.
func (c *RenderCache) Stats() Stats {
	var s Stats
	s.Entries = len(c.entries)
	for _, e := range c.entries {
		s.TotalHits += e.hits
		s.TotalBytes += len(e.svg)
	}
	return s
}

// Renderer wraps a RenderCache with the get-or-compute call pattern a
// serializer actually uses: render each element once per content hash, and
// let repeated hashes across frames resolve from cache.
type Renderer struct {
	cache *RenderCache
}

// NewRenderer returns a Renderer backed by a 1024-entry cache, the default
// capacity for a single open document.
func NewRenderer() *Renderer {
	return &Renderer{cache: New(1024)}
}

// NewRendererWithCapacity returns a Renderer backed by a cache of the given
// capacity.
func NewRendererWithCapacity(size int) *Renderer {
	return &Renderer{cache: New(size)}
}

// RenderElement returns the SVG fragment for hash, invoking render only on a
// cache miss.
func (r *Renderer) RenderElement(hash identity.ContentHash, render func() string) string {
	return r.cache.GetOrInsert(hash, render)
}

// Invalidate clears the entire fragment cache, forcing the next render of
// every element to recompute.
func (r *Renderer) Invalidate() { r.cache.Clear() }

// Stats summarizes the underlying cache's current contents.
func (r *Renderer) Stats() Stats { return r.cache.Stats() }

// StatsSnapshot pairs a Stats reading with the scene.Document.RenderID that
// was current when it was taken, so a long-lived CLI session reporting
// "cache stats" after several render passes can tell which pass an entry's
// hit count belongs to.
type StatsSnapshot struct {
	RenderID string
	Stats
}

// SnapshotStats returns r's current stats tagged with renderID.
func (r *Renderer) SnapshotStats(renderID string) StatsSnapshot {
	return StatsSnapshot{RenderID: renderID, Stats: r.Stats()}
}
