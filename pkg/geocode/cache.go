package geocode

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/geo/s2"
)

// reverseCellLevel puts nearby clicks (roughly 30-40 m) in one cache cell.
const reverseCellLevel = 18

// cellToken returns the S2 cell token used as the reverse cache key.
func cellToken(lat, lon float64) string {
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lon)).Parent(reverseCellLevel).ToToken()
}

// ReverseCache is an in-memory LRU of reverse-geocode results with TTL
// expiration, keyed by S2 cell.
type ReverseCache struct {
	mu         sync.Mutex
	lst        *list.List
	entries    map[string]*list.Element
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
	hits       atomic.Int64
	misses     atomic.Int64
}

type reverseEntry struct {
	key     string
	result  ReverseResult
	expires time.Time
}

// CacheStats contains cache performance statistics.
type CacheStats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// NewReverseCache creates a cache holding at most maxEntries results for ttl.
func NewReverseCache(maxEntries int, ttl time.Duration) *ReverseCache {
	return &ReverseCache{
		lst:        list.New(),
		entries:    make(map[string]*list.Element),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Get returns the cached result for the cell containing (lat, lon).
func (c *ReverseCache) Get(lat, lon float64) (*ReverseResult, bool) {
	key := cellToken(lat, lon)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	it := e.Value.(*reverseEntry)
	if !c.now().Before(it.expires) {
		c.lst.Remove(e)
		delete(c.entries, key)
		c.misses.Add(1)
		return nil, false
	}
	c.lst.MoveToFront(e)
	c.hits.Add(1)
	r := it.result
	return &r, true
}

// Put stores r for the cell containing (lat, lon), evicting the least
// recently used entry when full.
func (c *ReverseCache) Put(lat, lon float64, r *ReverseResult) {
	if r == nil || c.maxEntries <= 0 {
		return
	}
	key := cellToken(lat, lon)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &reverseEntry{key: key, result: *r, expires: c.now().Add(c.ttl)}
	if e, ok := c.entries[key]; ok {
		e.Value = entry
		c.lst.MoveToFront(e)
		return
	}
	c.entries[key] = c.lst.PushFront(entry)
	for c.lst.Len() > c.maxEntries {
		back := c.lst.Back()
		delete(c.entries, back.Value.(*reverseEntry).key)
		c.lst.Remove(back)
	}
}

// Stats returns cache counters.
func (c *ReverseCache) Stats() CacheStats {
	c.mu.Lock()
	n := c.lst.Len()
	c.mu.Unlock()
	return CacheStats{Entries: n, Hits: c.hits.Load(), Misses: c.misses.Load()}
}
