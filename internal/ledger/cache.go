package ledger

import "sync"

// DefaultCacheSize bounds a StatementCache unless the caller says
// otherwise.
const DefaultCacheSize = 10

// StatementCache memoizes reconstruction results by filter key. It is
// an explicit object owned by the service that uses it, never ambient
// package state, so tests stay deterministic and nothing leaks across
// requests. Capacity is fixed; inserting past it evicts the
// oldest-inserted entry. Cached results are immutable once stored.
type StatementCache struct {
	mu       sync.Mutex
	capacity int
	order    []string
	items    map[string]Result
}

// NewStatementCache builds a cache bounded to the given capacity.
// Non-positive capacities fall back to DefaultCacheSize.
func NewStatementCache(capacity int) *StatementCache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &StatementCache{
		capacity: capacity,
		items:    make(map[string]Result, capacity),
	}
}

// Get returns the cached result for key, if present.
func (c *StatementCache) Get(key string) (Result, bool) {
	if c == nil {
		return Result{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.items[key]
	return res, ok
}

// Put stores a result under key, evicting the oldest-inserted entry
// when the cache is full. Re-putting an existing key refreshes the
// value without consuming a slot.
func (c *StatementCache) Put(key string, res Result) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[key]; exists {
		c.items[key] = res
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}
	c.order = append(c.order, key)
	c.items[key] = res
}

// Flush drops every cached entry, keeping the capacity.
func (c *StatementCache) Flush() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = c.order[:0]
	c.items = make(map[string]Result, c.capacity)
}

// Len reports the number of cached entries.
func (c *StatementCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
