// Package cache implements the statement cache: a concurrent map from a
// statement's token shape (its text with every literal body erased) to
// the physical.Plan already computed for that shape, so repeated queries
// that differ only in literal values skip re-planning. Each statement is
// still tokenized and parsed on every call.
package cache

import (
	"sync"

	"github.com/agildata/zeroproxy/physical"
)

// StatementCache is safe for concurrent use by multiple connection
// goroutines. A race between two goroutines computing the same shape's
// plan is resolved last-writer-wins: both plans are equivalent, so which
// one ends up cached doesn't affect correctness, only which is reused.
type StatementCache struct {
	mu      sync.RWMutex
	entries map[string]*physical.Plan
}

func New() *StatementCache {
	return &StatementCache{entries: map[string]*physical.Plan{}}
}

// Get returns the cached plan for shape, if any.
func (c *StatementCache) Get(shape string) (*physical.Plan, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	plan, ok := c.entries[shape]
	return plan, ok
}

// Put stores plan under shape, overwriting whatever is already there.
func (c *StatementCache) Put(shape string, plan *physical.Plan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[shape] = plan
}

// Len reports the number of cached shapes, mainly for tests and metrics.
func (c *StatementCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
