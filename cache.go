package embeddir

import "sync"

// ContentCache is an append-only memoization table from file path to file
// contents, used by the development resolution strategy. Entries are never
// removed or replaced in practice; once inserted, bytes stay for the rest of
// the process. Unbounded growth is acceptable because this table only exists
// during local development iteration.
type ContentCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewContentCache returns an empty cache. The development strategy normally
// uses the shared process-wide cache; constructing one directly is for tests
// and for callers that want resolution isolated from the rest of the process.
func NewContentCache() *ContentCache {
	return &ContentCache{entries: make(map[string][]byte)}
}

// processCache is the single cache shared by every dev-mode File in the
// process. sync.OnceValue guarantees exactly one table is created even when
// multiple goroutines race on first content access.
var processCache = sync.OnceValue(NewContentCache)

// Lookup returns the cached bytes for path, if present. No I/O.
func (c *ContentCache) Lookup(path string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[path]
	return b, ok
}

// Insert stores contents under path. Overwrites are not expected (accessors
// check before inserting under the same lock) but are harmless if they occur.
func (c *ContentCache) Insert(path string, contents []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = contents
}

// Len reports how many paths have been resolved into the cache.
func (c *ContentCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// loadOrRead returns the cached bytes for path, calling read exactly once to
// populate a missing entry. The lock is held across the whole
// check-then-read-then-insert sequence: two goroutines racing on a
// never-before-seen path cannot both hit the disk, the second simply observes
// the first one's insert. That serializes all first-time reads through one
// lock, which is fine for a development-only path. A failed read inserts
// nothing and the error is returned as-is.
func (c *ContentCache) loadOrRead(path string, read func() ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.entries[path]; ok {
		return b, nil
	}
	b, err := read()
	if err != nil {
		return nil, err
	}
	c.entries[path] = b
	return b, nil
}
