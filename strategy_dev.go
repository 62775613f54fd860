//go:build embeddev

package embeddir

// embeddev builds resolve content from disk through the shared process cache,
// so edits to source files show up without regenerating the tables.
func defaultResolver() resolver { return cachedDiskRead{cache: processCache()} }
