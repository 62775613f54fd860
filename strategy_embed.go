//go:build !embeddev

package embeddir

// Default builds resolve content from the baked bytes.
func defaultResolver() resolver { return staticBytes{} }
