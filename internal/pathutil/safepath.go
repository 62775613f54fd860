// Package pathutil has small helpers for validating request and table paths.
package pathutil

import "strings"

// HasDotSegments reports whether any path segment is "." or "..".
func HasDotSegments(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return true
		}
	}
	return false
}

// IsCleanRelative reports whether p is a non-empty slash-separated relative
// path with no dot segments, no backslashes, and no NUL bytes. This is the
// shape embedded table paths must have.
func IsCleanRelative(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") || strings.HasSuffix(p, "/") {
		return false
	}
	if strings.Contains(p, "\\") || strings.Contains(p, "\x00") || strings.Contains(p, "//") {
		return false
	}
	return !HasDotSegments(p)
}
