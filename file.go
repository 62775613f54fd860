package embeddir

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// File is one embedded file: a relative slash-separated path, the bytes baked
// in at generation time, and the absolute root directory the file was
// embedded from. The path never changes after construction and is the key
// into the shared content cache in development builds.
//
// File is a plain immutable value; copying is cheap and safe.
type File struct {
	path     string
	contents []byte
	root     string
	meta     *Metadata
	res      resolver
}

// New constructs a File. Pure value build, no I/O. Generated tables call this
// for every embedded file; the same call sites compile under both build
// modes, so root is always supplied and the production strategy simply never
// consults it.
func New(path string, contents []byte, root string) File {
	return File{
		path:     path,
		contents: contents,
		root:     root,
		res:      defaultResolver(),
	}
}

// NewLive constructs a File that resolves from disk through cache regardless
// of build mode, with no baked bytes. cache == nil means the shared process
// cache. This is what the preview server uses to serve a directory exactly as
// an embeddev build would, and it lets tests inject a private cache instead
// of depending on process-global state.
func NewLive(path, root string, cache *ContentCache) File {
	if cache == nil {
		cache = processCache()
	}
	return File{
		path: path,
		root: root,
		res:  cachedDiskRead{cache: cache},
	}
}

// Path returns the file's path relative to the embedded root, always
// slash-separated. No failure mode.
func (f File) Path() string { return f.path }

// Contents returns the file's resolved bytes.
//
// In the default build this is the baked bytes: O(1), no error. In embeddev
// builds the shared cache is consulted first; on a miss the original file is
// read whole from disk (root + separator + path) under the cache lock and
// memoized for the rest of the process. A failed read is returned as an
// error, is never retried, and leaves the cache untouched.
//
// Callers must treat the returned slice as read-only.
func (f File) Contents() ([]byte, error) {
	if f.res == nil {
		// zero-value File behaves like the production strategy
		return f.contents, nil
	}
	return f.res.resolve(&f)
}

// ContentsUTF8 returns the resolved contents as text. The second return is
// false when the bytes are not valid UTF-8, or when dev-mode resolution
// fails. Never panics.
func (f File) ContentsUTF8() (string, bool) {
	b, err := f.Contents()
	if err != nil || !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// WithMetadata returns a copy of f carrying md. Attachment is a one-time
// builder step performed at table-generation time; the receiver is a value,
// so anything already holding the original sees it unchanged.
func (f File) WithMetadata(md Metadata) File {
	f.meta = &md
	return f
}

// Metadata returns the attached metadata, if any.
func (f File) Metadata() (Metadata, bool) {
	if f.meta == nil {
		return Metadata{}, false
	}
	return *f.meta, true
}

// Equal reports whether two files have the same path, the same resolved
// contents, and the same metadata. Resolving may populate the dev-mode cache
// as a side effect; a file whose contents cannot be resolved compares
// unequal to everything.
func (f File) Equal(other File) bool {
	if f.path != other.path {
		return false
	}
	fb, err := f.Contents()
	if err != nil {
		return false
	}
	ob, err := other.Contents()
	if err != nil {
		return false
	}
	if !bytes.Equal(fb, ob) {
		return false
	}
	fm, fok := f.Metadata()
	om, ook := other.Metadata()
	if fok != ook {
		return false
	}
	return !fok || fm.Equal(om)
}

// String renders a diagnostic view: the path, the length of the baked
// contents field (never the raw bytes), metadata when attached, and the root
// prefix when present. It performs no I/O and is not used for equality.
func (f File) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "File{path: %q, contents: <%d bytes>", f.path, len(f.contents))
	if f.meta != nil {
		fmt.Fprintf(&b, ", metadata: {accessed: %s, created: %s, modified: %s}",
			f.meta.Accessed.Format("2006-01-02T15:04:05Z07:00"),
			f.meta.Created.Format("2006-01-02T15:04:05Z07:00"),
			f.meta.Modified.Format("2006-01-02T15:04:05Z07:00"))
	}
	if f.root != "" {
		fmt.Fprintf(&b, ", root: %q", f.root)
	}
	b.WriteByte('}')
	return b.String()
}
