package embeddir

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"sort"
	"time"
)

// FS returns a read-only io/fs view over an embedded tree, so standard
// tooling (http.ServeFileFS, fs.WalkDir, template.ParseFS) works against
// generated tables. File contents are resolved at Open time; in embeddev
// builds a failed disk read surfaces as a *fs.PathError.
func FS(root Dir) fs.FS { return fsAdapter{root: root} }

type fsAdapter struct {
	root Dir
}

var (
	_ fs.ReadDirFS  = fsAdapter{}
	_ fs.ReadFileFS = fsAdapter{}
	_ fs.StatFS     = fsAdapter{}
)

func (a fsAdapter) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return &dirHandle{dir: a.root, name: ".", entries: dirEntries(a.root)}, nil
	}
	if f, ok := a.root.GetFile(name); ok {
		b, err := f.Contents()
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return &fileHandle{
			Reader: bytes.NewReader(b),
			info:   infoForFile(f, int64(len(b))),
		}, nil
	}
	if d, ok := a.root.GetDir(name); ok {
		return &dirHandle{dir: d, name: name, entries: dirEntries(d)}, nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (a fsAdapter) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return dirEntries(a.root), nil
	}
	d, ok := a.root.GetDir(name)
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	return dirEntries(d), nil
}

func (a fsAdapter) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	f, ok := a.root.GetFile(name)
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}
	b, err := f.Contents()
	if err != nil {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: err}
	}
	// callers own the returned slice and may scribble on it; never hand out
	// the table's backing bytes
	return bytes.Clone(b), nil
}

func (a fsAdapter) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return dirInfo{name: "."}, nil
	}
	if f, ok := a.root.GetFile(name); ok {
		b, err := f.Contents()
		if err != nil {
			return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
		}
		return infoForFile(f, int64(len(b))), nil
	}
	if d, ok := a.root.GetDir(name); ok {
		return dirInfo{name: path.Base(d.path)}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

// dirEntries lists a directory's immediate children sorted by name, as
// fs.ReadDir requires.
func dirEntries(d Dir) []fs.DirEntry {
	out := make([]fs.DirEntry, 0, len(d.dirs)+len(d.files))
	for _, sub := range d.dirs {
		out = append(out, dirEntry{name: path.Base(sub.path), dir: &sub})
	}
	for _, f := range d.files {
		out = append(out, dirEntry{name: path.Base(f.path), file: &f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

type dirEntry struct {
	name string
	file *File
	dir  *Dir
}

func (e dirEntry) Name() string { return e.name }
func (e dirEntry) IsDir() bool  { return e.dir != nil }

func (e dirEntry) Type() fs.FileMode {
	if e.dir != nil {
		return fs.ModeDir
	}
	return 0
}

// Info resolves file contents so sizes are accurate in both build modes; in
// embeddev builds that can mean a (cached) disk read.
func (e dirEntry) Info() (fs.FileInfo, error) {
	if e.dir != nil {
		return dirInfo{name: e.name}, nil
	}
	b, err := e.file.Contents()
	if err != nil {
		return nil, err
	}
	return infoForFile(*e.file, int64(len(b))), nil
}

type fileHandle struct {
	*bytes.Reader
	info fileInfo
}

func (h *fileHandle) Stat() (fs.FileInfo, error) { return h.info, nil }
func (h *fileHandle) Close() error               { return nil }

type dirHandle struct {
	dir     Dir
	name    string
	entries []fs.DirEntry
	offset  int
}

func (h *dirHandle) Stat() (fs.FileInfo, error) { return dirInfo{name: path.Base(h.name)}, nil }
func (h *dirHandle) Close() error               { return nil }

func (h *dirHandle) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: h.name, Err: fs.ErrInvalid}
}

func (h *dirHandle) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := h.entries[h.offset:]
	if n <= 0 {
		h.offset = len(h.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	h.offset += n
	return rest[:n], nil
}

func infoForFile(f File, size int64) fileInfo {
	fi := fileInfo{name: path.Base(f.path), size: size}
	if md, ok := f.Metadata(); ok {
		fi.modTime = md.Modified
	}
	return fi
}

type fileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (i fileInfo) Name() string       { return i.name }
func (i fileInfo) Size() int64        { return i.size }
func (i fileInfo) Mode() fs.FileMode  { return 0o444 }
func (i fileInfo) ModTime() time.Time { return i.modTime }
func (i fileInfo) IsDir() bool        { return false }
func (i fileInfo) Sys() any           { return nil }

type dirInfo struct {
	name string
}

func (i dirInfo) Name() string       { return i.name }
func (i dirInfo) Size() int64        { return 0 }
func (i dirInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o555 }
func (i dirInfo) ModTime() time.Time { return time.Time{} }
func (i dirInfo) IsDir() bool        { return true }
func (i dirInfo) Sys() any           { return nil }
