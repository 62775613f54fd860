package embeddir

import "strings"

// Dir is one embedded directory: its path relative to the embedded root
// (empty for the root itself) and its immediate children. Like File it is an
// immutable value built once by generated tables.
type Dir struct {
	path  string
	dirs  []Dir
	files []File
}

// NewDir constructs a Dir. The slices are retained, not copied; generated
// tables hand over freshly built literals and never touch them again.
func NewDir(path string, dirs []Dir, files []File) Dir {
	return Dir{path: path, dirs: dirs, files: files}
}

// Path returns the directory's path relative to the embedded root. The root
// directory has an empty path.
func (d Dir) Path() string { return d.path }

// Dirs returns the immediate child directories.
func (d Dir) Dirs() []Dir { return d.dirs }

// Files returns the immediate child files.
func (d Dir) Files() []File { return d.files }

// GetFile looks up a file anywhere under d by its full relative slash path.
func (d Dir) GetFile(path string) (File, bool) {
	for _, f := range d.files {
		if f.path == path {
			return f, true
		}
	}
	for _, sub := range d.dirs {
		if sub.contains(path) {
			return sub.GetFile(path)
		}
	}
	return File{}, false
}

// GetDir looks up a directory anywhere under d by its full relative slash
// path.
func (d Dir) GetDir(path string) (Dir, bool) {
	for _, sub := range d.dirs {
		if sub.path == path {
			return sub, true
		}
		if sub.contains(path) {
			return sub.GetDir(path)
		}
	}
	return Dir{}, false
}

// contains reports whether path can only live under this directory.
func (d Dir) contains(path string) bool {
	if d.path == "" {
		return true
	}
	return strings.HasPrefix(path, d.path+"/")
}

// Walk visits every file under d depth-first, directories in table order.
// Returning an error from fn stops the walk and propagates the error.
func (d Dir) Walk(fn func(File) error) error {
	for _, f := range d.files {
		if err := fn(f); err != nil {
			return err
		}
	}
	for _, sub := range d.dirs {
		if err := sub.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// CountFiles returns the number of files anywhere under d.
func (d Dir) CountFiles() int {
	n := len(d.files)
	for _, sub := range d.dirs {
		n += sub.CountFiles()
	}
	return n
}
