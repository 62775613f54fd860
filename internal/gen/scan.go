// Package gen scans a directory tree and produces embeddir tables from it,
// either as an in-memory tree (for the preview server) or as generated Go
// source (for embedgen).
package gen

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/keithlinneman/embeddir"
	"github.com/keithlinneman/embeddir/internal/log"
	"github.com/keithlinneman/embeddir/internal/pathutil"
	"github.com/keithlinneman/embeddir/internal/xerrors"
)

const defaultReadConcurrency = 8

type ScanOptions struct {
	Logger log.Logger

	// Root is the directory to embed. Made absolute before scanning so the
	// generated tables can reconstruct on-disk locations in dev builds.
	Root string

	// WithMetadata captures file modification times into the tables.
	WithMetadata bool

	// Placeholder skips reading file contents entirely. Tables generated this
	// way are only usable by embeddev builds, which resolve from disk.
	Placeholder bool

	// ReadConcurrency bounds parallel file reads. 0 means the default.
	ReadConcurrency int

	// ExcludeNames skips any file or directory whose base name matches
	// exactly (e.g. ".git", ".DS_Store").
	ExcludeNames []string
}

// Tree is the scanned form of a directory: everything the emitter and the
// preview server need, before any embeddir values exist.
type Tree struct {
	Root     string // absolute
	BundleID string
	Dir      DirNode
}

type DirNode struct {
	Path  string // relative slash path, "" for the root
	Dirs  []DirNode
	Files []FileNode
}

type FileNode struct {
	Path     string // relative slash path
	Size     int64
	Contents []byte // nil in placeholder scans
	Modified time.Time
}

// Scan walks opts.Root depth-first in lexical order and reads file contents
// with bounded concurrency. The resulting tree is deterministic for a given
// directory state.
func Scan(ctx context.Context, opts ScanOptions) (*Tree, error) {
	L := opts.Logger
	if L == nil {
		L = log.Nop()
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, xerrors.Wrapf(err, "resolve root %s", opts.Root)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, xerrors.Wrapf(err, "stat root %s", root)
	}
	if !info.IsDir() {
		return nil, xerrors.Newf("root %s is not a directory", root)
	}

	excluded := make(map[string]bool, len(opts.ExcludeNames))
	for _, n := range opts.ExcludeNames {
		excluded[n] = true
	}

	start := time.Now()
	tree := &Tree{
		Root:     root,
		BundleID: uuid.NewString(),
		Dir:      DirNode{Path: ""},
	}

	// build structure first; contents are read in a second, parallel pass
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if excluded[d.Name()] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		relSlash := filepath.ToSlash(rel)
		if !pathutil.IsCleanRelative(relSlash) {
			return xerrors.Newf("unusable path %q under %s", relSlash, root)
		}

		if d.IsDir() {
			tree.Dir.insertDir(DirNode{Path: relSlash})
			return nil
		}
		if !d.Type().IsRegular() {
			L.Warn(ctx, "skipping irregular file", "path", relSlash, "mode", d.Type().String())
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return xerrors.Wrapf(err, "stat %s", p)
		}
		fn := FileNode{Path: relSlash, Size: fi.Size()}
		if opts.WithMetadata {
			fn.Modified = fi.ModTime()
		}
		tree.Dir.insertFile(fn)
		return nil
	})
	if err != nil {
		return nil, xerrors.Wrap(err, "walk")
	}

	// no inserts happen after the walk, so node pointers are stable now
	files := tree.Dir.collectFiles(nil)

	if !opts.Placeholder {
		limit := opts.ReadConcurrency
		if limit <= 0 {
			limit = defaultReadConcurrency
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		for _, fn := range files {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(fn.Path)))
				if err != nil {
					return xerrors.Wrapf(err, "read %s", fn.Path)
				}
				fn.Contents = b
				fn.Size = int64(len(b))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	L.Info(ctx, "scan complete",
		"root", root,
		"files", len(files),
		"bundle_id", tree.BundleID,
		"duration", time.Since(start).String(),
	)
	return tree, nil
}

// insertDir places d under the correct parent, assuming parents are walked
// before children (filepath.WalkDir guarantees this).
func (n *DirNode) insertDir(d DirNode) {
	parent := n.findParent(d.Path)
	parent.Dirs = append(parent.Dirs, d)
}

// insertFile places f under the correct parent. It deliberately returns
// nothing: appends here reallocate the Files backing array, so pointers into
// it are only safe to take once the whole structure is built.
func (n *DirNode) insertFile(f FileNode) {
	parent := n.findParent(f.Path)
	parent.Files = append(parent.Files, f)
}

// collectFiles appends a pointer to every file node under n, depth-first.
// Only valid on a fully built tree.
func (n *DirNode) collectFiles(out []*FileNode) []*FileNode {
	for i := range n.Files {
		out = append(out, &n.Files[i])
	}
	for i := range n.Dirs {
		out = n.Dirs[i].collectFiles(out)
	}
	return out
}

func (n *DirNode) findParent(path string) *DirNode {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return n
	}
	dir := path[:idx]
	cur := n
	for cur.Path != dir {
		found := false
		for i := range cur.Dirs {
			sub := &cur.Dirs[i]
			if sub.Path == dir || strings.HasPrefix(dir, sub.Path+"/") {
				cur = sub
				found = true
				break
			}
		}
		if !found {
			// walk order makes this unreachable; guard anyway
			cur.Dirs = append(cur.Dirs, DirNode{Path: dir})
			cur = &cur.Dirs[len(cur.Dirs)-1]
		}
	}
	return cur
}

// LiveDir converts the tree into an embeddir.Dir whose files resolve from
// disk through cache (nil means the shared process cache). This is the
// preview server's view: exactly what an embeddev build of generated tables
// would serve.
func (t *Tree) LiveDir(cache *embeddir.ContentCache) embeddir.Dir {
	return t.Dir.liveDir(t.Root, cache)
}

func (n DirNode) liveDir(root string, cache *embeddir.ContentCache) embeddir.Dir {
	dirs := make([]embeddir.Dir, 0, len(n.Dirs))
	for _, sub := range n.Dirs {
		dirs = append(dirs, sub.liveDir(root, cache))
	}
	files := make([]embeddir.File, 0, len(n.Files))
	for _, fn := range n.Files {
		f := embeddir.NewLive(fn.Path, root, cache)
		if !fn.Modified.IsZero() {
			f = f.WithMetadata(embeddir.Metadata{Modified: fn.Modified})
		}
		files = append(files, f)
	}
	return embeddir.NewDir(n.Path, dirs, files)
}

// StaticDir converts the tree into an embeddir.Dir carrying the scanned
// bytes, the same shape the generated source produces.
func (t *Tree) StaticDir() embeddir.Dir {
	return t.Dir.staticDir(t.Root)
}

func (n DirNode) staticDir(root string) embeddir.Dir {
	dirs := make([]embeddir.Dir, 0, len(n.Dirs))
	for _, sub := range n.Dirs {
		dirs = append(dirs, sub.staticDir(root))
	}
	files := make([]embeddir.File, 0, len(n.Files))
	for _, fn := range n.Files {
		f := embeddir.New(fn.Path, fn.Contents, root)
		if !fn.Modified.IsZero() {
			f = f.WithMetadata(embeddir.Metadata{Modified: fn.Modified})
		}
		files = append(files, f)
	}
	return embeddir.NewDir(n.Path, dirs, files)
}

// CountFiles returns the number of files in the tree.
func (t *Tree) CountFiles() int { return t.Dir.countFiles() }

func (n DirNode) countFiles() int {
	c := len(n.Files)
	for _, sub := range n.Dirs {
		c += sub.countFiles()
	}
	return c
}

// TotalBytes returns the summed size of every file in the tree.
func (t *Tree) TotalBytes() int64 { return t.Dir.totalBytes() }

func (n DirNode) totalBytes() int64 {
	var b int64
	for _, f := range n.Files {
		b += f.Size
	}
	for _, sub := range n.Dirs {
		b += sub.totalBytes()
	}
	return b
}
