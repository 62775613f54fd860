package embeddir

import (
	"fmt"
	"os"
	"path/filepath"
)

// resolver is the content-resolution strategy for a File. The strategy is
// picked once per process by build configuration (see strategy_embed.go and
// strategy_dev.go) rather than branching inside every accessor.
type resolver interface {
	resolve(f *File) ([]byte, error)
}

// staticBytes returns the bytes baked into the generated tables. Production
// strategy: no I/O and no failure path, trivially safe for concurrent use.
type staticBytes struct{}

func (staticBytes) resolve(f *File) ([]byte, error) {
	return f.contents, nil
}

// cachedDiskRead reads the original file from disk on first access and
// memoizes the bytes in cache. Development strategy only.
type cachedDiskRead struct {
	cache *ContentCache
}

func (r cachedDiskRead) resolve(f *File) ([]byte, error) {
	return r.cache.loadOrRead(f.path, func() ([]byte, error) {
		real := f.root + string(os.PathSeparator) + filepath.FromSlash(f.path)
		b, err := os.ReadFile(real)
		if err != nil {
			return nil, fmt.Errorf("embeddir: read %s: %w", real, err)
		}
		return b, nil
	})
}
