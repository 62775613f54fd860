// Package embeddir models files whose contents are compiled into the binary
// at generation time, usable identically whether the bytes were baked in ahead
// of time or are read from disk on demand.
//
// The default build resolves content from the bytes baked into the generated
// tables: no I/O, no failure path, safe for unlimited concurrent readers.
// Building with -tags embeddev switches every File in the process to a
// development strategy that reads the original file from disk on first access
// and memoizes the bytes in a process-wide cache, so editing a source file is
// visible on the next access without regenerating the tables. The cache is
// append-only for the life of the process: there is no eviction and no
// invalidation, the first successful read of a path wins.
//
// Tables are produced by cmd/embedgen (go:generate friendly). A generated
// tree can also be viewed through a read-only io/fs adapter, see FS.
package embeddir
