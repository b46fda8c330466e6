// Package vfs defines the filesystem collaborator contract consumed by the
// sort engine (spec §6) and an os-backed implementation of it. The core
// packages depend only on this interface so tests can substitute a fake
// without touching disk; the teacher talks to os directly everywhere
// (sorter.go, indexer.go), so the concrete implementation here is a thin,
// literal wrapper rather than a reinvention.
package vfs

import "io"

// FS is the filesystem collaborator contract.
type FS interface {
	// OpenRead opens path for sequential buffered reading.
	OpenRead(path string) (io.ReadCloser, error)
	// OpenWrite opens (creating/truncating) path for buffered writing.
	OpenWrite(path string) (io.WriteCloser, error)
	// Delete removes path. Absent files are not an error.
	Delete(path string)
	// Move atomically renames src to dst, overwriting dst if allowed.
	// Falls back to copy+delete when src and dst are on different
	// filesystems.
	Move(src, dst string, overwrite bool) error
	// MkdirAll creates dir and any missing parents.
	MkdirAll(dir string) error
	// RemoveAll removes dir and everything under it, best-effort.
	RemoveAll(dir string)
	// Size reports the size in bytes of path.
	Size(path string) (int64, error)
}
