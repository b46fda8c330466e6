// Package tempstore provides unique temp-file naming, atomic move to a
// final path, best-effort cleanup, and LZ4-framed read/write for every
// run file the pipeline spills to disk (C7). The LZ4 framing and pooled
// buffered reader/writer are lifted directly from sorter.go's
// flushChunk/kWayMerge (bufWriterPool, bufReaderPool, lz4.NewWriter over
// the raw file).
package tempstore

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/pierrec/lz4/v4"

	"github.com/bendreyea/Sorter/internal/vfs"
)

// Kind tags which stage of the pipeline produced a temp file, per spec §4.7.
type Kind int

const (
	KindUnsorted Kind = iota
	KindSorted
	KindMerged
)

func (k Kind) ext() string {
	switch k {
	case KindUnsorted:
		return ".unsorted"
	case KindSorted:
		return ".sorted"
	case KindMerged:
		return ".merged"
	default:
		panic("tempstore: unknown kind")
	}
}

var (
	writerPool = sync.Pool{New: func() any { return bufio.NewWriterSize(nil, 64*1024) }}
	readerPool = sync.Pool{New: func() any { return bufio.NewReaderSize(nil, 40*1024) }}
)

// Store hands out uniquely-named temp paths under dir and frames their
// contents with LZ4 compression. Path numbers come from pathCounter,
// which is process-wide and shared by every Store, per spec §4.7/§9
// ("Global mutable state").
type Store struct {
	fs  vfs.FS
	dir string
}

// pathCounter numbers every temp path handed out in this process.
var pathCounter int64

// Open creates dir if absent and returns a Store rooted there.
func Open(fs vfs.FS, dir string) (*Store, error) {
	if err := fs.MkdirAll(dir); err != nil {
		return nil, fmt.Errorf("tempstore: create %s: %w", dir, err)
	}
	return &Store{fs: fs, dir: dir}, nil
}

func (s *Store) NewUnsortedPath() string { return s.newPath(KindUnsorted) }
func (s *Store) NewSortedPath() string   { return s.newPath(KindSorted) }
func (s *Store) NewMergePath() string    { return s.newPath(KindMerged) }

func (s *Store) newPath(k Kind) string { return s.NewPath(k.ext()) }

// NewPath returns a process-unique path under the store directory with
// the given suffix, for staging files outside the usual unsorted/sorted/
// merged kinds (e.g. the uncompressed final-output staging file the
// pipeline moves into place).
func (s *Store) NewPath(suffix string) string {
	n := atomic.AddInt64(&pathCounter, 1)
	return filepath.Join(s.dir, fmt.Sprintf("run_%d%s", n, suffix))
}

// MoveAtomic publishes src as dst, per the vfs.FS move contract.
func (s *Store) MoveAtomic(src, dst string, overwrite bool) error {
	return s.fs.Move(src, dst, overwrite)
}

// DeleteBestEffort removes path, ignoring a missing file.
func (s *Store) DeleteBestEffort(path string) {
	s.fs.Delete(path)
}

// RemoveDir deletes the whole temp directory, best-effort. Intended for
// teardown after a successful run (spec §4.7); a cancelled run should
// leave temp files in place for debugging instead of calling this.
func (s *Store) RemoveDir() {
	s.fs.RemoveAll(s.dir)
}

// CreateCompressed opens path for writing and wraps it in a pooled
// bufio.Writer over an lz4.Writer, matching sorter.go's flushChunk.
func (s *Store) CreateCompressed(path string) (io.WriteCloser, error) {
	f, err := s.fs.OpenWrite(path)
	if err != nil {
		return nil, err
	}
	lw := lz4.NewWriter(f)
	bw := writerPool.Get().(*bufio.Writer)
	bw.Reset(lw)
	return &compressedWriter{file: f, lz: lw, buf: bw}, nil
}

// OpenCompressed opens path for reading and wraps it in a pooled
// bufio.Reader over an lz4.Reader, matching sorter.go's kWayMerge.
func (s *Store) OpenCompressed(path string) (io.ReadCloser, error) {
	f, err := s.fs.OpenRead(path)
	if err != nil {
		return nil, err
	}
	lr := lz4.NewReader(f)
	br := readerPool.Get().(*bufio.Reader)
	br.Reset(lr)
	return &compressedReader{file: f, buf: br}, nil
}

type compressedWriter struct {
	file io.WriteCloser
	lz   *lz4.Writer
	buf  *bufio.Writer
}

func (c *compressedWriter) Write(p []byte) (int, error) { return c.buf.Write(p) }

func (c *compressedWriter) Close() error {
	flushErr := c.buf.Flush()
	c.buf.Reset(nil)
	writerPool.Put(c.buf)

	lzErr := c.lz.Close()
	fileErr := c.file.Close()

	if flushErr != nil {
		return flushErr
	}
	if lzErr != nil {
		return lzErr
	}
	return fileErr
}

type compressedReader struct {
	file io.ReadCloser
	buf  *bufio.Reader
}

func (c *compressedReader) Read(p []byte) (int, error) { return c.buf.Read(p) }

func (c *compressedReader) Close() error {
	c.buf.Reset(nil)
	readerPool.Put(c.buf)
	return c.file.Close()
}
