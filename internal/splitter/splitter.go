// Package splitter streams an input file and emits size-bounded,
// line-aligned unsorted run files (C3). It never reads more than one
// read-buffer's worth of the input at a time, matching scanner.go's
// streaming-first posture even though the teacher itself mmaps whole CSV
// files — the base spec (§4.3) explicitly forbids that here.
package splitter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/bendreyea/Sorter/internal/linescan"
	"github.com/bendreyea/Sorter/internal/lineio"
	"github.com/bendreyea/Sorter/internal/tempstore"
	"github.com/bendreyea/Sorter/internal/vfs"
)

// Splitter cuts an input file into run files of at least ChunkBytes each
// (except the final run, which holds whatever input remains), never
// cutting mid-line (spec §4.3 R1/R2/R3).
type Splitter struct {
	FS           vfs.FS
	Store        *tempstore.Store
	ChunkBytes   int64
	ReadBufBytes int
}

// Split streams inputPath and calls emit once per completed run file, in
// input order. emit receives ownership of the run file at path; on error
// from emit, Split stops and returns that error (the caller is expected to
// have already consumed or cleaned up any runs from prior emit calls).
func (s *Splitter) Split(ctx context.Context, inputPath string, emit func(path string) error) error {
	f, err := s.FS.OpenRead(inputPath)
	if err != nil {
		return fmt.Errorf("splitter: open input: %w", err)
	}
	defer f.Close()

	bufSize := s.ReadBufBytes
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}

	br := bufio.NewReaderSize(f, bufSize)
	if err := lineio.StripBOM(br); err != nil {
		return fmt.Errorf("splitter: strip BOM: %w", err)
	}

	var (
		pendingPath   string
		pendingWriter io.WriteCloser
		currentBytes  int64
	)

	closeAndEmit := func() error {
		if pendingWriter == nil {
			return nil
		}
		err := pendingWriter.Close()
		pendingWriter = nil
		if err != nil {
			return fmt.Errorf("splitter: close run file: %w", err)
		}
		return emit(pendingPath)
	}

	buf := make([]byte, bufSize)
	for {
		if err := ctx.Err(); err != nil {
			_ = closeAndEmit() // best effort; caller will clean up on cancellation
			return err
		}

		n, readErr := br.Read(buf)
		if n > 0 {
			data := buf[:n]
			pos := 0
			for pos < len(data) {
				if pendingWriter == nil {
					pendingPath = s.Store.NewUnsortedPath()
					w, err := s.Store.CreateCompressed(pendingPath)
					if err != nil {
						return fmt.Errorf("splitter: create run file: %w", err)
					}
					pendingWriter = w
					currentBytes = 0
				}

				idx := linescan.IndexNewline(data[pos:])
				var end int
				if idx == -1 {
					end = len(data)
				} else {
					end = pos + idx + 1
				}

				chunk := data[pos:end]
				if _, err := pendingWriter.Write(chunk); err != nil {
					return fmt.Errorf("splitter: write run file: %w", err)
				}
				currentBytes += int64(len(chunk))
				pos = end

				if idx != -1 && currentBytes >= s.ChunkBytes {
					if err := closeAndEmit(); err != nil {
						return err
					}
				}
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return fmt.Errorf("splitter: read input: %w", readErr)
		}
	}

	return closeAndEmit()
}
