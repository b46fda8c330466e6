// Package runsort implements the RunSorter pipeline adapter (C4): read
// every line of an unsorted run file into memory, sort it with the
// domain comparator (C2), and write the result to a new ".sorted" path
// before deleting the original. Grounded in sorter.go's sortChunk, which
// does this same read-all/sort/flush/delete-original sequence for one
// CSV chunk file.
package runsort

import (
	"bufio"
	"fmt"

	"github.com/bendreyea/Sorter/internal/chunksort"
	"github.com/bendreyea/Sorter/internal/lineio"
	"github.com/bendreyea/Sorter/internal/linekey"
	"github.com/bendreyea/Sorter/internal/tempstore"
)

// Sorter reads one unsorted run, sorts it in memory, and writes a sorted
// counterpart, deleting the unsorted input on success.
type Sorter struct {
	Store        *tempstore.Store
	ReadBufBytes int
	WriteBufBytes int
}

// Stats reports what one Sort call did, used by pipeline.Reporter.
type Stats struct {
	LinesIn  int64
	LinesOut int64 // after blank-line drop, per spec §9 Open Question 3
}

// Sort reads unsortedPath, sorts its lines, writes them to a new
// ".sorted" path, deletes unsortedPath, and returns the new path.
//
// Blank lines (empty after newline/CR stripping) are dropped here rather
// than at the Splitter, so the Splitter's byte-exact roundtrip property
// (P4) is preserved for the unsorted stage while the sorted output still
// satisfies the uniform blank-drop decision from spec §9 OQ3.
func (s *Sorter) Sort(unsortedPath string) (sortedPath string, stats Stats, err error) {
	lines, stats, err := s.readLines(unsortedPath)
	if err != nil {
		return "", stats, err
	}

	keys := make([]linekey.Key, len(lines))
	for i, line := range lines {
		keys[i] = linekey.Parse(line)
	}
	chunksort.Sort(keys)

	sortedPath = s.Store.NewSortedPath()
	if err := s.writeKeys(sortedPath, keys); err != nil {
		return "", stats, err
	}

	s.Store.DeleteBestEffort(unsortedPath)
	return sortedPath, stats, nil
}

func (s *Sorter) readLines(path string) ([][]byte, Stats, error) {
	r, err := s.Store.OpenCompressed(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("runsort: open %s: %w", path, err)
	}
	defer r.Close()

	bufSize := s.ReadBufBytes
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	br := bufio.NewReaderSize(r, bufSize)

	var lines [][]byte
	var stats Stats
	for {
		line, eof, err := lineio.ReadLine(br)
		if err != nil {
			return nil, stats, fmt.Errorf("runsort: read %s: %w", path, err)
		}
		if len(line) == 0 && eof {
			break
		}
		stats.LinesIn++
		if len(line) > 0 {
			// line is borrowed from br's internal buffer; copy it so it
			// survives past the next ReadLine call.
			owned := make([]byte, len(line))
			copy(owned, line)
			lines = append(lines, owned)
		}
		if eof {
			break
		}
	}
	stats.LinesOut = int64(len(lines))
	return lines, stats, nil
}

func (s *Sorter) writeKeys(path string, keys []linekey.Key) error {
	w, err := s.Store.CreateCompressed(path)
	if err != nil {
		return fmt.Errorf("runsort: create %s: %w", path, err)
	}

	bufSize := s.WriteBufBytes
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	bw := bufio.NewWriterSize(w, bufSize)

	for _, k := range keys {
		if err := lineio.WriteLine(bw, k.Data); err != nil {
			_ = w.Close()
			return fmt.Errorf("runsort: write %s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		_ = w.Close()
		return fmt.Errorf("runsort: flush %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("runsort: close %s: %w", path, err)
	}
	return nil
}
