package merge

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bendreyea/Sorter/internal/lineio"
	"github.com/bendreyea/Sorter/internal/linekey"
	"github.com/bendreyea/Sorter/internal/tempstore"
)

// source streams parsed keys from one sorted run file, one line at a
// time, so a merge never holds more than one line per input in memory.
type source struct {
	closer io.Closer
	br     *bufio.Reader
	done   bool
}

func openSource(store *tempstore.Store, path string, bufBytes int) (*source, error) {
	r, err := store.OpenCompressed(path)
	if err != nil {
		return nil, fmt.Errorf("merge: open %s: %w", path, err)
	}
	if bufBytes <= 0 {
		bufBytes = 32 * 1024
	}
	return &source{closer: r, br: bufio.NewReaderSize(r, bufBytes)}, nil
}

// next returns the next key in the source, or ok=false once exhausted.
func (s *source) next() (key linekey.Key, ok bool, err error) {
	if s.done {
		return linekey.Key{}, false, nil
	}
	line, eof, err := lineio.ReadLine(s.br)
	if err != nil {
		return linekey.Key{}, false, fmt.Errorf("merge: read: %w", err)
	}
	if len(line) == 0 && eof {
		s.done = true
		return linekey.Key{}, false, nil
	}
	if eof {
		s.done = true
	}
	owned := make([]byte, len(line))
	copy(owned, line)
	return linekey.Parse(owned), true, nil
}

func (s *source) close() { s.closer.Close() }

// mergeItem is one live (key, source index) pair in the heap.
type mergeItem struct {
	key    linekey.Key
	source int
}

// minHeap is a manual min-heap over mergeItem, avoiding the interface
// boxing container/heap would impose on the hot per-line path (the same
// rationale as sorter.go's manualHeap).
type minHeap []mergeItem

func (h minHeap) less(i, j int) bool { return linekey.Compare(h[i].key, h[j].key) < 0 }

func (h *minHeap) push(x mergeItem) {
	*h = append(*h, x)
	h.up(len(*h) - 1)
}

func (h *minHeap) pop() mergeItem {
	old := *h
	n := len(old)
	x := old[0]
	old[0] = old[n-1]
	*h = old[:n-1]
	h.down(0, n-1)
	return x
}

func (h *minHeap) up(j int) {
	for {
		i := (j - 1) / 2
		if i == j || !h.less(j, i) {
			break
		}
		(*h)[i], (*h)[j] = (*h)[j], (*h)[i]
		j = i
	}
}

func (h *minHeap) down(i0, n int) {
	i := i0
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 {
			break
		}
		j := j1
		if j2 := j1 + 1; j2 < n && h.less(j2, j1) {
			j = j2
		}
		if !h.less(j, i) {
			break
		}
		(*h)[i], (*h)[j] = (*h)[j], (*h)[i]
		i = j
	}
}

// streamMerge performs an N-way streaming merge of inputs (N ≥ 1) into a
// freshly created TempStore run file, per spec §4.5.1. It never buffers
// more than one line per input plus the heap bookkeeping, so memory use
// is O(len(inputs)), independent of the inputs' sizes.
func streamMerge(store *tempstore.Store, inputs []string, readBufBytes, writeBufBytes int) (string, int64, error) {
	if len(inputs) == 0 {
		return "", 0, fmt.Errorf("merge: no inputs")
	}

	sources := make([]*source, len(inputs))
	defer func() {
		for _, s := range sources {
			if s != nil {
				s.close()
			}
		}
	}()

	for i, path := range inputs {
		s, err := openSource(store, path, readBufBytes)
		if err != nil {
			return "", 0, err
		}
		sources[i] = s
	}

	h := make(minHeap, 0, len(sources))
	for i, s := range sources {
		key, ok, err := s.next()
		if err != nil {
			return "", 0, err
		}
		if ok {
			h.push(mergeItem{key: key, source: i})
		}
	}

	outPath := store.NewMergePath()
	w, err := store.CreateCompressed(outPath)
	if err != nil {
		return "", 0, fmt.Errorf("merge: create %s: %w", outPath, err)
	}

	if writeBufBytes <= 0 {
		writeBufBytes = 32 * 1024
	}
	bw := bufio.NewWriterSize(w, writeBufBytes)

	var lines int64
	for len(h) > 0 {
		item := h.pop()
		if err := lineio.WriteLine(bw, item.key.Data); err != nil {
			_ = w.Close()
			return "", 0, fmt.Errorf("merge: write %s: %w", outPath, err)
		}
		lines++

		key, ok, err := sources[item.source].next()
		if err != nil {
			_ = w.Close()
			return "", 0, err
		}
		if ok {
			h.push(mergeItem{key: key, source: item.source})
		}
	}

	if err := bw.Flush(); err != nil {
		_ = w.Close()
		return "", 0, fmt.Errorf("merge: flush %s: %w", outPath, err)
	}
	if err := w.Close(); err != nil {
		return "", 0, fmt.Errorf("merge: close %s: %w", outPath, err)
	}
	return outPath, lines, nil
}
