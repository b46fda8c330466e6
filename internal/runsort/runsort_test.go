package runsort

import (
	"bufio"
	"path/filepath"
	"testing"

	"github.com/bendreyea/Sorter/internal/lineio"
	"github.com/bendreyea/Sorter/internal/tempstore"
	"github.com/bendreyea/Sorter/internal/vfs"
)

func writeUnsorted(t *testing.T, store *tempstore.Store, lines ...string) string {
	t.Helper()
	path := store.NewUnsortedPath()
	w, err := store.CreateCompressed(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range lines {
		if err := lineio.WriteLine(w, []byte(l)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func readAllLines(t *testing.T, store *tempstore.Store, path string) []string {
	t.Helper()
	r, err := store.OpenCompressed(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	br := bufio.NewReaderSize(r, 4096)
	var out []string
	for {
		line, eof, err := lineio.ReadLine(br)
		if err != nil {
			t.Fatal(err)
		}
		if len(line) > 0 {
			out = append(out, string(line))
		}
		if eof {
			break
		}
	}
	return out
}

func TestSortOrdersLinesAndDeletesOriginal(t *testing.T) {
	dir := t.TempDir()
	fs := vfs.OS{}
	store, err := tempstore.Open(fs, filepath.Join(dir, "tmp"))
	if err != nil {
		t.Fatal(err)
	}

	unsorted := writeUnsorted(t, store,
		"3. banana",
		"1. apple",
		"2. cherry",
	)

	s := &Sorter{Store: store}
	sortedPath, stats, err := s.Sort(unsorted)
	if err != nil {
		t.Fatal(err)
	}
	if stats.LinesIn != 3 || stats.LinesOut != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	got := readAllLines(t, store, sortedPath)
	want := []string{"1. apple", "2. cherry", "3. banana"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if _, err := fs.OpenRead(unsorted); err == nil {
		t.Fatalf("expected unsorted run to be deleted")
	}
}

func TestSortDropsBlankLines(t *testing.T) {
	dir := t.TempDir()
	fs := vfs.OS{}
	store, err := tempstore.Open(fs, filepath.Join(dir, "tmp"))
	if err != nil {
		t.Fatal(err)
	}

	unsorted := writeUnsorted(t, store, "2. b", "", "1. a", "")

	s := &Sorter{Store: store}
	sortedPath, stats, err := s.Sort(unsorted)
	if err != nil {
		t.Fatal(err)
	}
	if stats.LinesOut != 2 {
		t.Fatalf("expected blank lines dropped, got LinesOut=%d", stats.LinesOut)
	}

	got := readAllLines(t, store, sortedPath)
	if len(got) != 2 || got[0] != "1. a" || got[1] != "2. b" {
		t.Fatalf("got %v", got)
	}
}
