package tempstore

import (
	"io"
	"testing"

	"github.com/bendreyea/Sorter/internal/vfs"
)

func TestRoundTripCompressed(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(vfs.OS{}, dir)
	if err != nil {
		t.Fatal(err)
	}

	path := store.NewSortedPath()
	w, err := store.CreateCompressed(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte("hello\nworld\n" + string(make([]byte, 5000)))
	if _, err := w.Write(want); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := store.OpenCompressed(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(want) {
		t.Fatalf("roundtrip mismatch: got %d bytes, want %d", len(got), len(want))
	}
}

func TestDistinctPathsByKind(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(vfs.OS{}, dir)
	if err != nil {
		t.Fatal(err)
	}
	u := store.NewUnsortedPath()
	s := store.NewSortedPath()
	m := store.NewMergePath()
	if u == s || s == m || u == m {
		t.Fatalf("expected distinct paths, got %q %q %q", u, s, m)
	}
}
