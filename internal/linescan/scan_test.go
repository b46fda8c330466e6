package linescan

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestIndexNewlineMatchesBytesIndexByte(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 500; trial++ {
		n := rng.Intn(200)
		data := make([]byte, n)
		for i := range data {
			data[i] = byte('a' + rng.Intn(26))
		}
		if n > 0 && rng.Intn(3) == 0 {
			data[rng.Intn(n)] = '\n'
		}
		want := bytes.IndexByte(data, '\n')
		got := IndexNewline(data)
		if got != want {
			t.Fatalf("trial %d: IndexNewline(%q) = %d, want %d", trial, data, got, want)
		}
	}
}

func TestIndexNewlineEmpty(t *testing.T) {
	if got := IndexNewline(nil); got != -1 {
		t.Fatalf("IndexNewline(nil) = %d, want -1", got)
	}
}
