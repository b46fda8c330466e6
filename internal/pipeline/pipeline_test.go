package pipeline

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/bendreyea/Sorter/internal/config"
	"github.com/bendreyea/Sorter/internal/lineio"
	"github.com/bendreyea/Sorter/internal/linekey"
	"github.com/bendreyea/Sorter/internal/vfs"
)

func writeInputFile(t *testing.T, dir string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, "input.txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	for _, l := range lines {
		if _, err := f.WriteString(l + "\n"); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func readOutputLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	br := bufio.NewReaderSize(f, 4096)
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

func domainSort(lines []string) []string {
	keys := make([]linekey.Key, len(lines))
	for i, l := range lines {
		keys[i] = linekey.Parse([]byte(l))
	}
	sort.SliceStable(keys, func(i, j int) bool { return linekey.Compare(keys[i], keys[j]) < 0 })
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k.Data)
	}
	return out
}

// TestPipelineScenarioA runs spec §8's "basic mixed" end-to-end example.
func TestPipelineScenarioA(t *testing.T) {
	input := []string{
		"5. Banana", "3. Cat", "2. Apple", "123. Pineapple",
		"32. Cherry is the best", "1. Apple", "5. Banana",
		"4. Dog", "15. Mango Juice", "6. Elephant",
	}
	want := []string{
		"1. Apple", "2. Apple", "5. Banana", "5. Banana",
		"3. Cat", "32. Cherry is the best", "4. Dog",
		"6. Elephant", "15. Mango Juice", "123. Pineapple",
	}

	dir := t.TempDir()
	inputPath := writeInputFile(t, dir, input)
	outputPath := filepath.Join(dir, "output.txt")

	cfg := config.Config{
		Input:          inputPath,
		Output:         outputPath,
		ChunkBytes:     64,
		MergeFanout:    2,
		MaxConcurrency: 2,
		TempDir:        filepath.Join(dir, "tmp"),
		ReadBufBytes:   4096,
		WriteBufBytes:  4096,
		Polyphase:      true,
	}

	p, err := New(cfg, vfs.OS{})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := readOutputLines(t, outputPath)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPipelinePermutationAndMonotonicity(t *testing.T) {
	words := []string{"zebra", "apple", "Mango", "banana", "APPLE", "cherry"}
	lines := make([]string, 0, 500)
	for i := 0; i < 500; i++ {
		w := words[i%len(words)]
		lines = append(lines, intToPrefix(i)+". "+w)
	}

	dir := t.TempDir()
	inputPath := writeInputFile(t, dir, lines)
	outputPath := filepath.Join(dir, "output.txt")

	cfg := config.Config{
		Input:          inputPath,
		Output:         outputPath,
		ChunkBytes:     512,
		MergeFanout:    3,
		MaxConcurrency: 3,
		TempDir:        filepath.Join(dir, "tmp"),
		ReadBufBytes:   4096,
		WriteBufBytes:  4096,
		Polyphase:      false,
	}

	p, err := New(cfg, vfs.OS{})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := readOutputLines(t, outputPath)
	want := domainSort(lines)

	// P1: permutation.
	if len(got) != len(want) {
		t.Fatalf("line count mismatch: got %d, want %d", len(got), len(want))
	}
	gotSorted := append([]string(nil), got...)
	wantSorted := append([]string(nil), want...)
	sort.Strings(gotSorted)
	sort.Strings(wantSorted)
	for i := range wantSorted {
		if gotSorted[i] != wantSorted[i] {
			t.Fatalf("multiset mismatch at %d: got %v want %v", i, gotSorted[i], wantSorted[i])
		}
	}

	// P2: monotonicity under the domain comparator.
	for i := 0; i+1 < len(got); i++ {
		a := linekey.Parse([]byte(got[i]))
		b := linekey.Parse([]byte(got[i+1]))
		if linekey.Compare(a, b) > 0 {
			t.Fatalf("output not monotone at %d: %q > %q", i, got[i], got[i+1])
		}
	}

	// P7: temp directory left clean on success.
	entries, err := os.ReadDir(cfg.TempDir)
	if err == nil && len(entries) != 0 {
		t.Fatalf("expected temp dir to be cleaned, found %d entries", len(entries))
	}
}

func intToPrefix(i int) string {
	return string(rune('0' + i%10))
}
