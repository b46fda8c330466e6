// Package config holds the pipeline's tunable knobs and their defaults
// (spec §6), built from a flag.FlagSet the same way the teacher's
// IndexerConfig is built in main.go's runIndex.
package config

import (
	"flag"
	"os"
	"runtime"
)

// Config holds every option the sort pipeline recognizes.
type Config struct {
	Input         string
	Output        string
	ChunkBytes    int64
	MergeFanout   int
	MaxConcurrency int
	TempDir       string
	ReadBufBytes  int
	WriteBufBytes int
	Polyphase     bool
	Summary       bool
	Verbose       bool
}

// Defaults per spec §6's configuration table.
const (
	DefaultChunkBytes    = 64 * 1024 * 1024
	DefaultMergeFanout   = 128
	DefaultReadBufBytes  = 40 * 1024
	DefaultWriteBufBytes = 64 * 1024
)

// DefaultMaxConcurrency is min(cores, 4), per spec §6.
func DefaultMaxConcurrency() int {
	if n := runtime.NumCPU(); n < 4 {
		return n
	}
	return 4
}

// RegisterFlags binds cfg's fields to fs, following the teacher's
// runIndex: plain flag.FlagSet values, no external flag library.
func RegisterFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Input, "input", "", "input file path")
	fs.StringVar(&cfg.Output, "output", "", "output file path")
	fs.Int64Var(&cfg.ChunkBytes, "chunk-bytes", DefaultChunkBytes, "target split size per run, in bytes")
	fs.IntVar(&cfg.MergeFanout, "merge-fanout", DefaultMergeFanout, "max sorted inputs consumed per merge pass")
	fs.IntVar(&cfg.MaxConcurrency, "max-concurrency", DefaultMaxConcurrency(), "number of RunSorter/Merger workers")
	fs.StringVar(&cfg.TempDir, "temp-dir", os.TempDir(), "directory for transient run files")
	fs.IntVar(&cfg.ReadBufBytes, "read-buf-bytes", DefaultReadBufBytes, "per-reader buffer size, in bytes")
	fs.IntVar(&cfg.WriteBufBytes, "write-buf-bytes", DefaultWriteBufBytes, "per-writer buffer size, in bytes")
	fs.BoolVar(&cfg.Polyphase, "polyphase", true, "use the polyphase merge strategy instead of k-way")
	fs.BoolVar(&cfg.Summary, "summary", false, "write a JSON run summary next to the output file")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "print periodic progress to stderr")
}
