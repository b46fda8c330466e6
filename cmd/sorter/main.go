// Command sorter provides the CLI surface for the external line sort
// engine: sort, generate, and version subcommands, following the
// teacher's main.go command dispatch (a bare os.Args[1] switch, no CLI
// framework) and its setupSignalHandler/handleShutdown shutdown path.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bendreyea/Sorter/internal/config"
	"github.com/bendreyea/Sorter/internal/genline"
	"github.com/bendreyea/Sorter/internal/pipeline"
	"github.com/bendreyea/Sorter/internal/vfs"
)

const (
	version   = "0.1.0"
	buildDate = "2026-07-31"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "sort":
		runSort(os.Args[2:])
	case "generate":
		runGenerate(os.Args[2:])
	case "version":
		fmt.Printf("sorter v%s (%s)\n", version, buildDate)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`sorter - external line sort engine

Usage:
    sorter <command> [arguments]

Commands:
    sort       Sort a line-oriented text file
    generate   Write a synthetic test file
    version    Show version
    help       Show this help

Use "sorter <command> -h" for command-specific options.`)
}

// runSort handles the sort command, mirroring the teacher's runIndex:
// a flag.FlagSet, required-flag validation, then a single call into the
// domain driver with errors reported on stderr and a nonzero exit code.
func runSort(args []string) {
	fs := flag.NewFlagSet("sort", flag.ExitOnError)
	var cfg config.Config
	config.RegisterFlags(fs, &cfg)
	_ = fs.Parse(args)

	if cfg.Input == "" {
		fmt.Fprintln(os.Stderr, "Error: --input is required")
		fs.PrintDefaults()
		os.Exit(1)
	}
	if cfg.Output == "" {
		fmt.Fprintln(os.Stderr, "Error: --output is required")
		fs.PrintDefaults()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := pipeline.New(cfg, vfs.OS{})
	if err != nil {
		reportError(err)
		os.Exit(1)
	}
	if cfg.Verbose {
		p.Reporter = &pipeline.Reporter{Out: os.Stderr}
	}

	var fingerprint string
	if cfg.Summary {
		fingerprint, _ = pipeline.Fingerprint(vfs.OS{}, cfg.Input)
	}

	start := time.Now()
	runErr := p.Run(ctx)
	elapsed := time.Since(start)

	if cfg.Summary {
		summary := pipeline.Summary{
			Input:            cfg.Input,
			Output:           cfg.Output,
			InputFingerprint: fingerprint,
			Elapsed:          elapsed.Round(time.Millisecond).String(),
		}
		st := p.Stats.Snapshot()
		summary.ChunksSplit = st.ChunksSplit
		summary.RunsSorted = st.RunsSorted
		summary.LinesSorted = st.LinesSorted
		summary.MergesPerformed = st.MergesPerformed
		summary.LinesMerged = st.LinesMerged
		summary.BytesPublished = st.BytesPublished

		summaryPath := cfg.Output + ".summary.json"
		if err := summary.WriteJSON(summaryPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write summary: %v\n", err)
		}
	}

	if runErr != nil {
		reportError(runErr)
		os.Exit(1)
	}
}

func reportError(err error) {
	var pe *pipeline.Error
	if errors.As(err, &pe) {
		if pe.RetainedTempPath != "" {
			fmt.Fprintf(os.Stderr, "error: %s: %v (temp file retained at %s)\n", pe.Kind, pe.Err, pe.RetainedTempPath)
			return
		}
		fmt.Fprintf(os.Stderr, "error: %s: %v\n", pe.Kind, pe.Err)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

// runGenerate handles the generate command: a synthetic test-data
// writer, explicitly outside the core sort engine (spec §6).
func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	fileName := fs.String("file-name", "generated.txt", "output file name")
	fileSizeMB := fs.Int("file-size", 100, "target file size, in MB")
	outputDir := fs.String("output-dir", ".", "directory to write the file in")
	lambda := fs.Float64("lambda", 50, "Poisson mean for the numeric prefix")
	seed := fs.Int64("seed", 1, "random seed")
	_ = fs.Parse(args)

	path := filepath.Join(*outputDir, *fileName)
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 256*1024)
	gen := genline.Generator{Lambda: *lambda, Seed: *seed}

	targetBytes := int64(*fileSizeMB) * 1024 * 1024
	lines, bytes, err := gen.Generate(w, targetBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: generate: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d lines (%.2f MB) to %s\n", lines, float64(bytes)/1024/1024, path)
}
