// Package pipeline implements the Pipeline component (C6): bounded
// producer/consumer choreography of Splitter → RunSorter workers →
// Merger workers, followed by one final union merge and an atomic
// publish to the output path. Grounded in indexer.go's channel/WaitGroup
// driver (Run), generalized to use golang.org/x/sync/errgroup for
// cancellation the way lanrat-extsort's producer/sort/merge pipeline
// does, since the teacher's own hand-rolled WaitGroup+error-channel
// pattern doesn't expose a derived context for §5's cooperative
// cancellation requirement.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bendreyea/Sorter/internal/config"
	"github.com/bendreyea/Sorter/internal/merge"
	"github.com/bendreyea/Sorter/internal/runsort"
	"github.com/bendreyea/Sorter/internal/splitter"
	"github.com/bendreyea/Sorter/internal/tempstore"
	"github.com/bendreyea/Sorter/internal/vfs"
)

// Pipeline drives one sort of Cfg.Input to Cfg.Output.
type Pipeline struct {
	Cfg   config.Config
	FS    vfs.FS
	Store *tempstore.Store

	Reporter *Reporter // optional; nil disables progress output
	Stats    Stats
}

// New constructs a Pipeline, opening (creating if absent) the temp
// directory named in cfg.
func New(cfg config.Config, fs vfs.FS) (*Pipeline, error) {
	store, err := tempstore.Open(fs, cfg.TempDir)
	if err != nil {
		return nil, &Error{Kind: TempIOError, Err: err}
	}
	return &Pipeline{Cfg: cfg, FS: fs, Store: store}, nil
}

func (p *Pipeline) strategy() merge.Strategy {
	if p.Cfg.Polyphase {
		return &merge.Polyphase{Store: p.Store, ReadBufBytes: p.Cfg.ReadBufBytes, WriteBufBytes: p.Cfg.WriteBufBytes}
	}
	return &merge.KWay{Store: p.Store, Fanout: p.Cfg.MergeFanout, ReadBufBytes: p.Cfg.ReadBufBytes, WriteBufBytes: p.Cfg.WriteBufBytes}
}

// Run executes the full split/sort/merge/publish sequence, per spec §5's
// protocol. It returns a *Error on any failure; on success the sorted
// output is at p.Cfg.Output and the temp directory has been cleaned.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.Reporter != nil {
		p.Reporter.Stats = &p.Stats
		p.Reporter.Start()
		defer p.Reporter.Stop()
	}

	concurrency := p.Cfg.MaxConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	unsortedChunks := make(chan string, concurrency*2)
	sortedChunks := make(chan string, concurrency*2)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return p.runSplitter(gctx, unsortedChunks) })
	g.Go(func() error { return p.runSorters(gctx, concurrency, unsortedChunks, sortedChunks) })

	var finalMu sync.Mutex
	var finalPaths []string
	g.Go(func() error { return p.runMergers(gctx, concurrency, sortedChunks, &finalMu, &finalPaths) })

	if err := g.Wait(); err != nil {
		return p.classify(err)
	}

	finalPath, err := p.unionFinalists(finalPaths)
	if err != nil {
		return p.classify(err)
	}

	if err := p.publish(finalPath); err != nil {
		return &Error{Kind: OutputNotWritable, RetainedTempPath: finalPath, Err: err}
	}

	p.Store.RemoveDir()
	return nil
}

func (p *Pipeline) classify(err error) error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: Cancelled, Err: err}
	}
	return &Error{Kind: TempIOError, Err: err}
}

func (p *Pipeline) runSplitter(ctx context.Context, out chan<- string) error {
	defer close(out)

	sp := &splitter.Splitter{
		FS:           p.FS,
		Store:        p.Store,
		ChunkBytes:   p.Cfg.ChunkBytes,
		ReadBufBytes: p.Cfg.ReadBufBytes,
	}

	err := sp.Split(ctx, p.Cfg.Input, func(path string) error {
		select {
		case out <- path:
			p.Stats.addChunksSplit(1)
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &Error{Kind: InputNotReadable, Err: err}
	}
	return nil
}

func (p *Pipeline) runSorters(ctx context.Context, n int, in <-chan string, out chan<- string) error {
	defer close(out)

	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs := &runsort.Sorter{Store: p.Store, ReadBufBytes: p.Cfg.ReadBufBytes, WriteBufBytes: p.Cfg.WriteBufBytes}

			for {
				select {
				case path, ok := <-in:
					if !ok {
						return
					}
					sortedPath, stats, err := rs.Sort(path)
					if err != nil {
						errs <- &Error{Kind: TempIOError, Err: err}
						return
					}
					p.Stats.addRunsSorted(1)
					p.Stats.addLinesSorted(stats.LinesOut)

					select {
					case out <- sortedPath:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		return err
	}
	return ctx.Err()
}

// runMergers runs n Merger workers (spec §5 protocol step 3-4), each
// batching sortedChunks into groups of Cfg.MergeFanout and merging them
// down to one finalist path, appended to *finalPaths.
func (p *Pipeline) runMergers(ctx context.Context, n int, in <-chan string, mu *sync.Mutex, finalPaths *[]string) error {
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			strategy := p.strategy()
			var batch []string

			mergeBatch := func() error {
				out, lines, err := strategy.Merge(batch)
				if err != nil {
					return err
				}
				for _, b := range batch {
					p.Store.DeleteBestEffort(b)
				}
				p.Stats.addMergesPerformed(1)
				p.Stats.addLinesMerged(lines)
				batch = []string{out}
				return nil
			}

		loop:
			for {
				select {
				case path, ok := <-in:
					if !ok {
						break loop
					}
					batch = append(batch, path)
					if len(batch) >= p.Cfg.MergeFanout {
						if err := mergeBatch(); err != nil {
							errs <- &Error{Kind: TempIOError, Err: err}
							return
						}
					}
				case <-ctx.Done():
					return
				}
			}

			if ctx.Err() != nil {
				return
			}

			for len(batch) > 1 {
				if err := mergeBatch(); err != nil {
					errs <- &Error{Kind: TempIOError, Err: err}
					return
				}
			}

			if len(batch) == 1 {
				mu.Lock()
				*finalPaths = append(*finalPaths, batch[0])
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		return err
	}
	return ctx.Err()
}

// unionFinalists performs the final merge across each Merger worker's
// output, per spec §5 step 5 / §9 Open Question 2.
func (p *Pipeline) unionFinalists(finalPaths []string) (string, error) {
	switch len(finalPaths) {
	case 0:
		return "", nil
	case 1:
		return finalPaths[0], nil
	default:
		strategy := p.strategy()
		out, lines, err := strategy.Merge(finalPaths)
		if err != nil {
			return "", err
		}
		for _, f := range finalPaths {
			p.Store.DeleteBestEffort(f)
		}
		p.Stats.addMergesPerformed(1)
		p.Stats.addLinesMerged(lines)
		return out, nil
	}
}

// publish decompresses finalPath (or writes an empty file, if the input
// had no lines at all) into a plain-text staging file and atomically
// moves it to Cfg.Output, satisfying TempStore's move-to-final-path
// contract (§4.7) while keeping the output file uncompressed per §6.
func (p *Pipeline) publish(finalPath string) error {
	staging := p.Store.NewPath(".final")
	w, err := p.FS.OpenWrite(staging)
	if err != nil {
		return fmt.Errorf("pipeline: create staging output: %w", err)
	}

	if finalPath != "" {
		r, err := p.Store.OpenCompressed(finalPath)
		if err != nil {
			_ = w.Close()
			return fmt.Errorf("pipeline: open final run: %w", err)
		}
		n, copyErr := io.Copy(w, r)
		r.Close()
		if copyErr != nil {
			_ = w.Close()
			return fmt.Errorf("pipeline: copy final run: %w", copyErr)
		}
		p.Stats.addBytesPublished(n)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("pipeline: close staging output: %w", err)
	}

	if err := p.FS.Move(staging, p.Cfg.Output, true); err != nil {
		return fmt.Errorf("pipeline: move to output: %w", err)
	}
	if finalPath != "" {
		p.Store.DeleteBestEffort(finalPath)
	}
	return nil
}
