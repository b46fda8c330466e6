package pipeline

import (
	"fmt"
	"io"
	"time"
)

// Reporter rewrites a single status line to w on a ticker, the same
// shape as indexer.go's startReporting/printStatus: a background
// goroutine reading atomic counters, stopped via a channel close rather
// than context cancellation (the reporter is cosmetic, not part of the
// pipeline's correctness path).
type Reporter struct {
	Stats    *Stats
	Out      io.Writer
	Interval time.Duration

	stop chan struct{}
}

// Start begins polling. Calling Start on a zero Reporter.Interval
// defaults it to one second, matching the teacher's ticker.
func (r *Reporter) Start() {
	if r.Interval <= 0 {
		r.Interval = time.Second
	}
	r.stop = make(chan struct{})

	go func() {
		ticker := time.NewTicker(r.Interval)
		defer ticker.Stop()
		start := time.Now()

		for {
			select {
			case <-ticker.C:
				r.print(start)
			case <-r.stop:
				fmt.Fprintln(r.Out)
				return
			}
		}
	}()
}

// Stop ends the reporting goroutine, printing a trailing newline so the
// next output doesn't land on the same line as the status text.
func (r *Reporter) Stop() {
	if r.stop != nil {
		close(r.stop)
	}
}

func (r *Reporter) print(start time.Time) {
	st := r.Stats.Snapshot()
	elapsed := time.Since(start).Round(time.Second)
	fmt.Fprintf(r.Out, "\r\033[K[sorting] chunks=%d sorted=%d merges=%d lines=%d elapsed=%s",
		st.ChunksSplit, st.RunsSorted, st.MergesPerformed, st.LinesSorted, elapsed)
}
