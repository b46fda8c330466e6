package pipeline

import "sync/atomic"

// Stats are the atomic counters every pipeline stage updates as it
// works and Reporter polls on a ticker, mirroring indexer.go's
// GetStats()/atomic.AddInt64 pattern rather than introducing a mutex.
type Stats struct {
	ChunksSplit     int64
	RunsSorted      int64
	LinesSorted     int64
	MergesPerformed int64
	LinesMerged     int64 // lines written across every internal merge step, all Strategy calls
	BytesPublished  int64
}

func (s *Stats) addChunksSplit(n int64)     { atomic.AddInt64(&s.ChunksSplit, n) }
func (s *Stats) addRunsSorted(n int64)      { atomic.AddInt64(&s.RunsSorted, n) }
func (s *Stats) addLinesSorted(n int64)     { atomic.AddInt64(&s.LinesSorted, n) }
func (s *Stats) addMergesPerformed(n int64) { atomic.AddInt64(&s.MergesPerformed, n) }
func (s *Stats) addLinesMerged(n int64)     { atomic.AddInt64(&s.LinesMerged, n) }
func (s *Stats) addBytesPublished(n int64)  { atomic.AddInt64(&s.BytesPublished, n) }

// Snapshot reads every counter without synchronizing them against each
// other (same tolerance the teacher's printStatus has against its own
// scanner/sorter stats).
func (s *Stats) Snapshot() Stats {
	return Stats{
		ChunksSplit:     atomic.LoadInt64(&s.ChunksSplit),
		RunsSorted:      atomic.LoadInt64(&s.RunsSorted),
		LinesSorted:     atomic.LoadInt64(&s.LinesSorted),
		MergesPerformed: atomic.LoadInt64(&s.MergesPerformed),
		LinesMerged:     atomic.LoadInt64(&s.LinesMerged),
		BytesPublished:  atomic.LoadInt64(&s.BytesPublished),
	}
}
