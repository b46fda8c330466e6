// Package merge implements MergeStrategy (C5): combining two or more
// sorted run files into one sorted run file. Two implementations are
// provided, K-way (a manual min-heap over all inputs at once, grounded
// in sorter.go's manualHeap/mergeItem/kWayMerge) and Polyphase (a
// three-tape Fibonacci-distributed merge built fresh from spec §4.5.2,
// which the teacher has no equivalent of).
package merge

// Strategy merges sorted run files into one sorted run file. inputs must
// be non-empty and each individually non-decreasing under the domain
// comparator; the returned path is a new TempStore-owned file and inputs
// are left untouched — the caller owns deleting them. lines is the total
// number of lines written across every internal merge step the strategy
// performed (a cascade counts a line once per step that writes it), for
// pipeline.Stats.
type Strategy interface {
	Merge(inputs []string) (output string, lines int64, err error)
}
