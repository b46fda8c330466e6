package merge

import (
	"fmt"

	"github.com/bendreyea/Sorter/internal/tempstore"
)

// Polyphase merges sorted runs via a three-tape Fibonacci-distributed
// merge (§4.5.2). Only two tapes are ever read from at once, which caps
// open file descriptors at 3 (two inputs plus the merge output)
// regardless of how many inputs there are —
// the property that makes it the recommended strategy for large fan-ins
// (spec §4.5.3). The teacher has no equivalent of this; it is built
// directly from the spec's distribution/phase/termination rules.
type Polyphase struct {
	Store         *tempstore.Store
	ReadBufBytes  int
	WriteBufBytes int
}

var _ Strategy = (*Polyphase)(nil)

// Merge implements Strategy.
func (p *Polyphase) Merge(inputs []string) (string, int64, error) {
	if len(inputs) == 0 {
		return "", 0, fmt.Errorf("merge: polyphase: no inputs")
	}
	if len(inputs) == 1 {
		return streamMerge(p.Store, inputs, p.ReadBufBytes, p.WriteBufBytes)
	}

	initial := make(map[string]bool, len(inputs))
	for _, path := range inputs {
		initial[path] = true
	}

	fk, fk1 := fibonacciPair(len(inputs))
	tapes := [3]*Tape{{}, {}, {}}
	distribute(tapes[0], tapes[1], inputs, fk, fk1)
	emptyIdx := 2

	var lines int64
	for totalCount(tapes) > 1 {
		a, b := otherTwo(emptyIdx)
		out := tapes[emptyIdx]

		for tapes[a].Count() > 0 && tapes[b].Count() > 0 {
			pathA, dummyA := tapes[a].Pop()
			pathB, dummyB := tapes[b].Pop()

			switch {
			case dummyA && dummyB:
				out.PushDummy()
			case dummyA:
				out.PushFile(pathB)
			case dummyB:
				out.PushFile(pathA)
			default:
				merged, n, err := streamMerge(p.Store, []string{pathA, pathB}, p.ReadBufBytes, p.WriteBufBytes)
				if err != nil {
					return "", 0, err
				}
				lines += n
				if !initial[pathA] {
					p.Store.DeleteBestEffort(pathA)
				}
				if !initial[pathB] {
					p.Store.DeleteBestEffort(pathB)
				}
				out.PushFile(merged)
			}
		}

		if tapes[a].Count() == 0 {
			emptyIdx = a
		} else {
			emptyIdx = b
		}
	}

	for _, t := range tapes {
		if t.Count() == 1 {
			path, dummy := t.Pop()
			if dummy {
				return "", 0, fmt.Errorf("merge: polyphase: final run is a dummy")
			}
			return path, lines, nil
		}
	}
	return "", 0, fmt.Errorf("merge: polyphase: no single final tape")
}

func totalCount(tapes [3]*Tape) int {
	return tapes[0].Count() + tapes[1].Count() + tapes[2].Count()
}

func otherTwo(empty int) (a, b int) {
	idx := [2]int{}
	n := 0
	for i := 0; i < 3; i++ {
		if i != empty {
			idx[n] = i
			n++
		}
	}
	return idx[0], idx[1]
}

// fibonacciPair returns the smallest (F_k, F_{k-1}) with F_k ≥ n, using
// the sequence 1, 1, 2, 3, 5, 8, ... (spec §4.5.2 distribution rule).
func fibonacciPair(n int) (fk, fk1 int) {
	a, b := 1, 1
	for b < n {
		a, b = b, a+b
	}
	return b, a
}

// distribute places F_{k-1} real runs on t0, the rest on t1, padded with
// F_k - n dummy runs so t1's count reaches F_k - F_{k-1}.
func distribute(t0, t1 *Tape, inputs []string, fk, fk1 int) {
	i := 0
	for ; i < fk1 && i < len(inputs); i++ {
		t0.PushFile(inputs[i])
	}
	for ; i < len(inputs); i++ {
		t1.PushFile(inputs[i])
	}
	for d := 0; d < fk-len(inputs); d++ {
		t1.PushDummy()
	}
}
