package merge

import (
	"fmt"

	"github.com/bendreyea/Sorter/internal/tempstore"
)

// KWay merges sorted runs with a single min-heap over all inputs
// (§4.5.1). When len(inputs) exceeds Fanout, it recurses: inputs are
// partitioned into groups of at most Fanout, each group is merged
// directly, and the group outputs are merged again until one file
// remains. Intermediate group outputs are TempStore-owned by this
// strategy and are deleted as soon as they are consumed.
type KWay struct {
	Store         *tempstore.Store
	Fanout        int // 0 or negative means unlimited: always merge directly
	ReadBufBytes  int
	WriteBufBytes int
}

var _ Strategy = (*KWay)(nil)

// Merge implements Strategy.
func (k *KWay) Merge(inputs []string) (string, int64, error) {
	if len(inputs) == 0 {
		return "", 0, fmt.Errorf("merge: kway: no inputs")
	}
	if k.Fanout > 0 && len(inputs) > k.Fanout {
		return k.mergeRecursive(inputs)
	}
	return streamMerge(k.Store, inputs, k.ReadBufBytes, k.WriteBufBytes)
}

func (k *KWay) mergeRecursive(inputs []string) (string, int64, error) {
	var lines int64
	groupOutputs := make([]string, 0, (len(inputs)+k.Fanout-1)/k.Fanout)
	for i := 0; i < len(inputs); i += k.Fanout {
		end := i + k.Fanout
		if end > len(inputs) {
			end = len(inputs)
		}
		out, n, err := streamMerge(k.Store, inputs[i:end], k.ReadBufBytes, k.WriteBufBytes)
		if err != nil {
			for _, p := range groupOutputs {
				k.Store.DeleteBestEffort(p)
			}
			return "", 0, err
		}
		groupOutputs = append(groupOutputs, out)
		lines += n
	}

	if len(groupOutputs) == 1 {
		return groupOutputs[0], lines, nil
	}

	final, n, err := k.Merge(groupOutputs)
	for _, p := range groupOutputs {
		k.Store.DeleteBestEffort(p)
	}
	if err != nil {
		return "", 0, err
	}
	return final, lines + n, nil
}
