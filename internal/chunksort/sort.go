// Package chunksort sorts one in-memory chunk of lines using the domain
// comparator (C2), the same one-line slices.SortFunc call sorter.go's
// flushChunk uses to sort a chunk's records before writing it out.
package chunksort

import (
	"slices"

	"github.com/bendreyea/Sorter/internal/linekey"
)

// Sort permutes keys into non-decreasing order under linekey.Compare.
// Each Key already carries its own line buffer (Data), so sorting the
// Key slice alone preserves the key/text association the spec requires.
func Sort(keys []linekey.Key) {
	slices.SortFunc(keys, linekey.Compare)
}
