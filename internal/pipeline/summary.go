package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Summary is the JSON run report written next to the output file when
// Config.Summary is set, grounded in indexer.go's saveMeta/IndexMeta
// (json.MarshalIndent to a sidecar file).
type Summary struct {
	Input           string    `json:"input"`
	Output          string    `json:"output"`
	InputFingerprint string   `json:"input_fingerprint,omitempty"`
	ChunksSplit     int64     `json:"chunks_split"`
	RunsSorted      int64     `json:"runs_sorted"`
	LinesSorted     int64     `json:"lines_sorted"`
	MergesPerformed int64     `json:"merges_performed"`
	LinesMerged     int64     `json:"lines_merged"`
	BytesPublished  int64     `json:"bytes_published"`
	Elapsed         string    `json:"elapsed"`
	CompletedAt     time.Time `json:"completed_at"`
}

// WriteJSON marshals the summary and writes it to path, matching
// saveMeta's json.MarshalIndent(..., "", "  ") formatting.
func (s Summary) WriteJSON(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("pipeline: marshal summary: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
