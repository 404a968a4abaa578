// ABOUTME: Chunk represents a bounded contiguous slice of a source document
// ABOUTME: Chunk ids are deterministic so re-ingestion upserts instead of duplicating
package models

import "fmt"

// Chunk is the retrieval unit: a window of source text with a stable id.
// Start and End are character offsets into the cleaned source text.
type Chunk struct {
	ID       string `json:"chunk_id"`
	SourceID string `json:"source_id"`
	Text     string `json:"text"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// ChunkID builds the deterministic id for the n-th chunk of a source.
// Identical input sources always produce identical ids, which makes
// ingestion idempotent.
func ChunkID(sourceID string, index int) string {
	return fmt.Sprintf("%s_c%d", sourceID, index)
}
