// ABOUTME: Embedding and retrieval result types for vector search
// ABOUTME: One fixed-dimension vector per chunk; results ordered by similarity
package models

// Embedding pairs a chunk id with its fixed-dimension vector.
type Embedding struct {
	ChunkID string    `json:"chunk_id"`
	Vector  []float64 `json:"vector"`
}

// RetrievedChunk is one ranked result of a top-k similarity query.
// Scores are cosine similarities in [-1, 1].
type RetrievedChunk struct {
	Chunk      Chunk      `json:"chunk"`
	SourceKind SourceKind `json:"source_kind"`
	SourceURI  string     `json:"source_uri"`
	Score      float64    `json:"score"`
}
