// ABOUTME: Chunker splits source text into overlapping fixed-size windows
// ABOUTME: Deterministic ids and spans make re-ingestion an idempotent upsert
package core

import (
	"fmt"

	"github.com/yashraj10/retention-rag/internal/models"
)

// Chunker produces overlapping character windows over source text.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. Overlap must be smaller than size so every
// step makes forward progress.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("overlap must be in [0, size), got %d for size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk splits the source's raw text into windows of at most size characters,
// advancing by size-overlap each step so adjacent chunks share exactly
// overlap characters. Sizes, spans, and overlap count code points, not bytes,
// so a window never splits a multi-byte rune. Character order is preserved
// and no text is dropped; the boundary chunk may be shorter than size.
func (c *Chunker) Chunk(source models.Source) []models.Chunk {
	if source.RawText == "" {
		return nil
	}
	text := []rune(source.RawText)

	step := c.size - c.overlap
	var chunks []models.Chunk
	for start, i := 0, 0; start < len(text); start, i = start+step, i+1 {
		end := start + c.size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, models.Chunk{
			ID:       models.ChunkID(source.ID, i),
			SourceID: source.ID,
			Text:     string(text[start:end]),
			Start:    start,
			End:      end,
		})
	}
	return chunks
}
