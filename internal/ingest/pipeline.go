// ABOUTME: Ingestion pipeline: fetch, chunk, embed, upsert into the vector index
// ABOUTME: Embeds and stores batch by batch so a crashed run loses little work
package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/yashraj10/retention-rag/internal/core"
	"github.com/yashraj10/retention-rag/internal/llm"
	"github.com/yashraj10/retention-rag/internal/models"
)

// Upserter is the index surface the pipeline writes to.
type Upserter interface {
	Upsert(chunk models.Chunk, kind models.SourceKind, uri string, vector []float64) error
	Count() (int, error)
}

// Pipeline wires fetcher, chunker, embedder, and index into one ingest run.
type Pipeline struct {
	fetcher   Fetcher
	chunker   *core.Chunker
	embedder  llm.Embedder
	index     Upserter
	batchSize int
	verbose   bool
}

// NewPipeline creates an ingestion pipeline. batchSize bounds how many
// chunks are embedded per upstream call.
func NewPipeline(fetcher Fetcher, chunker *core.Chunker, embedder llm.Embedder, index Upserter, batchSize int, verbose bool) *Pipeline {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Pipeline{
		fetcher:   fetcher,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		batchSize: batchSize,
		verbose:   verbose,
	}
}

// Stats summarizes one ingest run.
type Stats struct {
	SourcesFetched int
	SourcesFailed  int
	ChunksStored   int
	IndexCount     int
}

// Run ingests every manifest source. A source that fails to fetch is logged
// and skipped; an embedding or storage error aborts the run, since the index
// would otherwise silently miss whole documents.
func (p *Pipeline) Run(ctx context.Context, manifest *Manifest) (*Stats, error) {
	stats := &Stats{}

	var chunks []models.Chunk
	kinds := make(map[string]models.SourceKind)
	uris := make(map[string]string)

	for _, src := range manifest.Entries() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		text, err := p.fetcher.Fetch(ctx, src)
		if err != nil {
			stats.SourcesFailed++
			log.Printf("[Ingest] skipping %s (%s): %v", src.ID, src.URI, err)
			continue
		}
		src.RawText = text
		stats.SourcesFetched++

		docChunks := p.chunker.Chunk(src)
		if p.verbose {
			log.Printf("[Ingest] %s: %d chars -> %d chunks", src.ID, len(text), len(docChunks))
		}

		chunks = append(chunks, docChunks...)
		kinds[src.ID] = src.Kind
		uris[src.ID] = src.URI
	}

	if stats.SourcesFetched == 0 {
		return stats, fmt.Errorf("no sources fetched (%d failed)", stats.SourcesFailed)
	}

	for start := 0; start < len(chunks); start += p.batchSize {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := p.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return stats, fmt.Errorf("embedding batch at chunk %d: %w", start, err)
		}
		if len(vectors) != len(batch) {
			return stats, fmt.Errorf("embedding batch at chunk %d: got %d vectors for %d texts", start, len(vectors), len(batch))
		}

		for i, c := range batch {
			if err := p.index.Upsert(c, kinds[c.SourceID], uris[c.SourceID], vectors[i]); err != nil {
				return stats, fmt.Errorf("storing chunk %s: %w", c.ID, err)
			}
			stats.ChunksStored++
		}

		if p.verbose {
			log.Printf("[Ingest] stored %d/%d chunks", stats.ChunksStored, len(chunks))
		}
	}

	count, err := p.index.Count()
	if err != nil {
		return stats, err
	}
	stats.IndexCount = count
	return stats, nil
}
