// ABOUTME: Ingest command builds the knowledge base from the source manifest
// ABOUTME: Fetches, chunks, embeds, and upserts into the sqlite vector index
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yashraj10/retention-rag/internal/core"
	"github.com/yashraj10/retention-rag/internal/ingest"
	"github.com/yashraj10/retention-rag/internal/llm"
	"github.com/yashraj10/retention-rag/internal/storage/sqlite"
)

var (
	ingestReset    bool
	ingestManifest string
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Build the knowledge base from the source manifest",
		Long: `Fetch every source in the manifest, chunk and embed the text, and
store the chunks in the vector index.

Re-running ingest with the same manifest overwrites existing chunks
rather than duplicating them.

Examples:
  twin ingest
  twin ingest --reset
  twin ingest --manifest ./my-sources.json`,
		RunE: runIngest,
	}

	cmd.Flags().BoolVar(&ingestReset, "reset", false, "Wipe the index before ingesting")
	cmd.Flags().StringVar(&ingestManifest, "manifest", "", "Manifest path (default: configured TWIN_MANIFEST)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	manifestPath := cfg.ManifestPath
	if ingestManifest != "" {
		manifestPath = ingestManifest
	}
	manifest, err := ingest.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	index, err := sqlite.OpenIndex(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = index.Close() }()

	if ingestReset {
		if err := index.Reset(); err != nil {
			return fmt.Errorf("resetting index: %w", err)
		}
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "Index reset.")
		}
	}

	client, err := llm.New(cfg)
	if err != nil {
		return err
	}
	defer closeClient(client)

	chunker, err := core.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}

	pipeline := ingest.NewPipeline(
		ingest.NewHTTPFetcher(cfg.Timeout),
		chunker,
		client,
		index,
		cfg.EmbedBatchSize,
		verbose,
	)

	stats, err := pipeline.Run(cmd.Context(), manifest)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d sources (%d failed): %d chunks stored, %d in index\n",
			stats.SourcesFetched, stats.SourcesFailed, stats.ChunksStored, stats.IndexCount)
	}
	return nil
}
