// ABOUTME: Export command dumps the knowledge base for inspection
// ABOUTME: Writes every stored chunk as JSON, vectors optional
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yashraj10/retention-rag/internal/models"
	"github.com/yashraj10/retention-rag/internal/storage/sqlite"
)

var (
	exportOut     string
	exportVectors bool
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the knowledge base as JSON",
		Long: `Dump every stored chunk to JSON for inspection or backup.

Vectors are omitted by default to keep the export readable.

Examples:
  twin export --out kb.json
  twin export --out kb_full.json --vectors`,
		RunE: runExport,
	}

	cmd.Flags().StringVar(&exportOut, "out", "kb_export.json", "Output path")
	cmd.Flags().BoolVar(&exportVectors, "vectors", false, "Include embedding vectors")

	return cmd
}

type exportedChunk struct {
	ChunkID    string            `json:"chunk_id"`
	SourceID   string            `json:"source_id"`
	SourceKind models.SourceKind `json:"source_kind"`
	SourceURI  string            `json:"source_uri"`
	Start      int               `json:"start"`
	End        int               `json:"end"`
	Text       string            `json:"text"`
	Vector     []float64         `json:"vector,omitempty"`
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadPathConfig()
	if err != nil {
		return err
	}

	index, err := sqlite.OpenExistingIndex(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = index.Close() }()

	stored, err := index.ExportAll()
	if err != nil {
		return err
	}

	out := make([]exportedChunk, len(stored))
	for i, sc := range stored {
		out[i] = exportedChunk{
			ChunkID:    sc.Chunk.ID,
			SourceID:   sc.Chunk.SourceID,
			SourceKind: sc.SourceKind,
			SourceURI:  sc.SourceURI,
			Start:      sc.Chunk.Start,
			End:        sc.Chunk.End,
			Text:       sc.Chunk.Text,
		}
		if exportVectors {
			out[i].Vector = sc.Vector
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}
	if err := os.WriteFile(exportOut, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d chunks to %s\n", len(out), exportOut)
	}
	return nil
}
