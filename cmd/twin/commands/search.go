// ABOUTME: Search command runs semantic search over the knowledge base
// ABOUTME: Embeds the query and prints the top-k chunks with scores
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yashraj10/retention-rag/internal/llm"
	"github.com/yashraj10/retention-rag/internal/storage/sqlite"
)

var searchLimit int

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the knowledge base",
		Long: `Semantic search over the ingested knowledge base.

Embeds the query and returns the most similar chunks by cosine
similarity, with their sources and scores.

Examples:
  twin search "onboarding drop-off"
  twin search --limit 10 "win-back campaigns"
  twin search --format json "notification fatigue"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum results to return (default: configured top-k)")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	limit := cfg.TopK
	if searchLimit != 0 {
		if err := validatePositiveInt(searchLimit, "limit"); err != nil {
			return err
		}
		limit = searchLimit
	}

	index, err := sqlite.OpenExistingIndex(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = index.Close() }()

	client, err := llm.New(cfg)
	if err != nil {
		return err
	}
	defer closeClient(client)

	vectors, err := client.EmbedBatch(cmd.Context(), []string{args[0]})
	if err != nil {
		return err
	}

	results, err := index.Query(vectors[0], limit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No chunks found for query: %s\n", args[0])
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHUNK\tSCORE\tSOURCE\tTEXT")
	for _, rc := range results {
		fmt.Fprintf(w, "%s\t%.3f\t%s\t%s\n", rc.Chunk.ID, rc.Score, rc.SourceKind, truncate(rc.Chunk.Text, 70))
	}
	return w.Flush()
}
