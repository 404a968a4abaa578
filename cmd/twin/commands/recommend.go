// ABOUTME: Recommend command answers one retention query with a cited action
// ABOUTME: Supports baseline mode and both prompt strategies
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yashraj10/retention-rag/internal/core"
	"github.com/yashraj10/retention-rag/internal/llm"
	"github.com/yashraj10/retention-rag/internal/models"
	"github.com/yashraj10/retention-rag/internal/storage/sqlite"
)

var (
	recommendNoRetrieval bool
	recommendPrompt      string
	recommendTopK        int
)

// NewRecommendCmd creates the recommend command
func NewRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend <query>",
		Short: "Recommend a retention action for a cohort situation",
		Long: `Recommend a retention action for the described cohort situation.

By default the recommendation is grounded in the knowledge base and every
claim cites the chunks it came from. Use --no-retrieval for the ungrounded
baseline.

Examples:
  twin recommend "Power users dropped to weekly logins. What do we do?"
  twin recommend --prompt v1 "New users churn after one session"
  twin recommend --no-retrieval "Trial-to-paid is 5%"
  twin recommend --format json "Reactivation emails convert at 2%"`,
		Args: cobra.ExactArgs(1),
		RunE: runRecommend,
	}

	cmd.Flags().BoolVar(&recommendNoRetrieval, "no-retrieval", false, "Skip retrieval (ungrounded baseline)")
	cmd.Flags().StringVar(&recommendPrompt, "prompt", "v2", "Prompt strategy: v1 or v2")
	cmd.Flags().IntVar(&recommendTopK, "top-k", 0, "Chunks to retrieve (default: configured top-k)")

	return cmd
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	strategy := models.PromptStrategy(recommendPrompt)
	if strategy != models.StrategyV1 && strategy != models.StrategyV2 {
		return fmt.Errorf("unknown prompt strategy %q (want v1 or v2)", recommendPrompt)
	}
	topK := cfg.TopK
	if recommendTopK > 0 {
		topK = recommendTopK
	}

	spec, err := loadDecisionSpec(cfg)
	if err != nil {
		return err
	}

	var index core.Searcher
	if !recommendNoRetrieval {
		idx, err := sqlite.OpenExistingIndex(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() { _ = idx.Close() }()
		index = idx
	}

	client, err := llm.New(cfg)
	if err != nil {
		return err
	}
	defer closeClient(client)

	engine := core.NewEngine(index, client, spec, genParams(cfg, cfg.GenModel))

	rc := models.RunConfig{
		UseRetrieval: !recommendNoRetrieval,
		Strategy:     strategy,
		TopK:         topK,
	}
	if rc.UseRetrieval {
		rc.ID = "rag_" + string(strategy)
	} else {
		rc.ID = "norag_" + string(strategy)
	}

	result, err := engine.Recommend(cmd.Context(), args[0], rc)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
		return nil
	}

	printRecommendation(cmd, result)
	return nil
}

func printRecommendation(cmd *cobra.Command, result *core.Result) {
	out := cmd.OutOrStdout()
	rec := result.Recommendation

	fmt.Fprintf(out, "Action: %s\n", rec.Action)

	if len(rec.Rationale) > 0 {
		fmt.Fprintln(out, "\nRationale:")
		for _, r := range rec.Rationale {
			fmt.Fprintf(out, "  - %s\n", r)
		}
	}
	if len(rec.Citations) > 0 {
		fmt.Fprintf(out, "\nCitations: %s\n", strings.Join(rec.Citations, ", "))
	}
	if len(rec.Risks) > 0 {
		fmt.Fprintln(out, "\nRisks:")
		for _, r := range rec.Risks {
			fmt.Fprintf(out, "  - %s\n", r)
		}
	}
	if len(rec.MissingInfo) > 0 {
		fmt.Fprintln(out, "\nMissing information:")
		for _, m := range rec.MissingInfo {
			fmt.Fprintf(out, "  - %s\n", m)
		}
	}

	if verbose && len(result.Retrieved) > 0 {
		fmt.Fprintln(out, "\nRetrieved chunks:")
		for _, rc := range result.Retrieved {
			fmt.Fprintf(out, "  [%s] %.3f %s\n", rc.Chunk.ID, rc.Score, truncate(rc.Chunk.Text, 80))
		}
	}
}
