// ABOUTME: Evaluate command runs the scenario sweep and writes reports
// ABOUTME: Supports config subsets and markdown, CSV, and JSON outputs
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yashraj10/retention-rag/internal/core"
	"github.com/yashraj10/retention-rag/internal/eval"
	"github.com/yashraj10/retention-rag/internal/llm"
	"github.com/yashraj10/retention-rag/internal/models"
	"github.com/yashraj10/retention-rag/internal/storage/sqlite"
)

var (
	evalConfigs []string
	evalReport  string
	evalCSV     string
	evalJSON    string
)

// NewEvaluateCmd creates the evaluate command
func NewEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run the evaluation sweep and write a report",
		Long: `Run every evaluation scenario under every run configuration and
score each response with an LLM judge.

The four reference configurations cross retrieval on/off with prompt
v1/v2. A pair that fails is recorded in the report and the sweep
continues.

Examples:
  twin evaluate
  twin evaluate --configs rag_v2,norag_v1
  twin evaluate --report eval_report.md --csv results.csv`,
		RunE: runEvaluate,
	}

	cmd.Flags().StringSliceVar(&evalConfigs, "configs", nil, "Config subset to run (default: all four)")
	cmd.Flags().StringVar(&evalReport, "report", "eval_report.md", "Markdown report path")
	cmd.Flags().StringVar(&evalCSV, "csv", "", "Also write per-pair results as CSV")
	cmd.Flags().StringVar(&evalJSON, "json", "", "Also write the raw run report as JSON")

	return cmd
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	configs, err := selectConfigs(cfg.TopK, evalConfigs)
	if err != nil {
		return err
	}

	needsIndex := false
	for _, rc := range configs {
		if rc.UseRetrieval {
			needsIndex = true
		}
	}

	var index core.Searcher
	if needsIndex {
		idx, err := sqlite.OpenExistingIndex(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() { _ = idx.Close() }()
		index = idx
	}

	spec, err := loadDecisionSpec(cfg)
	if err != nil {
		return err
	}

	client, err := llm.New(cfg)
	if err != nil {
		return err
	}
	defer closeClient(client)

	engine := core.NewEngine(index, client, spec, genParams(cfg, cfg.GenModel))
	judge := core.NewJudge(client, genParams(cfg, cfg.EvalModel))
	harness := eval.NewHarness(engine, judge, verbose)

	report, err := harness.Run(cmd.Context(), eval.Scenarios(), configs)
	if err != nil {
		// A cancelled sweep still writes what it finished.
		if report != nil && len(report.Results) > 0 {
			_ = writeReports(report)
		}
		return err
	}

	if err := writeReports(report); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Evaluated %d pairs (%d failed). Report: %s\n",
			len(report.Results), len(report.Failed()), evalReport)
	}
	return nil
}

func selectConfigs(topK int, names []string) ([]models.RunConfig, error) {
	all := models.DefaultRunConfigs(topK)
	if len(names) == 0 {
		return all, nil
	}

	byID := make(map[string]models.RunConfig, len(all))
	for _, rc := range all {
		byID[rc.ID] = rc
	}

	out := make([]models.RunConfig, 0, len(names))
	for _, name := range names {
		rc, ok := byID[name]
		if !ok {
			return nil, fmt.Errorf("unknown config %q (valid: norag_v1, norag_v2, rag_v1, rag_v2)", name)
		}
		out = append(out, rc)
	}
	return out, nil
}

func writeReports(report *eval.RunReport) error {
	if err := os.WriteFile(evalReport, []byte(eval.Markdown(report)), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if evalCSV != "" {
		f, err := os.Create(evalCSV)
		if err != nil {
			return fmt.Errorf("creating CSV: %w", err)
		}
		if err := eval.WriteCSV(f, report); err != nil {
			_ = f.Close()
			return fmt.Errorf("writing CSV: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if evalJSON != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling run report: %w", err)
		}
		if err := os.WriteFile(evalJSON, data, 0o644); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
	}
	return nil
}
