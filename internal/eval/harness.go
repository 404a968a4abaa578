// ABOUTME: Evaluation harness running every scenario under every run config
// ABOUTME: A failed pair is recorded and skipped, never aborts the sweep
package eval

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yashraj10/retention-rag/internal/core"
	"github.com/yashraj10/retention-rag/internal/models"
)

// Recommender is the engine surface the harness drives.
type Recommender interface {
	Recommend(ctx context.Context, query string, rc models.RunConfig) (*core.Result, error)
}

// Scorer is the judge surface the harness drives.
type Scorer interface {
	Score(ctx context.Context, query, response string, retrieved []models.RetrievedChunk) (models.JudgeScore, error)
}

// PairResult is the outcome of one (scenario, config) pair. Exactly one of
// Score or Error is meaningful, selected by Failed.
type PairResult struct {
	ScenarioID     string                 `json:"scenario_id"`
	ConfigID       string                 `json:"config_id"`
	Query          string                 `json:"query"`
	Recommendation *models.Recommendation `json:"recommendation,omitempty"`
	Raw            string                 `json:"raw_response,omitempty"`
	NumChunks      int                    `json:"num_chunks"`
	TopScore       float64                `json:"top_chunk_score,omitempty"`
	Score          models.JudgeScore      `json:"score"`
	Failed         bool                   `json:"failed"`
	Error          string                 `json:"error,omitempty"`
}

// RunReport collects every pair result of one evaluation run.
type RunReport struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Scenarios  int          `json:"scenarios"`
	Configs    []string     `json:"configs"`
	Results    []PairResult `json:"results"`
}

// Succeeded returns the results that produced a valid score.
func (r *RunReport) Succeeded() []PairResult {
	out := make([]PairResult, 0, len(r.Results))
	for _, pr := range r.Results {
		if !pr.Failed {
			out = append(out, pr)
		}
	}
	return out
}

// Failed returns the results that did not produce a valid score.
func (r *RunReport) Failed() []PairResult {
	var out []PairResult
	for _, pr := range r.Results {
		if pr.Failed {
			out = append(out, pr)
		}
	}
	return out
}

// Harness runs the scenario-by-config evaluation sweep.
type Harness struct {
	engine  Recommender
	judge   Scorer
	verbose bool
}

// NewHarness creates an evaluation harness.
func NewHarness(engine Recommender, judge Scorer, verbose bool) *Harness {
	return &Harness{engine: engine, judge: judge, verbose: verbose}
}

// Run evaluates every scenario under every config, in declared order.
// Pair failures are isolated into their PairResult; only context
// cancellation stops the sweep early, returning the partial report
// alongside the context error.
func (h *Harness) Run(ctx context.Context, scenarios []models.Scenario, configs []models.RunConfig) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Scenarios: len(scenarios),
		Results:   make([]PairResult, 0, len(scenarios)*len(configs)),
	}
	for _, rc := range configs {
		report.Configs = append(report.Configs, rc.ID)
	}

	for _, rc := range configs {
		if h.verbose {
			log.Printf("[Eval] Config %s (retrieval=%v, prompt=%s)", rc.ID, rc.UseRetrieval, rc.Strategy)
		}

		for _, sc := range scenarios {
			if err := ctx.Err(); err != nil {
				report.FinishedAt = time.Now().UTC()
				return report, err
			}

			pr := h.runPair(ctx, sc, rc)
			report.Results = append(report.Results, pr)

			if h.verbose {
				if pr.Failed {
					log.Printf("[Eval]   %s/%s FAILED: %s", sc.ID, rc.ID, pr.Error)
				} else {
					log.Printf("[Eval]   %s/%s composite=%.2f", sc.ID, rc.ID, pr.Score.Composite())
				}
			}
		}
	}

	report.FinishedAt = time.Now().UTC()
	return report, nil
}

func (h *Harness) runPair(ctx context.Context, sc models.Scenario, rc models.RunConfig) PairResult {
	pr := PairResult{
		ScenarioID: sc.ID,
		ConfigID:   rc.ID,
		Query:      sc.Query,
	}

	result, err := h.engine.Recommend(ctx, sc.Query, rc)
	if err != nil {
		pr.Failed = true
		pr.Error = fmt.Sprintf("recommendation: %v", err)
		return pr
	}

	pr.Recommendation = &result.Recommendation
	pr.Raw = result.Raw
	pr.NumChunks = len(result.Retrieved)
	if len(result.Retrieved) > 0 {
		pr.TopScore = result.Retrieved[0].Score
	}

	score, err := h.judge.Score(ctx, sc.Query, result.Raw, result.Retrieved)
	if err != nil {
		pr.Failed = true
		pr.Error = fmt.Sprintf("judging: %v", err)
		return pr
	}

	score.ScenarioID = sc.ID
	score.ConfigID = rc.ID
	pr.Score = score
	return pr
}
