// ABOUTME: Tests the evaluation sweep, failure isolation, and aggregation
// ABOUTME: Uses stub engine and judge implementations, no network
package eval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/yashraj10/retention-rag/internal/core"
	"github.com/yashraj10/retention-rag/internal/models"
)

type stubEngine struct {
	failOn map[string]bool // "scenarioID/configID"
	calls  []string
}

func (s *stubEngine) Recommend(ctx context.Context, query string, rc models.RunConfig) (*core.Result, error) {
	key := query + "/" + rc.ID
	s.calls = append(s.calls, key)
	if s.failOn[key] {
		return nil, fmt.Errorf("%w: boom", models.ErrGeneration)
	}

	var retrieved []models.RetrievedChunk
	if rc.UseRetrieval {
		retrieved = []models.RetrievedChunk{
			{Chunk: models.Chunk{ID: "web_0_c0", Text: "chunk"}, SourceKind: models.SourceKindWeb, SourceURI: "u", Score: 0.9},
		}
	}
	return &core.Result{
		Recommendation: models.Recommendation{Action: "Do nothing", Config: rc},
		Retrieved:      retrieved,
		Raw:            `{"action": "Do nothing"}`,
	}, nil
}

type stubJudge struct {
	score   models.JudgeScore
	failOn  map[string]bool
	scoreBy map[string]models.JudgeScore // keyed by query
}

func (s *stubJudge) Score(ctx context.Context, query, response string, retrieved []models.RetrievedChunk) (models.JudgeScore, error) {
	if s.failOn[query] {
		return models.JudgeScore{}, fmt.Errorf("%w: out of range", models.ErrInvalidScore)
	}
	if sc, ok := s.scoreBy[query]; ok {
		return sc, nil
	}
	return s.score, nil
}

func fixedScore(v int) models.JudgeScore {
	return models.JudgeScore{Relevance: v, Faithfulness: v, CitationQuality: v, Actionability: v}
}

func twoScenarios() []models.Scenario {
	return []models.Scenario{
		{ID: "s01", Query: "q1"},
		{ID: "s02", Query: "q2"},
	}
}

func TestHarnessRunsEveryPair(t *testing.T) {
	engine := &stubEngine{}
	judge := &stubJudge{score: fixedScore(4)}
	harness := NewHarness(engine, judge, false)

	scenarios := Scenarios()
	configs := models.DefaultRunConfigs(5)

	report, err := harness.Run(context.Background(), scenarios, configs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := len(scenarios) * len(configs)
	if len(report.Results) != want {
		t.Fatalf("results = %d, want %d", len(report.Results), want)
	}
	if want != 60 {
		t.Fatalf("reference sweep = %d pairs, want 60", want)
	}
	if len(report.Failed()) != 0 {
		t.Errorf("failed = %d, want 0", len(report.Failed()))
	}
	if report.RunID == "" {
		t.Error("missing run id")
	}

	// Declared order: configs outer, scenarios inner.
	if engine.calls[0] != scenarios[0].Query+"/norag_v1" {
		t.Errorf("first call = %s", engine.calls[0])
	}
	if engine.calls[len(scenarios)] != scenarios[0].Query+"/norag_v2" {
		t.Errorf("call after first config = %s", engine.calls[len(scenarios)])
	}
}

func TestHarnessIsolatesEngineFailure(t *testing.T) {
	engine := &stubEngine{failOn: map[string]bool{"q1/rag_v1": true}}
	judge := &stubJudge{score: fixedScore(3)}
	harness := NewHarness(engine, judge, false)

	report, err := harness.Run(context.Background(), twoScenarios(), models.DefaultRunConfigs(5))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := len(report.Results); got != 8 {
		t.Fatalf("results = %d, want 8", got)
	}
	failed := report.Failed()
	if len(failed) != 1 {
		t.Fatalf("failed = %d, want 1", len(failed))
	}
	if failed[0].ScenarioID != "s01" || failed[0].ConfigID != "rag_v1" {
		t.Errorf("failed pair = %s/%s", failed[0].ScenarioID, failed[0].ConfigID)
	}
	if !strings.Contains(failed[0].Error, "recommendation:") {
		t.Errorf("error = %q, want recommendation stage", failed[0].Error)
	}
	if len(report.Succeeded()) != 7 {
		t.Errorf("succeeded = %d, want 7", len(report.Succeeded()))
	}
}

func TestHarnessIsolatesJudgeFailure(t *testing.T) {
	engine := &stubEngine{}
	judge := &stubJudge{score: fixedScore(3), failOn: map[string]bool{"q2": true}}
	harness := NewHarness(engine, judge, false)

	report, err := harness.Run(context.Background(), twoScenarios(), models.DefaultRunConfigs(5)[:1])
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	failed := report.Failed()
	if len(failed) != 1 {
		t.Fatalf("failed = %d, want 1", len(failed))
	}
	if !strings.Contains(failed[0].Error, "judging:") {
		t.Errorf("error = %q, want judging stage", failed[0].Error)
	}
	// The engine output is still recorded for the failed pair.
	if failed[0].Recommendation == nil {
		t.Error("failed judge pair should keep its recommendation")
	}
}

func TestHarnessStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	harness := NewHarness(&stubEngine{}, &stubJudge{score: fixedScore(3)}, false)
	report, err := harness.Run(ctx, twoScenarios(), models.DefaultRunConfigs(5))

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if report == nil {
		t.Fatal("partial report should still be returned")
	}
	if len(report.Results) != 0 {
		t.Errorf("results = %d, want 0 after immediate cancel", len(report.Results))
	}
}

func TestHarnessAttachesPairIdentity(t *testing.T) {
	harness := NewHarness(&stubEngine{}, &stubJudge{score: fixedScore(5)}, false)
	report, err := harness.Run(context.Background(), twoScenarios(), models.DefaultRunConfigs(5)[:1])
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, pr := range report.Results {
		if pr.Score.ScenarioID != pr.ScenarioID || pr.Score.ConfigID != pr.ConfigID {
			t.Errorf("score identity %s/%s does not match pair %s/%s",
				pr.Score.ScenarioID, pr.Score.ConfigID, pr.ScenarioID, pr.ConfigID)
		}
	}
}

func TestHarnessRecordsRetrievalStats(t *testing.T) {
	harness := NewHarness(&stubEngine{}, &stubJudge{score: fixedScore(3)}, false)
	configs := models.DefaultRunConfigs(5)

	report, err := harness.Run(context.Background(), twoScenarios(), configs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, pr := range report.Results {
		retrievalOn := strings.HasPrefix(pr.ConfigID, "rag_")
		if retrievalOn && (pr.NumChunks == 0 || pr.TopScore == 0) {
			t.Errorf("%s/%s: missing retrieval stats", pr.ScenarioID, pr.ConfigID)
		}
		if !retrievalOn && pr.NumChunks != 0 {
			t.Errorf("%s/%s: unexpected chunks in baseline", pr.ScenarioID, pr.ConfigID)
		}
	}
}
