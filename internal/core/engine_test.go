// ABOUTME: Tests the recommendation engine's parse and validation paths
// ABOUTME: Uses stub LLM clients and a stub searcher, no network
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/yashraj10/retention-rag/internal/llm"
	"github.com/yashraj10/retention-rag/internal/models"
)

type stubClient struct {
	response string
	genErr   error
	embedErr error
	prompts  []string
}

func (s *stubClient) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if s.embedErr != nil {
		return nil, s.embedErr
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0, 0}
	}
	return out, nil
}

func (s *stubClient) Generate(ctx context.Context, prompt string, params llm.GenParams) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.genErr != nil {
		return "", s.genErr
	}
	return s.response, nil
}

type stubSearcher struct {
	results []models.RetrievedChunk
	err     error
}

func (s *stubSearcher) Query(vector []float64, k int) ([]models.RetrievedChunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	if k < len(s.results) {
		return s.results[:k], nil
	}
	return s.results, nil
}

func testRetrieved() []models.RetrievedChunk {
	return []models.RetrievedChunk{
		{
			Chunk:      models.Chunk{ID: "web_0_c0", SourceID: "web_0", Text: "Onboarding friction drives churn."},
			SourceKind: models.SourceKindWeb,
			SourceURI:  "https://example.com/retention",
			Score:      0.92,
		},
		{
			Chunk:      models.Chunk{ID: "web_0_c1", SourceID: "web_0", Text: "Highlight notifications recover lapsed users."},
			SourceKind: models.SourceKindWeb,
			SourceURI:  "https://example.com/retention",
			Score:      0.87,
		},
	}
}

func validResponse() string {
	return `{"action": "Send personalized highlight notification", "rationale": ["lapsed users respond to highlights"], "citations": ["web_0_c0", "web_0_c1"], "risks": ["notification fatigue"], "missing_info": []}`
}

func ragConfig() models.RunConfig {
	return models.RunConfig{ID: "rag_v2", UseRetrieval: true, Strategy: models.StrategyV2, TopK: 5}
}

func noragConfig() models.RunConfig {
	return models.RunConfig{ID: "norag_v1", UseRetrieval: false, Strategy: models.StrategyV1}
}

func TestRecommendHappyPath(t *testing.T) {
	client := &stubClient{response: validResponse()}
	engine := NewEngine(&stubSearcher{results: testRetrieved()}, client, models.DefaultDecisionSpec(), llm.GenParams{Model: "test-model"})

	result, err := engine.Recommend(context.Background(), "user lapsing after week one", ragConfig())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if result.Recommendation.Action != "Send personalized highlight notification" {
		t.Errorf("action = %q", result.Recommendation.Action)
	}
	if len(result.Recommendation.Citations) != 2 {
		t.Errorf("citations = %v, want both retrieved ids", result.Recommendation.Citations)
	}
	if len(result.Retrieved) != 2 {
		t.Errorf("retrieved = %d chunks, want 2", len(result.Retrieved))
	}
	if !strings.Contains(result.Prompt, "CONTEXT") {
		t.Error("retrieval-on prompt missing CONTEXT block")
	}
}

func TestRecommendStripsFences(t *testing.T) {
	client := &stubClient{response: "```json\n" + validResponse() + "\n```"}
	engine := NewEngine(&stubSearcher{results: testRetrieved()}, client, models.DefaultDecisionSpec(), llm.GenParams{})

	result, err := engine.Recommend(context.Background(), "query", ragConfig())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result.Recommendation.Action == "" {
		t.Error("expected parsed action from fenced response")
	}
}

func TestRecommendFabricatedCitation(t *testing.T) {
	response := `{"action": "Do nothing", "rationale": ["r"], "citations": ["web_9_c9"], "risks": [], "missing_info": []}`
	client := &stubClient{response: response}
	engine := NewEngine(&stubSearcher{results: testRetrieved()}, client, models.DefaultDecisionSpec(), llm.GenParams{})

	_, err := engine.Recommend(context.Background(), "query", ragConfig())
	if !errors.Is(err, models.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse for fabricated citation", err)
	}
}

func TestRecommendBaselineEmptiesCitations(t *testing.T) {
	// A baseline run has no retrieval set, so any cited ids are discarded
	// rather than treated as fabrications.
	client := &stubClient{response: validResponse()}
	engine := NewEngine(nil, client, models.DefaultDecisionSpec(), llm.GenParams{})

	result, err := engine.Recommend(context.Background(), "query", noragConfig())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Recommendation.Citations) != 0 {
		t.Errorf("citations = %v, want empty in baseline mode", result.Recommendation.Citations)
	}
	if len(result.Retrieved) != 0 {
		t.Errorf("retrieved = %d, want 0 in baseline mode", len(result.Retrieved))
	}
	if strings.Contains(result.Prompt, "CONTEXT") {
		t.Error("baseline prompt should not carry a CONTEXT block")
	}
}

func TestRecommendUnknownAction(t *testing.T) {
	response := `{"action": "Launch rockets", "rationale": [], "citations": [], "risks": [], "missing_info": []}`
	client := &stubClient{response: response}
	engine := NewEngine(nil, client, models.DefaultDecisionSpec(), llm.GenParams{})

	_, err := engine.Recommend(context.Background(), "query", noragConfig())
	if !errors.Is(err, models.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse for out-of-vocabulary action", err)
	}
}

func TestRecommendNonJSONResponse(t *testing.T) {
	client := &stubClient{response: "I think you should send a notification."}
	engine := NewEngine(nil, client, models.DefaultDecisionSpec(), llm.GenParams{})

	_, err := engine.Recommend(context.Background(), "query", noragConfig())
	if !errors.Is(err, models.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse for prose response", err)
	}
}

func TestRecommendDedupesCitations(t *testing.T) {
	response := `{"action": "Do nothing", "rationale": [], "citations": ["web_0_c0", "[web_0_c0]", "web_0_c1"], "risks": [], "missing_info": []}`
	client := &stubClient{response: response}
	engine := NewEngine(&stubSearcher{results: testRetrieved()}, client, models.DefaultDecisionSpec(), llm.GenParams{})

	result, err := engine.Recommend(context.Background(), "query", ragConfig())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	want := []string{"web_0_c0", "web_0_c1"}
	if len(result.Recommendation.Citations) != len(want) {
		t.Fatalf("citations = %v, want %v", result.Recommendation.Citations, want)
	}
	for i, id := range want {
		if result.Recommendation.Citations[i] != id {
			t.Errorf("citations[%d] = %q, want %q", i, result.Recommendation.Citations[i], id)
		}
	}
}

func TestRecommendEmbeddingFailure(t *testing.T) {
	client := &stubClient{embedErr: fmt.Errorf("%w: upstream down", models.ErrEmbeddingService)}
	engine := NewEngine(&stubSearcher{}, client, models.DefaultDecisionSpec(), llm.GenParams{})

	_, err := engine.Recommend(context.Background(), "query", ragConfig())
	if !errors.Is(err, models.ErrEmbeddingService) {
		t.Fatalf("err = %v, want ErrEmbeddingService", err)
	}
}

func TestRecommendGenerationFailure(t *testing.T) {
	client := &stubClient{genErr: fmt.Errorf("%w: upstream down", models.ErrGeneration)}
	engine := NewEngine(nil, client, models.DefaultDecisionSpec(), llm.GenParams{})

	_, err := engine.Recommend(context.Background(), "query", noragConfig())
	if !errors.Is(err, models.ErrGeneration) {
		t.Fatalf("err = %v, want ErrGeneration", err)
	}
}

func TestRecommendRetrievalOnWithoutIndex(t *testing.T) {
	client := &stubClient{response: validResponse()}
	engine := NewEngine(nil, client, models.DefaultDecisionSpec(), llm.GenParams{})

	_, err := engine.Recommend(context.Background(), "query", ragConfig())
	if !errors.Is(err, models.ErrIndexUnavailable) {
		t.Fatalf("err = %v, want ErrIndexUnavailable", err)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, true},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"leading prose", `Here you go: {"a": 1}`, `{"a": 1}`, true},
		{"no object", "no json here", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
