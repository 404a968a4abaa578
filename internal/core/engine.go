// ABOUTME: RecommendationEngine orchestrates retrieve, prompt, generate, parse
// ABOUTME: Validates citations against the retrieval set before returning
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yashraj10/retention-rag/internal/llm"
	"github.com/yashraj10/retention-rag/internal/models"
)

// Searcher is the top-k query surface of the vector index.
type Searcher interface {
	Query(vector []float64, k int) ([]models.RetrievedChunk, error)
}

// Engine turns a query into a grounded, validated recommendation.
type Engine struct {
	index   Searcher
	client  llm.Client
	prompts *PromptBuilder
	spec    models.DecisionSpec
	params  llm.GenParams
}

// NewEngine creates a recommendation engine. The index may be nil when only
// the no-retrieval baseline will run.
func NewEngine(index Searcher, client llm.Client, spec models.DecisionSpec, params llm.GenParams) *Engine {
	return &Engine{
		index:   index,
		client:  client,
		prompts: NewPromptBuilder(spec),
		spec:    spec,
		params:  params,
	}
}

// Result carries one engine call's output together with the retrieval set
// and prompt that produced it, for judging and debugging.
type Result struct {
	Recommendation models.Recommendation  `json:"recommendation"`
	Retrieved      []models.RetrievedChunk `json:"retrieved,omitempty"`
	Prompt         string                 `json:"prompt"`
	Raw            string                 `json:"raw"`
}

// Recommend runs the online path for one query under one configuration.
// The index is never mutated; the only side effect is the outbound calls.
func (e *Engine) Recommend(ctx context.Context, query string, rc models.RunConfig) (*Result, error) {
	var retrieved []models.RetrievedChunk

	if rc.UseRetrieval {
		if e.index == nil {
			return nil, fmt.Errorf("%w: no index configured", models.ErrIndexUnavailable)
		}

		vectors, err := e.client.EmbedBatch(ctx, []string{query})
		if err != nil {
			return nil, fmt.Errorf("embedding query: %w", err)
		}

		retrieved, err = e.index.Query(vectors[0], rc.TopK)
		if err != nil {
			return nil, fmt.Errorf("querying index: %w", err)
		}
	}

	prompt, err := e.prompts.Build(query, retrieved, rc.Strategy)
	if err != nil {
		return nil, err
	}

	raw, err := e.client.Generate(ctx, prompt, e.params)
	if err != nil {
		return nil, err
	}

	rec, err := e.parseRecommendation(raw, retrieved, rc)
	if err != nil {
		return nil, err
	}

	return &Result{
		Recommendation: *rec,
		Retrieved:      retrieved,
		Prompt:         prompt,
		Raw:            raw,
	}, nil
}

// recommendationPayload mirrors the JSON shape both prompt strategies request.
type recommendationPayload struct {
	Action      string   `json:"action"`
	Rationale   []string `json:"rationale"`
	Citations   []string `json:"citations"`
	Risks       []string `json:"risks"`
	MissingInfo []string `json:"missing_info"`
}

// parseRecommendation validates the raw response into a Recommendation.
// Fabricated citations are rejected, not passed through; in baseline mode
// the citation set is emptied by construction.
func (e *Engine) parseRecommendation(raw string, retrieved []models.RetrievedChunk, rc models.RunConfig) (*models.Recommendation, error) {
	body, ok := ExtractJSON(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object found in response", models.ErrMalformedResponse)
	}

	var payload recommendationPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedResponse, err)
	}

	action, ok := e.spec.CanonicalAction(payload.Action)
	if !ok {
		return nil, fmt.Errorf("%w: action %q is not in the decision spec vocabulary", models.ErrMalformedResponse, payload.Action)
	}

	citations := []string{}
	if rc.UseRetrieval {
		allowed := make(map[string]bool, len(retrieved))
		for _, rcChunk := range retrieved {
			allowed[rcChunk.Chunk.ID] = true
		}
		seen := make(map[string]bool, len(payload.Citations))
		for _, id := range payload.Citations {
			id = strings.Trim(strings.TrimSpace(id), "[]")
			if id == "" || seen[id] {
				continue
			}
			if !allowed[id] {
				return nil, fmt.Errorf("%w: fabricated citation %q not in retrieval set", models.ErrMalformedResponse, id)
			}
			seen[id] = true
			citations = append(citations, id)
		}
	}

	return &models.Recommendation{
		Action:      action,
		Rationale:   payload.Rationale,
		Citations:   citations,
		Risks:       payload.Risks,
		MissingInfo: payload.MissingInfo,
		Config:      rc,
	}, nil
}

// ExtractJSON strips markdown fences and returns the outermost JSON object
// in text, if any.
func ExtractJSON(text string) (string, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
