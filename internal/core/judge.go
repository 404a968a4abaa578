// ABOUTME: LLM-as-judge scoring of recommendations on a four-dimension rubric
// ABOUTME: Scores are validated strictly, never clamped into range
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yashraj10/retention-rag/internal/llm"
	"github.com/yashraj10/retention-rag/internal/models"
)

const judgeRubric = `You are an expert evaluator for a Retention Decision Twin, an AI system that recommends retention actions for user cohorts.

Score the following RESPONSE to the given QUERY on each dimension (1-5 scale):

1. **Relevance** (1-5): Does the response directly address the query's scenario? Does the recommended action make sense for the described situation?
   - 1 = Completely off-topic or generic
   - 3 = Partially addresses the scenario
   - 5 = Precisely tailored to the described scenario

2. **Faithfulness** (1-5): Is the response grounded in the provided context (if any)? Does it avoid hallucinating facts not present in the retrieved chunks?
   - 1 = Largely fabricated claims
   - 3 = Mix of grounded and unsupported claims
   - 5 = Every claim is traceable to provided context
   (If no context was provided, score based on whether claims are reasonable and not fabricated.)

3. **Citation Quality** (1-5): Are chunk IDs cited correctly and meaningfully? Do citations actually support the claims they're attached to?
   - 1 = No citations or completely wrong citations
   - 3 = Some citations present but inconsistent
   - 5 = Every key claim is properly cited with correct chunk IDs
   (If no context was provided, max score is 2 since citations are impossible.)

4. **Actionability** (1-5): Is the recommendation specific and practical enough for a CRM manager to act on? Does it include useful trade-offs or next steps?
   - 1 = Vague platitudes with no clear next step
   - 3 = Clear recommendation but missing nuance
   - 5 = Specific, practical, includes risks/trade-offs and missing info

QUERY:
%s

CONTEXT PROVIDED (retrieved chunks):
%s

RESPONSE TO EVALUATE:
%s

Respond with ONLY a JSON object (no markdown, no backticks):
{"relevance": <int>, "faithfulness": <int>, "citation_quality": <int>, "actionability": <int>, "brief_justification": "<1-2 sentence explanation>"}`

// Judge scores recommendations with a separate evaluation model.
type Judge struct {
	gen    llm.Generator
	params llm.GenParams
}

// NewJudge creates a judge. params.Model should be the evaluation model,
// not the generation model under test.
func NewJudge(gen llm.Generator, params llm.GenParams) *Judge {
	return &Judge{gen: gen, params: params}
}

// Score evaluates one response against its query and retrieval context.
// The retrieval set is rendered exactly as the engine's prompt rendered it,
// so the judge sees what the model under test saw.
func (j *Judge) Score(ctx context.Context, query, response string, retrieved []models.RetrievedChunk) (models.JudgeScore, error) {
	contextBlock := "(none - no retrieval)"
	if len(retrieved) > 0 {
		var b strings.Builder
		for _, rc := range retrieved {
			fmt.Fprintf(&b, "[%s] source=%s ref=%s\n%s\n", rc.Chunk.ID, rc.SourceKind, rc.SourceURI, rc.Chunk.Text)
		}
		contextBlock = strings.TrimRight(b.String(), "\n")
	}

	prompt := fmt.Sprintf(judgeRubric, query, contextBlock, response)

	raw, err := j.gen.Generate(ctx, prompt, j.params)
	if err != nil {
		return models.JudgeScore{}, err
	}

	return parseJudgeScore(raw)
}

// judgePayload uses pointers so an absent dimension is distinguishable
// from a literal zero.
type judgePayload struct {
	Relevance       *int   `json:"relevance"`
	Faithfulness    *int   `json:"faithfulness"`
	CitationQuality *int   `json:"citation_quality"`
	Actionability   *int   `json:"actionability"`
	Justification   string `json:"brief_justification"`
}

func parseJudgeScore(raw string) (models.JudgeScore, error) {
	body, ok := ExtractJSON(raw)
	if !ok {
		return models.JudgeScore{}, fmt.Errorf("%w: no JSON object in judge response", models.ErrInvalidScore)
	}

	var payload judgePayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return models.JudgeScore{}, fmt.Errorf("%w: %v", models.ErrInvalidScore, err)
	}

	for dim, v := range map[string]*int{
		"relevance":        payload.Relevance,
		"faithfulness":     payload.Faithfulness,
		"citation_quality": payload.CitationQuality,
		"actionability":    payload.Actionability,
	} {
		if v == nil {
			return models.JudgeScore{}, fmt.Errorf("%w: missing dimension %q", models.ErrInvalidScore, dim)
		}
	}

	score := models.JudgeScore{
		Relevance:       *payload.Relevance,
		Faithfulness:    *payload.Faithfulness,
		CitationQuality: *payload.CitationQuality,
		Actionability:   *payload.Actionability,
		Justification:   payload.Justification,
	}
	if err := score.Validate(); err != nil {
		return models.JudgeScore{}, err
	}
	return score, nil
}
