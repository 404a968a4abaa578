// ABOUTME: MCP tool handler implementations for the retention twin server
// ABOUTME: Tool errors are returned as MCP error results, not transport errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yashraj10/retention-rag/internal/core"
	"github.com/yashraj10/retention-rag/internal/llm"
	"github.com/yashraj10/retention-rag/internal/models"
)

// Handlers contains the handler functions for the MCP tools.
type Handlers struct {
	engine      *core.Engine
	embedder    llm.Embedder
	index       core.Searcher
	defaultTopK int
}

// GetRecommendation handles the get_recommendation tool.
func (h *Handlers) GetRecommendation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	useRetrieval := request.GetBool("use_retrieval", true)
	strategy := models.PromptStrategy(request.GetString("prompt_version", string(models.StrategyV2)))
	if strategy != models.StrategyV1 && strategy != models.StrategyV2 {
		return mcp.NewToolResultError(fmt.Sprintf("unknown prompt_version %q (want v1 or v2)", strategy)), nil
	}
	topK := request.GetInt("top_k", h.defaultTopK)

	rc := models.RunConfig{
		ID:           configID(useRetrieval, strategy),
		UseRetrieval: useRetrieval,
		Strategy:     strategy,
		TopK:         topK,
	}

	result, err := h.engine.Recommend(ctx, query, rc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recommendation failed: %v", err)), nil
	}

	payload := map[string]interface{}{
		"recommendation": result.Recommendation,
		"retrieved":      retrievedSummary(result.Retrieved),
	}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// SearchKnowledge handles the search_knowledge tool.
func (h *Handlers) SearchKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", h.defaultTopK)

	vectors, err := h.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("embedding query: %v", err)), nil
	}

	results, err := h.index.Query(vectors[0], maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("searching index: %v", err)), nil
	}

	out, err := json.MarshalIndent(retrievedSummary(results), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func configID(useRetrieval bool, strategy models.PromptStrategy) string {
	if useRetrieval {
		return "rag_" + string(strategy)
	}
	return "norag_" + string(strategy)
}

type chunkSummary struct {
	ChunkID string  `json:"chunk_id"`
	Source  string  `json:"source"`
	Ref     string  `json:"ref"`
	Score   float64 `json:"score"`
	Text    string  `json:"text"`
}

func retrievedSummary(chunks []models.RetrievedChunk) []chunkSummary {
	out := make([]chunkSummary, len(chunks))
	for i, rc := range chunks {
		out[i] = chunkSummary{
			ChunkID: rc.Chunk.ID,
			Source:  string(rc.SourceKind),
			Ref:     rc.SourceURI,
			Score:   rc.Score,
			Text:    rc.Chunk.Text,
		}
	}
	return out
}
