// ABOUTME: MCP tool definitions and registration for the retention twin server
// ABOUTME: Exposes recommendation and knowledge-base search over stdio
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/yashraj10/retention-rag/internal/core"
	"github.com/yashraj10/retention-rag/internal/llm"
)

// RegisterTools registers the retention twin's MCP tools with the server.
func RegisterTools(server *mcpserver.MCPServer, engine *core.Engine, embedder llm.Embedder, index core.Searcher, defaultTopK int) *Handlers {
	handlers := &Handlers{
		engine:      engine,
		embedder:    embedder,
		index:       index,
		defaultTopK: defaultTopK,
	}

	server.AddTool(mcp.Tool{
		Name:        "get_recommendation",
		Description: "Recommend a retention action for a described cohort situation. Returns the chosen action, rationale, citations into the knowledge base, risks, and missing information.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The cohort retention situation to decide on",
				},
				"use_retrieval": map[string]interface{}{
					"type":        "boolean",
					"description": "Ground the recommendation in the knowledge base (default: true)",
				},
				"prompt_version": map[string]interface{}{
					"type":        "string",
					"description": "Prompt strategy, v1 or v2 (default: v2)",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "How many chunks to retrieve (default: configured top-k)",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.GetRecommendation)

	server.AddTool(mcp.Tool{
		Name:        "search_knowledge",
		Description: "Semantic search over the retention knowledge base. Returns the most similar chunks with their sources and similarity scores.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of chunks to return (default: configured top-k)",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchKnowledge)

	return handlers
}
