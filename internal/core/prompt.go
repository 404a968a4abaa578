// ABOUTME: PromptBuilder assembles generation requests under named strategies
// ABOUTME: v1 is minimal, v2 injects the decision spec schema and citation rules
package core

import (
	"fmt"
	"strings"

	"github.com/yashraj10/retention-rag/internal/models"
)

// PromptBuilder renders prompts from a query, retrieved context, and the
// decision spec. The spec is read-only and injected once at construction.
type PromptBuilder struct {
	spec models.DecisionSpec
}

// NewPromptBuilder creates a prompt builder for the given decision spec.
func NewPromptBuilder(spec models.DecisionSpec) *PromptBuilder {
	return &PromptBuilder{spec: spec}
}

// responseSchema is the JSON payload both strategies ask the model for.
const responseSchema = `{"action": "<one action from the list>", "rationale": ["<bullet>", ...], "citations": ["<chunk_id>", ...], "risks": ["<bullet>", ...], "missing_info": ["<bullet>", ...]}`

// Build renders the prompt for one engine call. A nil/empty chunk slice is
// the no-retrieval baseline: the context block is omitted entirely while the
// rest of the strategy stays identical.
func (b *PromptBuilder) Build(query string, chunks []models.RetrievedChunk, strategy models.PromptStrategy) (string, error) {
	switch strategy {
	case models.StrategyV1:
		return b.buildV1(query, chunks), nil
	case models.StrategyV2:
		return b.buildV2(query, chunks), nil
	default:
		return "", fmt.Errorf("unknown prompt strategy %q", strategy)
	}
}

// buildV1 concatenates context with the query and a minimal output contract.
func (b *PromptBuilder) buildV1(query string, chunks []models.RetrievedChunk) string {
	var sb strings.Builder
	b.writeHeader(&sb)
	b.writeContext(&sb, chunks)

	sb.WriteString("\nUser question:\n")
	sb.WriteString(query)
	sb.WriteString("\n\nBe concise. Respond with ONLY a JSON object (no markdown, no backticks) of the form:\n")
	sb.WriteString(responseSchema)
	sb.WriteString("\nCite evidence by chunk id (e.g. \"web_0_c2\") in the citations array.\n")
	return sb.String()
}

// buildV2 additionally injects constraints and explicit citation rules.
func (b *PromptBuilder) buildV2(query string, chunks []models.RetrievedChunk) string {
	var sb strings.Builder
	b.writeHeader(&sb)

	sb.WriteString("\nConstraints:\n")
	for _, c := range b.spec.Constraints {
		fmt.Fprintf(&sb, "- %s\n", c)
	}

	sb.WriteString("\nRules:\n")
	sb.WriteString("- Use ONLY the provided CONTEXT as evidence. If the context does not support a recommendation, choose \"Do nothing\" and list what data is missing in missing_info.\n")
	sb.WriteString("- Cite ONLY chunk ids that appear in the CONTEXT. Never invent chunk ids.\n")
	sb.WriteString("- Cite at least 2 chunk ids when you recommend a non-trivial action.\n")
	sb.WriteString("- Provide 3 rationale bullets and 2 risk/trade-off bullets.\n")
	sb.WriteString("- Respond with ONLY a JSON object (no markdown, no backticks) of EXACTLY this form:\n")
	sb.WriteString(responseSchema)
	sb.WriteString("\n")

	b.writeContext(&sb, chunks)

	sb.WriteString("\nUser question:\n")
	sb.WriteString(query)
	sb.WriteString("\n")
	return sb.String()
}

// writeHeader writes the shared role, decision, and action vocabulary.
func (b *PromptBuilder) writeHeader(sb *strings.Builder) {
	fmt.Fprintf(sb, "You are a decision twin for: %s.\n", b.spec.User)
	fmt.Fprintf(sb, "Decision: %s\n", b.spec.Decision)
	sb.WriteString("\nPossible actions:\n")
	for _, a := range b.spec.Actions {
		fmt.Fprintf(sb, "- %s\n", a)
	}
}

// writeContext writes the retrieved chunk block, or nothing in baseline mode.
func (b *PromptBuilder) writeContext(sb *strings.Builder, chunks []models.RetrievedChunk) {
	if len(chunks) == 0 {
		return
	}
	sb.WriteString("\nCONTEXT:\n")
	for i, rc := range chunks {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(sb, "[%s] source=%s ref=%s\n%s\n", rc.Chunk.ID, rc.SourceKind, rc.SourceURI, rc.Chunk.Text)
	}
}
