// ABOUTME: Recommendation and run configuration types for the online path
// ABOUTME: A RunConfig names one A/B cell: retrieval on/off crossed with prompt strategy
package models

// PromptStrategy selects how the generation prompt is assembled.
type PromptStrategy string

const (
	// StrategyV1 concatenates chunk text with the query and a minimal
	// description of the required output.
	StrategyV1 PromptStrategy = "v1"
	// StrategyV2 additionally injects the decision spec's constraints, the
	// required output schema, and explicit citation rules.
	StrategyV2 PromptStrategy = "v2"
)

// RunConfig describes one engine configuration under evaluation.
type RunConfig struct {
	ID           string         `json:"id"`
	UseRetrieval bool           `json:"use_retrieval"`
	Strategy     PromptStrategy `json:"strategy"`
	TopK         int            `json:"top_k"`
}

// DefaultRunConfigs returns the four reference A/B cells in report order.
func DefaultRunConfigs(topK int) []RunConfig {
	return []RunConfig{
		{ID: "norag_v1", UseRetrieval: false, Strategy: StrategyV1, TopK: topK},
		{ID: "norag_v2", UseRetrieval: false, Strategy: StrategyV2, TopK: topK},
		{ID: "rag_v1", UseRetrieval: true, Strategy: StrategyV1, TopK: topK},
		{ID: "rag_v2", UseRetrieval: true, Strategy: StrategyV2, TopK: topK},
	}
}

// Recommendation is the parsed, validated output of one engine call.
// Every citation references a chunk id that was actually retrieved for the
// call; when retrieval is off the citation set is empty by construction.
type Recommendation struct {
	Action      string    `json:"action"`
	Rationale   []string  `json:"rationale"`
	Citations   []string  `json:"citations"`
	Risks       []string  `json:"risks"`
	MissingInfo []string  `json:"missing_info,omitempty"`
	Config      RunConfig `json:"config_used"`
}
