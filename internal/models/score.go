// ABOUTME: JudgeScore holds the four bounded rubric dimensions for one pair
// ABOUTME: Produced once per (scenario, config) pair and never mutated
package models

import "fmt"

// Judge score bounds, inclusive.
const (
	ScoreMin = 1
	ScoreMax = 5
)

// ScoreDimensions lists the rubric dimensions in report order.
var ScoreDimensions = []string{"relevance", "faithfulness", "citation_quality", "actionability"}

// JudgeScore is the judge's verdict for one (scenario, config) pair.
type JudgeScore struct {
	ScenarioID      string `json:"scenario_id"`
	ConfigID        string `json:"config_id"`
	Relevance       int    `json:"relevance"`
	Faithfulness    int    `json:"faithfulness"`
	CitationQuality int    `json:"citation_quality"`
	Actionability   int    `json:"actionability"`
	Justification   string `json:"brief_justification,omitempty"`
}

// Dimension returns the named dimension's value.
func (s JudgeScore) Dimension(name string) int {
	switch name {
	case "relevance":
		return s.Relevance
	case "faithfulness":
		return s.Faithfulness
	case "citation_quality":
		return s.CitationQuality
	case "actionability":
		return s.Actionability
	}
	return 0
}

// Validate checks every dimension is within [ScoreMin, ScoreMax].
func (s JudgeScore) Validate() error {
	for _, dim := range ScoreDimensions {
		v := s.Dimension(dim)
		if v < ScoreMin || v > ScoreMax {
			return fmt.Errorf("%w: %s = %d, want %d-%d", ErrInvalidScore, dim, v, ScoreMin, ScoreMax)
		}
	}
	return nil
}

// Composite returns the mean of the four dimensions.
func (s JudgeScore) Composite() float64 {
	return float64(s.Relevance+s.Faithfulness+s.CitationQuality+s.Actionability) / 4.0
}
