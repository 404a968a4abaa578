// ABOUTME: Scenario is one fixed evaluation query for the harness
// ABOUTME: The reference set of 15 scenarios lives in internal/eval
package models

// Scenario is an evaluation query with optional expected-context hints.
type Scenario struct {
	ID              string   `json:"id"`
	Query           string   `json:"query_text"`
	ExpectedContext []string `json:"expected_context,omitempty"`
}
