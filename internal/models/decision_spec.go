// ABOUTME: DecisionSpec describes the required recommendation shape and action vocabulary
// ABOUTME: Loaded once at startup and treated as read-only configuration
package models

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DecisionSpec constrains what the engine may recommend and how the
// structured prompt describes the required output.
type DecisionSpec struct {
	User        string   `json:"user"`
	Decision    string   `json:"decision"`
	Actions     []string `json:"actions"`
	Constraints []string `json:"constraints"`
}

// DefaultDecisionSpec returns the built-in retention decision twin spec.
func DefaultDecisionSpec() DecisionSpec {
	return DecisionSpec{
		User:     "Retention / CRM Manager",
		Decision: "Recommend the next best retention action for a user cohort",
		Actions: []string{
			"Do nothing",
			"Send educational reminder",
			"Send personalized highlight notification",
			"Offer limited-time incentive",
			"Escalate to human support",
		},
		Constraints: []string{
			"Must cite evidence from retrieved context",
			"If evidence is insufficient, recommend 'Do nothing' and explain what data is missing",
			"Avoid discriminatory recommendations based on protected attributes",
		},
	}
}

// LoadDecisionSpec reads a decision spec from a JSON file. An empty path
// returns the default spec.
func LoadDecisionSpec(path string) (DecisionSpec, error) {
	if path == "" {
		return DefaultDecisionSpec(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return DecisionSpec{}, fmt.Errorf("reading decision spec: %w", err)
	}

	var spec DecisionSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return DecisionSpec{}, fmt.Errorf("parsing decision spec: %w", err)
	}
	if len(spec.Actions) == 0 {
		return DecisionSpec{}, fmt.Errorf("decision spec %s declares no actions", path)
	}

	return spec, nil
}

// HasAction reports whether action is in the allowed vocabulary.
// Matching ignores case and surrounding whitespace.
func (s DecisionSpec) HasAction(action string) bool {
	want := strings.ToLower(strings.TrimSpace(action))
	for _, a := range s.Actions {
		if strings.ToLower(a) == want {
			return true
		}
	}
	return false
}

// CanonicalAction returns the spec's spelling of action, if allowed.
func (s DecisionSpec) CanonicalAction(action string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(action))
	for _, a := range s.Actions {
		if strings.ToLower(a) == want {
			return a, true
		}
	}
	return "", false
}
