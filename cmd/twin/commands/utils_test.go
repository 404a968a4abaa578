// ABOUTME: Tests for shared CLI helpers
// ABOUTME: Covers truncation, validation, and config selection

package commands

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten!", 12, "exactly ten!"},
		{"this is a longer string", 10, "this is..."},
		{"ab", 2, "ab"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestValidatePositiveInt(t *testing.T) {
	if err := validatePositiveInt(5, "limit"); err != nil {
		t.Errorf("5 should be valid: %v", err)
	}
	if err := validatePositiveInt(0, "limit"); err == nil {
		t.Error("0 should be rejected")
	}
	if err := validatePositiveInt(-1, "limit"); err == nil {
		t.Error("-1 should be rejected")
	}
}

func TestSelectConfigs(t *testing.T) {
	all, err := selectConfigs(5, nil)
	if err != nil {
		t.Fatalf("selectConfigs: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("default configs = %d, want 4", len(all))
	}

	subset, err := selectConfigs(5, []string{"rag_v2", "norag_v1"})
	if err != nil {
		t.Fatalf("selectConfigs subset: %v", err)
	}
	if len(subset) != 2 || subset[0].ID != "rag_v2" || subset[1].ID != "norag_v1" {
		t.Errorf("subset = %+v", subset)
	}
	if !subset[0].UseRetrieval || subset[1].UseRetrieval {
		t.Error("subset retrieval flags wrong")
	}

	if _, err := selectConfigs(5, []string{"rag_v3"}); err == nil {
		t.Error("unknown config should be rejected")
	}
}
