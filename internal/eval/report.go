// ABOUTME: Aggregates pair results per config and renders markdown and CSV reports
// ABOUTME: Failed pairs are listed separately and excluded from the statistics
package eval

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/yashraj10/retention-rag/internal/models"
)

// DimStat is mean and sample standard deviation for one dimension.
type DimStat struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// ConfigSummary aggregates the scored pairs of one config.
type ConfigSummary struct {
	ConfigID   string             `json:"config_id"`
	Scored     int                `json:"scored"`
	Failed     int                `json:"failed"`
	Dimensions map[string]DimStat `json:"dimensions"`
	Composite  DimStat            `json:"composite"`
}

// Summarize computes one ConfigSummary per config, in the report's config
// order. Failed pairs count toward Failed but contribute nothing else.
func Summarize(report *RunReport) []ConfigSummary {
	byConfig := make(map[string][]PairResult)
	failed := make(map[string]int)
	for _, pr := range report.Results {
		if pr.Failed {
			failed[pr.ConfigID]++
			continue
		}
		byConfig[pr.ConfigID] = append(byConfig[pr.ConfigID], pr)
	}

	summaries := make([]ConfigSummary, 0, len(report.Configs))
	for _, id := range report.Configs {
		pairs := byConfig[id]
		cs := ConfigSummary{
			ConfigID:   id,
			Scored:     len(pairs),
			Failed:     failed[id],
			Dimensions: make(map[string]DimStat, len(models.ScoreDimensions)),
		}

		for _, dim := range models.ScoreDimensions {
			values := make([]float64, len(pairs))
			for i, pr := range pairs {
				values[i] = float64(pr.Score.Dimension(dim))
			}
			cs.Dimensions[dim] = stat(values)
		}

		composites := make([]float64, len(pairs))
		for i, pr := range pairs {
			composites[i] = pr.Score.Composite()
		}
		cs.Composite = stat(composites)

		summaries = append(summaries, cs)
	}
	return summaries
}

func stat(values []float64) DimStat {
	if len(values) == 0 {
		return DimStat{}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	if len(values) == 1 {
		return DimStat{Mean: mean}
	}
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return DimStat{Mean: mean, Std: math.Sqrt(sq / float64(len(values)-1))}
}

// Markdown renders the evaluation report for humans.
func Markdown(report *RunReport) string {
	summaries := Summarize(report)
	bySummary := make(map[string]ConfigSummary, len(summaries))
	for _, cs := range summaries {
		bySummary[cs.ConfigID] = cs
	}

	var b strings.Builder
	b.WriteString("# Retention Decision Twin - Evaluation Report\n\n")
	fmt.Fprintf(&b, "**Run:** %s\n", report.RunID)
	fmt.Fprintf(&b, "**Generated:** %s\n", report.FinishedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "**Scenarios:** %d\n", report.Scenarios)
	fmt.Fprintf(&b, "**Configurations:** %d\n\n", len(report.Configs))

	b.WriteString("## Summary Scores (mean +/- std, scale 1-5)\n\n")
	b.WriteString("| Config | Relevance | Faithfulness | Citation | Actionability | **Composite** |\n")
	b.WriteString("|--------|-----------|--------------|----------|---------------|---------------|\n")
	for _, cs := range summaries {
		fmt.Fprintf(&b, "| %s | %.2f+/-%.2f | %.2f+/-%.2f | %.2f+/-%.2f | %.2f+/-%.2f | **%.2f+/-%.2f** |\n",
			cs.ConfigID,
			cs.Dimensions["relevance"].Mean, cs.Dimensions["relevance"].Std,
			cs.Dimensions["faithfulness"].Mean, cs.Dimensions["faithfulness"].Std,
			cs.Dimensions["citation_quality"].Mean, cs.Dimensions["citation_quality"].Std,
			cs.Dimensions["actionability"].Mean, cs.Dimensions["actionability"].Std,
			cs.Composite.Mean, cs.Composite.Std)
	}

	b.WriteString("\n## Key Findings\n\n")
	if best, ok := bestConfig(summaries); ok {
		fmt.Fprintf(&b, "- **Best configuration:** `%s` (composite: %.2f)\n", best.ConfigID, best.Composite.Mean)
	}
	if ragV2, ok1 := bySummary["rag_v2"]; ok1 {
		if noragV1, ok2 := bySummary["norag_v1"]; ok2 && noragV1.Composite.Mean > 0 {
			delta := ragV2.Composite.Mean - noragV1.Composite.Mean
			pct := delta / noragV1.Composite.Mean * 100
			fmt.Fprintf(&b, "- **RAG v2 vs No-RAG v1:** %+.2f (%.1f%%)\n", delta, pct)
		}
		if noragV2, ok2 := bySummary["norag_v2"]; ok2 {
			fmt.Fprintf(&b, "- **Retrieval effect (v2 prompt):** %+.2f composite points\n", ragV2.Composite.Mean-noragV2.Composite.Mean)
		}
		if ragV1, ok2 := bySummary["rag_v1"]; ok2 {
			fmt.Fprintf(&b, "- **Prompt effect (retrieval on):** %+.2f composite points\n", ragV2.Composite.Mean-ragV1.Composite.Mean)
		}
	}

	b.WriteString("\n## Per-Dimension Breakdown\n\n")
	for _, dim := range models.ScoreDimensions {
		bestID, bestMean := "", math.Inf(-1)
		for _, cs := range summaries {
			if cs.Scored > 0 && cs.Dimensions[dim].Mean > bestMean {
				bestID, bestMean = cs.ConfigID, cs.Dimensions[dim].Mean
			}
		}
		if bestID != "" {
			fmt.Fprintf(&b, "- **%s:** Best = `%s` (%.2f)\n", dimTitle(dim), bestID, bestMean)
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		b.WriteString("\n## Failed Pairs\n\n")
		for _, pr := range failed {
			fmt.Fprintf(&b, "- `%s` / `%s`: %s\n", pr.ScenarioID, pr.ConfigID, pr.Error)
		}
	}

	b.WriteString("\n## Methodology\n\n")
	b.WriteString("Each scenario was run through every configuration (retrieval on/off crossed with prompt v1/v2).\n")
	b.WriteString("Responses were scored by an LLM-as-judge on a 1-5 scale across 4 dimensions:\n")
	b.WriteString("relevance, faithfulness, citation quality, and actionability.\n")
	b.WriteString("Composite score = mean of all 4 dimensions. Failed pairs are excluded from the statistics above.\n")

	return b.String()
}

func bestConfig(summaries []ConfigSummary) (ConfigSummary, bool) {
	var best ConfigSummary
	found := false
	for _, cs := range summaries {
		if cs.Scored == 0 {
			continue
		}
		if !found || cs.Composite.Mean > best.Composite.Mean {
			best, found = cs, true
		}
	}
	return best, found
}

func dimTitle(dim string) string {
	parts := strings.Split(dim, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

// WriteCSV writes one row per pair, failed pairs included with an error
// column, so downstream analysis sees the whole sweep.
func WriteCSV(w io.Writer, report *RunReport) error {
	cw := csv.NewWriter(w)

	header := []string{"scenario_id", "config_id", "action", "num_chunks", "top_chunk_score"}
	header = append(header, models.ScoreDimensions...)
	header = append(header, "composite", "error")
	if err := cw.Write(header); err != nil {
		return err
	}

	// Stable row order regardless of how the report was assembled.
	rows := make([]PairResult, len(report.Results))
	copy(rows, report.Results)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ConfigID != rows[j].ConfigID {
			return rows[i].ConfigID < rows[j].ConfigID
		}
		return rows[i].ScenarioID < rows[j].ScenarioID
	})

	for _, pr := range rows {
		action := ""
		if pr.Recommendation != nil {
			action = pr.Recommendation.Action
		}
		row := []string{pr.ScenarioID, pr.ConfigID, action, strconv.Itoa(pr.NumChunks)}
		// A cosine score of exactly 0.0 is legitimate; only pairs that
		// retrieved nothing leave the cell blank.
		if pr.NumChunks > 0 {
			row = append(row, strconv.FormatFloat(pr.TopScore, 'f', 4, 64))
		} else {
			row = append(row, "")
		}
		if pr.Failed {
			row = append(row, "", "", "", "", "", pr.Error)
		} else {
			for _, dim := range models.ScoreDimensions {
				row = append(row, strconv.Itoa(pr.Score.Dimension(dim)))
			}
			row = append(row, strconv.FormatFloat(pr.Score.Composite(), 'f', 2, 64), "")
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
