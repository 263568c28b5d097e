package recipe

import (
	"context"
	"fmt"
	"io"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/beltworks/camber/internal/payload"
)

// DriftEntry is one drifted numeric field, attributed to its recipe.
type DriftEntry struct {
	RecipeID   string  `json:"recipe_id"`
	RecipeName string  `json:"recipe_name"`
	Field      string  `json:"field"`
	Expected   float64 `json:"expected"`
	Actual     float64 `json:"actual"`
	DeltaAbs   float64 `json:"delta_abs"`
	DeltaRel   float64 `json:"delta_rel"`
}

// SweepSummary aggregates a corpus sweep.
type SweepSummary struct {
	Total   int          `json:"total"`
	Passed  int          `json:"passed"`
	Failed  int          `json:"failed"`
	Skipped int          `json:"skipped"`
	Top     []DriftEntry `json:"top,omitempty"`
}

// Sweep runs every recipe independently and reduces the results into a
// ranked drift report. Each run is side-effect-free, so runs execute in
// parallel up to the given limit (<=0 means one per recipe). Order of the
// returned results matches the input corpus regardless of scheduling.
func Sweep(ctx context.Context, corpus []*Recipe, mode ComparisonMode, run CalcFunc, topN, parallelism int) ([]RunResult, SweepSummary) {
	results := make([]RunResult, len(corpus))

	g, _ := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, rec := range corpus {
		i, rec := i, rec
		g.Go(func() error {
			results[i] = Run(rec, mode, run)
			return nil
		})
	}
	// Per-recipe failures never abort the sweep; Run cannot return an error.
	_ = g.Wait()

	return results, Summarize(results, topN)
}

// Summarize reduces run results into pass/fail/skip counts plus the top-N
// drifted numeric fields ranked by descending relative delta.
func Summarize(results []RunResult, topN int) SweepSummary {
	summary := SweepSummary{Total: len(results)}
	for _, res := range results {
		switch {
		case res.Skipped():
			summary.Skipped++
		case *res.Passed:
			summary.Passed++
		default:
			summary.Failed++
		}
	}
	summary.Top = RankDrift(results, topN)
	return summary
}

// RankDrift collects every drifted numeric field across all run results and
// returns the top-N by descending relative delta. Ties break by absolute
// delta, then recipe and field name, so the report is deterministic.
func RankDrift(results []RunResult, topN int) []DriftEntry {
	var entries []DriftEntry
	for _, res := range results {
		for _, f := range res.Fields {
			if f.FieldType != FieldNumeric || !f.Drifted {
				continue
			}
			expected, _ := f.Expected.(payload.Number)
			actual, _ := f.Actual.(payload.Number)
			entries = append(entries, DriftEntry{
				RecipeID:   res.RecipeID,
				RecipeName: res.RecipeName,
				Field:      f.Field,
				Expected:   float64(expected),
				Actual:     float64(actual),
				DeltaAbs:   f.DeltaAbs,
				DeltaRel:   f.DeltaRel,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.DeltaRel != b.DeltaRel {
			return a.DeltaRel > b.DeltaRel
		}
		if a.DeltaAbs != b.DeltaAbs {
			return a.DeltaAbs > b.DeltaAbs
		}
		if a.RecipeID != b.RecipeID {
			return a.RecipeID < b.RecipeID
		}
		return a.Field < b.Field
	})

	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}

// WriteSummary renders a human-readable drift report.
func WriteSummary(w io.Writer, summary SweepSummary) {
	fmt.Fprintf(w, "recipes: %d total, %d passed, %d failed, %d skipped\n",
		summary.Total, summary.Passed, summary.Failed, summary.Skipped)
	if len(summary.Top) == 0 {
		fmt.Fprintln(w, "no numeric drift detected")
		return
	}
	fmt.Fprintf(w, "top %d drifted fields:\n", len(summary.Top))
	for i, e := range summary.Top {
		fmt.Fprintf(w, "%3d. %s/%s: expected %g, got %g (rel %.6g)\n",
			i+1, e.RecipeName, e.Field, e.Expected, e.Actual, e.DeltaRel)
	}
}
