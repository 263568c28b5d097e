package recipe

import (
	"github.com/beltworks/camber/internal/calc"
	"github.com/beltworks/camber/internal/payload"
)

// Recipe is a named, versioned snapshot of sanitized calculation inputs,
// optionally carrying one or more expected-output snapshots. Inputs must
// always be the sanitized form - raw user payloads are never persisted as a
// recipe body.
type Recipe struct {
	ID     string
	Name   string
	Tier   string // free-form classification, not load-bearing
	Status string // free-form classification, not load-bearing

	Inputs payload.Object

	// Output snapshots. Any of these may be nil (absent).
	Expected payload.Object // curated expected outputs
	Legacy   payload.Object // outputs captured from the legacy engine
	Baseline payload.Object // pinned baseline outputs
	Previous payload.Object // outputs from the most recent prior run

	// IsFixture marks a recipe promoted into the curated regression corpus.
	IsFixture bool
}

// ComparisonMode selects which stored snapshot a run diffs against.
type ComparisonMode string

const (
	ModeExpected ComparisonMode = "expected"
	ModeBaseline ComparisonMode = "baseline"
	ModeLegacy   ComparisonMode = "legacy"
	ModePrevious ComparisonMode = "previous"

	// ModeExpectedWithFallback is the only mode allowed to substitute:
	// expected, then baseline, then legacy. The fallback is explicit in the
	// mode name precisely so no other mode ever substitutes silently.
	ModeExpectedWithFallback ComparisonMode = "expected+fallback"
)

// Snapshot resolves the comparison snapshot for a mode. Returns nil when the
// recipe lacks the requested snapshot.
func (r *Recipe) Snapshot(mode ComparisonMode) payload.Object {
	switch mode {
	case ModeExpected:
		return r.Expected
	case ModeBaseline:
		return r.Baseline
	case ModeLegacy:
		return r.Legacy
	case ModePrevious:
		return r.Previous
	case ModeExpectedWithFallback:
		if r.Expected != nil {
			return r.Expected
		}
		if r.Baseline != nil {
			return r.Baseline
		}
		return r.Legacy
	default:
		return nil
	}
}

// FieldType tags a comparison as numeric or structural.
type FieldType string

const (
	FieldNumeric FieldType = "numeric"
	FieldOther   FieldType = "other"
)

// FieldComparison is one per-field diff between a stored snapshot and the
// current engine output. DeltaAbs and DeltaRel are meaningful only for
// numeric fields.
type FieldComparison struct {
	Field     string        `json:"field"`
	FieldType FieldType     `json:"field_type"`
	Expected  payload.Value `json:"expected"`
	Actual    payload.Value `json:"actual"`
	DeltaAbs  float64       `json:"delta_abs"`
	DeltaRel  float64       `json:"delta_rel"`
	Drifted   bool          `json:"drifted"`
}

// RunResult aggregates the comparisons for one recipe run. Passed is nil
// when the run was skipped - no snapshot for the requested mode, or the
// engine run failed or panicked.
type RunResult struct {
	RecipeID   string            `json:"recipe_id"`
	RecipeName string            `json:"recipe_name"`
	Passed     *bool             `json:"passed"`
	SkipReason string            `json:"skip_reason,omitempty"`
	Fields     []FieldComparison `json:"fields,omitempty"`
}

// Skipped reports whether the run produced no verdict.
func (r *RunResult) Skipped() bool { return r.Passed == nil }

// CalcFunc is the engine entry point the runner drives. Decoupled as a
// function type so sweeps can substitute instrumented or frozen engines.
type CalcFunc func(payload.Object) calc.Result
