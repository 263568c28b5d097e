package recipe

import (
	"fmt"
	"math"

	"github.com/beltworks/camber/internal/payload"
)

// Run re-executes a recipe through the engine and diffs the actual outputs
// against the snapshot selected by mode.
//
// Numeric fields drift when deltaRel exceeds zero - exactly zero relative
// delta is the only non-drift. A zero expected value is guarded: drift is
// present only when the actual value is nonzero, with an infinite relative
// delta so it ranks first. Non-numeric fields compare by canonical equality.
func Run(rec *Recipe, mode ComparisonMode, run CalcFunc) (result RunResult) {
	result = RunResult{RecipeID: rec.ID, RecipeName: rec.Name}

	// An engine panic degrades this recipe to skipped; the sweep continues.
	defer func() {
		if r := recover(); r != nil {
			result.Passed = nil
			result.Fields = nil
			result.SkipReason = fmt.Sprintf("engine panicked: %v", r)
		}
	}()

	snapshot := rec.Snapshot(mode)
	if snapshot == nil {
		result.SkipReason = fmt.Sprintf("no %s snapshot stored", mode)
		return result
	}

	calcResult := run(rec.Inputs)
	if !calcResult.Success {
		result.SkipReason = fmt.Sprintf("engine rejected inputs: %d validation error(s)", len(calcResult.Errors))
		return result
	}

	result.Fields = compareFields(snapshot, calcResult.Outputs)

	passed := true
	for _, f := range result.Fields {
		if f.Drifted {
			passed = false
			break
		}
	}
	result.Passed = &passed
	return result
}

// compareFields diffs every field present in the snapshot against the
// actual outputs, in sorted key order for a deterministic report.
func compareFields(snapshot, actual payload.Object) []FieldComparison {
	comparisons := make([]FieldComparison, 0, len(snapshot))
	for _, field := range snapshot.SortedKeys() {
		expected := snapshot[field]
		actualVal, present := actual[field]
		if !present {
			actualVal = payload.Missing{}
		}
		comparisons = append(comparisons, compareField(field, expected, actualVal, present))
	}
	return comparisons
}

func compareField(field string, expected, actual payload.Value, actualPresent bool) FieldComparison {
	expNum, expIsNum := expected.(payload.Number)
	actNum, actIsNum := actual.(payload.Number)

	if expIsNum && actIsNum {
		e, a := float64(expNum), float64(actNum)
		cmp := FieldComparison{
			Field:     field,
			FieldType: FieldNumeric,
			Expected:  expected,
			Actual:    actual,
			DeltaAbs:  math.Abs(a - e),
		}
		if e == 0 {
			if a != 0 {
				cmp.DeltaRel = math.Inf(1)
				cmp.Drifted = true
			}
			return cmp
		}
		cmp.DeltaRel = cmp.DeltaAbs / math.Abs(e)
		cmp.Drifted = cmp.DeltaRel > 0
		return cmp
	}

	return FieldComparison{
		Field:     field,
		FieldType: FieldOther,
		Expected:  expected,
		Actual:    actual,
		Drifted:   !actualPresent || !payload.PayloadsEqual(expected, actual),
	}
}
