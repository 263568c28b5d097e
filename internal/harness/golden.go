package harness

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/beltworks/camber/internal/calc"
	"github.com/beltworks/camber/internal/payload"
	"github.com/beltworks/camber/internal/sanitize"
)

// RunSnapshot captures the full outcome of a scenario run: what the
// sanitizer removed and what the engine produced. Serialized canonically
// for golden comparison.
type RunSnapshot struct {
	ScenarioName string
	Removed      []sanitize.RemovedKey
	Result       calc.Result
}

// Run sanitizes the scenario inputs and drives the engine once.
func Run(scenario *Scenario) (*RunSnapshot, error) {
	raw, err := scenario.InputPayload()
	if err != nil {
		return nil, err
	}

	rules := sanitize.DefaultRules()
	if scenario.Rules != "" {
		rules, err = sanitize.LoadRuleTable(scenario.Rules)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	cleaned := sanitize.Sanitize(raw, rules)
	result := calc.Calculate(cleaned.Cleaned)

	return &RunSnapshot{
		ScenarioName: scenario.Name,
		Removed:      cleaned.Removed,
		Result:       result,
	}, nil
}

// RunWithGolden executes a scenario and compares the run snapshot against
// testdata/golden/{scenario.Name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	snapshot, err := Run(scenario)
	if err != nil {
		return err
	}

	if scenario.Expect != nil {
		assertExpect(t, scenario, snapshot)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, []byte(snapshot.canonical()))
	return nil
}

// canonical serializes the snapshot through the canonicalizer so golden
// bytes do not depend on map iteration order.
func (s *RunSnapshot) canonical() string {
	removed := make(payload.Array, len(s.Removed))
	for i, rk := range s.Removed {
		removed[i] = payload.Object{
			"key":    payload.String(rk.Key),
			"reason": payload.String(string(rk.Reason)),
		}
	}

	warnings := make(payload.Array, len(s.Result.Warnings))
	for i, w := range s.Result.Warnings {
		warnings[i] = payload.String(w)
	}

	errs := make(payload.Array, len(s.Result.Errors))
	for i, e := range s.Result.Errors {
		errs[i] = payload.Object{
			"code":    payload.String(e.Code),
			"field":   payload.String(e.Field),
			"message": payload.String(e.Message),
		}
	}

	body := payload.Object{
		"scenario_name": payload.String(s.ScenarioName),
		"removed":       removed,
		"success":       payload.Bool(s.Result.Success),
		"warnings":      warnings,
		"errors":        errs,
	}
	if s.Result.Outputs != nil {
		body["outputs"] = s.Result.Outputs
	}
	return payload.CanonicalizePayload(body)
}

func assertExpect(t *testing.T, scenario *Scenario, snapshot *RunSnapshot) {
	t.Helper()
	expect := scenario.Expect
	result := snapshot.Result

	if result.Success != expect.Success {
		t.Errorf("scenario %s: success = %v, want %v (errors: %v)",
			scenario.Name, result.Success, expect.Success, result.Errors)
	}

	for _, field := range sortedKeys(expect.Outputs) {
		wantVal := payload.MustFromGo(expect.Outputs[field])
		gotVal, ok := result.Outputs[field]
		if !ok {
			t.Errorf("scenario %s: output %q missing", scenario.Name, field)
			continue
		}
		if !payload.PayloadsEqual(wantVal, gotVal) {
			t.Errorf("scenario %s: output %q = %s, want %s",
				scenario.Name, field,
				payload.CanonicalizePayload(gotVal), payload.CanonicalizePayload(wantVal))
		}
	}

	for _, substr := range expect.Warnings {
		if !warningContains(result.Warnings, substr) {
			t.Errorf("scenario %s: no warning containing %q in %v", scenario.Name, substr, result.Warnings)
		}
	}

	for _, code := range expect.ErrorCodes {
		if !errorCodePresent(result.Errors, code) {
			t.Errorf("scenario %s: no error with code %q in %v", scenario.Name, code, result.Errors)
		}
	}

	for _, key := range expect.Removed {
		if !removedKeyPresent(snapshot.Removed, key) {
			t.Errorf("scenario %s: key %q not removed by sanitizer (removed: %v)",
				scenario.Name, key, snapshot.Removed)
		}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func warningContains(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func errorCodePresent(errs []calc.ValidationError, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func removedKeyPresent(removed []sanitize.RemovedKey, key string) bool {
	for _, rk := range removed {
		if rk.Key == key {
			return true
		}
	}
	return false
}
