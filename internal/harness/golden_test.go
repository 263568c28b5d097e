package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every scenario under testdata/scenarios runs against its golden file.
func TestScenariosAgainstGolden(t *testing.T) {
	scenarios, err := LoadScenarioDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestRunSanitizesBeforeCalculating(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/flat-drive-baseline.yaml")
	require.NoError(t, err)

	snapshot, err := Run(s)
	require.NoError(t, err)

	require.True(t, snapshot.Result.Success, "errors: %v", snapshot.Result.Errors)
	// The alias pass renamed conveyor_cl; the engine saw the canonical key.
	assert.Contains(t, snapshot.Result.Outputs, "torque_in_lb")

	reasons := map[string]string{}
	for _, rk := range snapshot.Removed {
		reasons[rk.Key] = string(rk.Reason)
	}
	assert.Equal(t, "aliased", reasons["conveyor_cl"])
	assert.Equal(t, "deprecated", reasons["send_to_estimating"])
	assert.Equal(t, "derived", reasons["belt_piw_rating"])
	assert.Equal(t, "mode_gated", reasons["drive_rpm"])
	assert.Equal(t, "null_undefined", reasons["operator_note"])
}

func TestSnapshotCanonicalIsStable(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/flat-drive-baseline.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, first.canonical(), second.canonical())
}
