package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beltworks/camber/internal/calc"
	"github.com/beltworks/camber/internal/payload"
	"github.com/beltworks/camber/internal/recipe"
	"github.com/beltworks/camber/internal/store"
)

// seedCorpus stores one recipe whose expected snapshot matches the current
// engine and one whose snapshot is stale.
func seedCorpus(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	inputs := payload.Object{
		"conveyor_length_in":  payload.Number(120),
		"belt_width_in":       payload.Number(24),
		"drive_pulley_dia_in": payload.Number(6),
		"speed_mode":          payload.String("belt_speed"),
		"belt_speed_fpm":      payload.Number(100),
		"load_total_lb":       payload.Number(300),
		"belt_weight_lb":      payload.Number(60),
		"friction_coeff":      payload.Number(0.25),
	}

	current := calc.Calculate(inputs)
	require.True(t, current.Success)

	_, err = st.SaveRecipe(context.Background(), &recipe.Recipe{
		Name: "in-sync", Inputs: inputs, Expected: current.Outputs,
	})
	require.NoError(t, err)

	stale := current.Outputs.Clone()
	stale["torque_in_lb"] = payload.Number(400)
	_, err = st.SaveRecipe(context.Background(), &recipe.Recipe{
		Name: "stale", Inputs: inputs, Expected: stale,
	})
	require.NoError(t, err)

	return path
}

func TestDriftCommandDetectsDrift(t *testing.T) {
	db := seedCorpus(t)

	out, err := execute(t, "drift", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "torque_in_lb")
}

func TestDriftCommandCleanCorpusExitsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.db")
	st, err := store.Open(path)
	require.NoError(t, err)

	inputs := payload.Object{
		"conveyor_length_in":  payload.Number(120),
		"belt_width_in":       payload.Number(24),
		"drive_pulley_dia_in": payload.Number(6),
		"speed_mode":          payload.String("belt_speed"),
		"belt_speed_fpm":      payload.Number(100),
	}
	current := calc.Calculate(inputs)
	require.True(t, current.Success)
	_, err = st.SaveRecipe(context.Background(), &recipe.Recipe{
		Name: "clean", Inputs: inputs, Expected: current.Outputs,
	})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, "drift", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "no numeric drift")
}

func TestDriftCommandUnknownMode(t *testing.T) {
	db := seedCorpus(t)

	_, err := execute(t, "drift", "--db", db, "--mode", "sideways")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDriftCommandPreviousModeSkipsWithoutSnapshot(t *testing.T) {
	db := seedCorpus(t)

	// No previous_outputs stored yet; every recipe skips, nothing fails.
	out, err := execute(t, "drift", "--db", db, "--mode", "previous")
	require.NoError(t, err)
	assert.Contains(t, out, "2 skipped")
}

func TestDriftCommandSavePreviousEnablesPreviousMode(t *testing.T) {
	db := seedCorpus(t)

	// First sweep records prior-run snapshots (drift still fails the run).
	_, err := execute(t, "drift", "--db", db, "--save-previous")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	// Engine is unchanged, so the previous-mode sweep is clean.
	out, err := execute(t, "drift", "--db", db, "--mode", "previous")
	require.NoError(t, err)
	assert.Contains(t, out, "2 passed")
	assert.Contains(t, out, "no numeric drift")
}

func TestRecipeAddListPromoteFlow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "corpus.db")
	payloadPath := writeFile(t, "payload.json", validPayload)

	out, err := execute(t, "recipe", "add", payloadPath, "--db", db, "--name", "first")
	require.NoError(t, err)
	id := firstLine(t, out)

	out, err = execute(t, "recipe", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "first")

	_, err = execute(t, "recipe", "promote", id, "--db", db)
	require.NoError(t, err)

	out, err = execute(t, "recipe", "list", "--db", db, "--fixtures")
	require.NoError(t, err)
	assert.Contains(t, out, id)
}

func firstLine(t *testing.T, out string) string {
	t.Helper()
	line, _, _ := strings.Cut(out, "\n")
	require.NotEmpty(t, line)
	return line
}
