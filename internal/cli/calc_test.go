package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validPayload = `{
	"conveyor_length_in": 120,
	"belt_width_in": 24,
	"drive_pulley_dia_in": 6,
	"speed_mode": "belt_speed",
	"belt_speed_fpm": 100,
	"load_total_lb": 300,
	"belt_weight_lb": 60,
	"friction_coeff": 0.25
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalcCommandText(t *testing.T) {
	path := writeFile(t, "payload.json", validPayload)

	out, err := execute(t, "calc", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
	assert.Contains(t, out, `"torque_in_lb":405`)
}

func TestCalcCommandJSON(t *testing.T) {
	path := writeFile(t, "payload.json", validPayload)

	out, err := execute(t, "calc", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   CalcOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Success)
	assert.Equal(t, 405.0, resp.Data.Outputs["torque_in_lb"])
}

func TestCalcCommandValidationFailureExitCode(t *testing.T) {
	path := writeFile(t, "payload.json", `{"belt_width_in": 24}`)

	out, err := execute(t, "calc", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "MISSING_FIELD")
}

func TestCalcCommandBadPayloadIsCommandError(t *testing.T) {
	path := writeFile(t, "payload.json", `not json`)

	_, err := execute(t, "calc", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCalcCommandMissingFileIsCommandError(t *testing.T) {
	_, err := execute(t, "calc", filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHashCommandStableAcrossKeyOrder(t *testing.T) {
	a := writeFile(t, "a.json", `{"x": 1, "y": "s"}`)
	b := writeFile(t, "b.json", `{"y": "s", "x": 1.0}`)

	outA, err := execute(t, "hash", a)
	require.NoError(t, err)
	outB, err := execute(t, "hash", b)
	require.NoError(t, err)

	assert.Equal(t, outA, outB)
	assert.Len(t, bytes.TrimSpace([]byte(outA)), 64)
}

func TestHashCommandCanonicalFlag(t *testing.T) {
	path := writeFile(t, "a.json", `{"b": 2, "a": 1}`)

	out, err := execute(t, "hash", path, "--canonical")
	require.NoError(t, err)
	assert.Contains(t, out, `{"a":1,"b":2}`)
}
