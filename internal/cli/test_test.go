package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harnessScenarios are the scenario fixtures of the harness package.
var harnessScenarios = filepath.Join("..", "harness", "testdata", "scenarios")

func TestTestCommandRunsHarnessScenarios(t *testing.T) {
	out, _, err := execute(t, "test", harnessScenarios)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ namespaced_training")
	assert.Contains(t, out, "✓ spaceflights_data_science")
	assert.Contains(t, out, "4 passed, 0 failed, 4 total")
}

func TestTestCommandFilterJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "test", harnessScenarios, "--filter", "overflow_*")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, "overflow_and_late", resp.Data.Scenarios[0].Name)
}

const failingScenario = `
name: failing
description: "asserts a completed state that never comes"
pipelines:
  __default__:
    - {name: n, inputs: [], outputs: []}
events:
  - {event: node_started, node: n}
assertions:
  - {type: final_state, state: completed}
`

func TestTestCommandFailure(t *testing.T) {
	root := t.TempDir()
	scenarios := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(scenarios, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scenarios, "failing.yaml"), []byte(failingScenario), 0o644))

	out, _, err := execute(t, "test", scenarios)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, "Assertion failed: final_state")
}

func TestTestCommandUpdateThenCompare(t *testing.T) {
	root := t.TempDir()
	scenarios := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(scenarios, 0o755))
	passing := `
name: passing
description: "one node"
pipelines:
  __default__:
    - {name: n, inputs: [], outputs: []}
events:
  - {event: node_started, node: n}
  - {event: node_finished}
  - {event: run_finished}
assertions:
  - {type: final_state, state: completed}
`
	require.NoError(t, os.WriteFile(filepath.Join(scenarios, "passing.yaml"), []byte(passing), 0o644))

	_, _, err := execute(t, "test", scenarios, "--update")
	require.NoError(t, err)

	golden, err := os.ReadFile(filepath.Join(root, "golden", "passing.golden"))
	require.NoError(t, err)
	assert.Equal(t, `scenario: passing
run_id: test-run-1
001 [running] overall 0/1 loads 0/0 saves 0/0
002 [running] overall 0/1 loads 0/0 saves 0/0 | ƒ n()
003 [running] overall 1/1 loads 0/0 saves 0/0 | ƒ n()
004 [completed] overall 1/1 loads 0/0 saves 0/0 | ✓ Pipeline complete
`, string(golden))

	_, _, err = execute(t, "test", scenarios)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "golden", "passing.golden"), []byte("stale\n"), 0o644))
	out, _, err := execute(t, "test", scenarios)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	_, _, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, _, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml", "c.txt", "ab.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(""), 0o644))
	}

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Len(t, files, 3)

	files, err = findScenarioFiles(dir, "a*")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "ab.yaml")}, files)

	_, err = findScenarioFiles(dir, "[")
	require.Error(t, err)
}
