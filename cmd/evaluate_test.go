// -- cmd/evaluate_test.go --
package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/mergegate/api/schemas"
	"github.com/xkilldash9x/mergegate/internal/gate"
)

// writeFile drops fixture content into dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execRoot runs a fresh root command against args and returns the command
// error. A clean instance per execution keeps flag state from leaking
// between tests.
func execRoot(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func fixtureArgs(t *testing.T, semgrep, npmAudit, zapReport string) (args []string, summaryPath string) {
	t.Helper()
	dir := t.TempDir()
	summaryPath = filepath.Join(dir, "summary.json")
	args = []string{
		"evaluate",
		"--sast", writeFile(t, dir, "semgrep.json", semgrep),
		"--sca", writeFile(t, dir, "audit.json", npmAudit),
		"--dast", writeFile(t, dir, "zap.json", zapReport),
		"--summary", summaryPath,
	}
	return args, summaryPath
}

func TestEvaluateCommand_CleanReportsPass(t *testing.T) {
	args, summaryPath := fixtureArgs(t,
		`{"results": []}`,
		`{"vulnerabilities": {}}`,
		`{"site": []}`,
	)

	require.NoError(t, execRoot(t, args...))

	data, err := os.ReadFile(summaryPath)
	require.NoError(t, err)

	var result schemas.GateResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.Passed)
	assert.Empty(t, result.Violations)
}

func TestEvaluateCommand_ViolationsStillEmitSummary(t *testing.T) {
	args, summaryPath := fixtureArgs(t,
		`{"results": [{"check_id": "a", "extra": {"severity": "ERROR"}}]}`,
		`{"vulnerabilities": {}}`,
		`{"site": []}`,
	)

	err := execRoot(t, args...)
	require.Error(t, err)

	// The expected negative outcome carries the full result.
	var failed *gate.FailedError
	require.True(t, errors.As(err, &failed))
	assert.False(t, failed.Result.Passed)

	// The summary is written before the failure is reported; that is the
	// whole point of the gate.
	data, err := os.ReadFile(summaryPath)
	require.NoError(t, err)

	var result schemas.GateResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, 1, result.Totals.Critical)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "critical vulnerabilities: 1 exceeds threshold of 0", result.Violations[0].Reason)
}

func TestEvaluateCommand_RelaxedThresholdFlags(t *testing.T) {
	args, _ := fixtureArgs(t,
		`{"results": [{"check_id": "a", "extra": {"severity": "WARNING"}}]}`,
		`{"vulnerabilities": {}}`,
		`{"site": []}`,
	)
	args = append(args, "--max-high", "1")

	require.NoError(t, execRoot(t, args...))
}

func TestEvaluateCommand_MalformedReportIsNotGateFailure(t *testing.T) {
	args, summaryPath := fixtureArgs(t,
		`{"results": [`,
		`{"vulnerabilities": {}}`,
		`{"site": []}`,
	)

	err := execRoot(t, args...)
	require.Error(t, err)

	var failed *gate.FailedError
	assert.False(t, errors.As(err, &failed), "a parse failure must not masquerade as a verdict")

	// No partial summary may be produced.
	_, statErr := os.Stat(summaryPath)
	assert.True(t, os.IsNotExist(statErr))
}
