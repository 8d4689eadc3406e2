package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clivetmushipe088/grade-book-app/internal/interface/cli/script"
)

const sampleScript = `
[[step]]
op = "add_student"
email = "alice@example.com"
names = "Alice"

[[step]]
op = "add_course"
name = "Math"
credits = 3
max_score = 100

[[step]]
op = "register"
email = "alice@example.com"
course = "Math"
grade = 72.5

[[step]]
op = "register"
email = "ghost@example.com"
course = "Math"
grade = 90

[[step]]
op = "ranking"
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_NAME", "APP_ENV", "APP_VERSION",
		"GRADEBOOK_GPA_POLICY", "GRADEBOOK_STRICT", "GRADEBOOK_NO_COLOR", "NO_COLOR",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRun_ContinuesOnFailure(t *testing.T) {
	clearEnv(t)
	path := writeTemp(t, "term.toml", sampleScript)

	out, _, err := execute(t, "run", path, "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Student alice@example.com registered for course Math.")
	assert.Contains(t, out, "✗ Error: student.Find: student not found")
	assert.Contains(t, out, "  1. Alice  GPA: 2.00")
	assert.Contains(t, out, "⚠ 1 of 5 steps failed")
}

func TestRun_Strict(t *testing.T) {
	clearEnv(t)
	path := writeTemp(t, "term.toml", sampleScript)

	out, _, err := execute(t, "run", path, "--strict", "--no-color")
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, ExitStepFailed, exitErr.Code)
	assert.ErrorIs(t, err, script.ErrStepFailed)
	assert.Equal(t, "step failed: step 4 (register): student.Find: student not found", err.Error())
	assert.NotContains(t, out, "Student Rankings:")
}

func TestRun_StrictFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRADEBOOK_STRICT", "true")
	path := writeTemp(t, "term.toml", sampleScript)

	_, _, err := execute(t, "run", path, "--no-color")
	assert.ErrorIs(t, err, script.ErrStepFailed)
}

func TestRun_PolicyFlag(t *testing.T) {
	clearEnv(t)
	path := writeTemp(t, "term.toml", sampleScript)

	out, _, err := execute(t, "run", path, "--policy", "raw_average", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "  1. Alice  GPA: 72.50")
}

func TestRun_LogsToErrOut(t *testing.T) {
	clearEnv(t)
	path := writeTemp(t, "term.toml", sampleScript)

	_, errOut, err := execute(t, "run", path, "--log-level", "info", "--no-color")
	require.NoError(t, err)

	assert.Contains(t, errOut, `"message":"script started"`)
	assert.Contains(t, errOut, `"message":"step failed"`)
	assert.Contains(t, errOut, `"run_id"`)
}

func TestRun_InvalidScript(t *testing.T) {
	clearEnv(t)
	path := writeTemp(t, "bad.toml", "[[step]]\nop = \"expel\"\n")

	_, _, err := execute(t, "run", path)
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, ExitInvalidFile, exitErr.Code)
	assert.ErrorIs(t, err, script.ErrInvalidScript)
}

func TestRun_RequiresOneArg(t *testing.T) {
	clearEnv(t)
	_, _, err := execute(t, "run")
	require.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	clearEnv(t)
	cfgPath := writeTemp(t, "gradebook.toml", "[gradebook]\npolicy = \"raw_average\"\n\n[output]\nno_color = true\n")

	out, _, err := execute(t, "policies", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "  percentage\n* raw_average\n", out)
}

func TestInvalidPolicy(t *testing.T) {
	clearEnv(t)
	_, _, err := execute(t, "policies", "--policy", "median")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GRADEBOOK_GPA_POLICY")
}

func TestVersion(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_VERSION", "1.2.3")

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "grade-book 1.2.3\n", out)
}

func TestRun_DebugLogsEvents(t *testing.T) {
	clearEnv(t)
	path := writeTemp(t, "term.toml", sampleScript)

	_, errOut, err := execute(t, "run", path, "--log-level", "debug", "--no-color")
	require.NoError(t, err)

	assert.Contains(t, errOut, `"event_type":"student.added"`)
	assert.Contains(t, errOut, `"event_type":"student.grade_recorded"`)
	assert.Contains(t, errOut, `"published":3`)
	assert.Contains(t, errOut, `"handler_successes":3`)
}
