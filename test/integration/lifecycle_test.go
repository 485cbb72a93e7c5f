// Package integration contains end-to-end tests for mcpstack-tool.
//
// These tests build the mcpstack-tool binary and drive it through the whole
// bootstrap workflow in a scratch directory, checking files on disk and the
// process exit codes.
package integration

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoRoot returns the mcpstack-tool repository root directory.
func repoRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	// test/integration/lifecycle_test.go -> repo root
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}

// buildBinary compiles mcpstack-tool into a temp directory.
func buildBinary(t *testing.T) string {
	t.Helper()
	binary := filepath.Join(t.TempDir(), "mcpstack-tool-test")
	cmd := exec.Command("go", "build", "-o", binary, "./cmd/mcpstack-tool") //nolint:gosec // test helper
	cmd.Dir = repoRoot(t)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "go build failed:\n%s", out)
	return binary
}

// run executes the binary against dir and returns combined output and the
// exit code.
func run(t *testing.T, binary, dir string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(binary, append([]string{"-C", dir, "--no-color"}, args...)...) //nolint:gosec // test helper
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+t.TempDir())
	out, err := cmd.CombinedOutput()
	if err == nil {
		return string(out), 0
	}
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "run %v: %v", args, err)
	return string(out), exitErr.ExitCode()
}

func TestLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binary := buildBinary(t)
	dir := t.TempDir()

	out, code := run(t, binary, dir, "preview", "-s", "weather-tool", "-c", "WeatherTool")
	assert.Equal(t, 1, code, "an empty directory is not a template:\n%s", out)

	out, code = run(t, binary, dir, "init", "--non-interactive", "-s", "weather-tool")
	require.Equal(t, 0, code, out)

	out, code = run(t, binary, dir, "validate")
	assert.Equal(t, 4, code, out)
	assert.Contains(t, out, "__CLASS_NAME__")

	out, code = run(t, binary, dir, "reset")
	assert.Equal(t, 5, code, out)

	out, code = run(t, binary, dir, "apply", "--yes")
	require.Equal(t, 0, code, out)
	assert.FileExists(t, filepath.Join(dir, "src", "mcpstack_weather_tool", "tool.py"))

	out, code = run(t, binary, dir, "validate")
	assert.Equal(t, 0, code, out)

	out, code = run(t, binary, dir, "doctor")
	assert.Equal(t, 0, code, out)
	assert.Contains(t, out, "doctor passed")

	out, code = run(t, binary, dir, "reset", "--hard", "--yes")
	require.Equal(t, 0, code, out)
	assert.FileExists(t, filepath.Join(dir, "src", "__PACKAGE_NAME__", "tool.py"))

	out, code = run(t, binary, dir, "doctor")
	assert.Equal(t, 4, code, out)
}

func TestErrorMessages(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binary := buildBinary(t)

	out, code := run(t, binary, filepath.Join(t.TempDir(), "missing"), "doctor")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "mcpstack-tool: cannot resolve path")

	dir := t.TempDir()
	out, code = run(t, binary, dir, "init", "--non-interactive", "-s", "Bad Slug")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "invalid names:")
	assert.Contains(t, out, "tool-slug \"Bad Slug\"")
}
