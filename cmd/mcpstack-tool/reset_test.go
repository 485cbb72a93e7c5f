// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpstack/mcpstack-tool/internal/state"
)

func applyWeather(t *testing.T, dir string) {
	t.Helper()
	_, _, err := execute(t, "apply", "-C", dir, "-s", "weather-tool", "-c", "WeatherTool", "-y")
	require.NoError(t, err)
}

func TestReset_NoPriorState(t *testing.T) {
	dir := newTemplate(t)
	_, _, err := execute(t, "reset", "-C", dir)
	ece := requireExitCode(t, err, ExitNoState)
	assert.Contains(t, ece.Error(), "nothing to reset")

	_, _, err = execute(t, "reset", "-C", dir, "--hard", "-y")
	requireExitCode(t, err, ExitNoState)
}

func TestReset_SoftWritesStagingCopy(t *testing.T) {
	dir := newTemplate(t)
	applyWeather(t, dir)

	out, _, err := execute(t, "reset", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "into .mcpstack/restore")
	assert.Contains(t, out, "--hard")

	staged := filepath.Join(".mcpstack", "restore", "src", "__PACKAGE_NAME__", "tool.py")
	assert.Contains(t, readFile(t, dir, filepath.ToSlash(staged)), "class __CLASS_NAME__(BaseTool):")
	// The applied tree and its state are untouched.
	assert.FileExists(t, filepath.Join(dir, "src", "mcpstack_weather_tool", "tool.py"))
	s, err := state.Load(dir)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestReset_HardRestoresTemplate(t *testing.T) {
	dir := newTemplate(t)
	before := readFile(t, dir, "src/__PACKAGE_NAME__/tool.py")
	applyWeather(t, dir)

	out, _, err := execute(t, "reset", "-C", dir, "--hard", "-y")
	require.NoError(t, err)
	assert.Contains(t, out, "apply state removed")

	assert.Equal(t, before, readFile(t, dir, "src/__PACKAGE_NAME__/tool.py"))
	assert.Contains(t, readFile(t, dir, "pyproject.toml"), `name = "__DIST_NAME__"`)
	assert.NoDirExists(t, filepath.Join(dir, "src", "mcpstack_weather_tool"))

	s, err := state.Load(dir)
	require.NoError(t, err)
	assert.Nil(t, s)
	w, err := state.LoadWorkflow(dir)
	require.NoError(t, err)
	assert.Equal(t, state.PhaseUninitialized, w.Phase)

	// The template can be applied again with different names.
	_, _, err = execute(t, "apply", "-C", dir, "-s", "stock", "-c", "Stock", "-y")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "src", "mcpstack_stock", "tool.py"))
}

func TestReset_HardDeclined(t *testing.T) {
	dir := newTemplate(t)
	applyWeather(t, dir)

	out, _, err := executeWithInput(t, "n\n", "reset", "-C", dir, "--hard")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted")
	assert.FileExists(t, filepath.Join(dir, "src", "mcpstack_weather_tool", "tool.py"))
}

func TestReset_IncompatibleState(t *testing.T) {
	dir := newTemplate(t)
	writeFile(t, dir, ".mcpstack/state.json", `{"version":"v9.0.0","id":"x"}`)

	_, _, err := execute(t, "reset", "-C", dir)
	requireExitCode(t, err, ExitInvalidArgs)
}
