// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpstack/mcpstack-tool/internal/state"
)

func TestValidate_FreshTemplateFails(t *testing.T) {
	dir := newTemplate(t)

	out, _, err := execute(t, "validate", "-C", dir)
	ece := requireExitCode(t, err, ExitCheckFailed)
	assert.Contains(t, ece.Error(), "unresolved placeholder")
	assert.Contains(t, out, "pyproject.toml:6:9: __DIST_NAME__")
	assert.Contains(t, out, "src/__PACKAGE_NAME__: path contains __PACKAGE_NAME__")

	w, err := state.LoadWorkflow(dir)
	require.NoError(t, err)
	assert.Equal(t, state.PhaseUninitialized, w.Phase)
}

func TestValidate_PassesAfterApply(t *testing.T) {
	dir := newTemplate(t)
	_, _, err := execute(t, "apply", "-C", dir, "-s", "weather-tool", "-c", "WeatherTool", "-y")
	require.NoError(t, err)

	out, _, err := execute(t, "validate", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "no placeholders remain")

	w, err := state.LoadWorkflow(dir)
	require.NoError(t, err)
	assert.Equal(t, state.PhaseValidated, w.Phase)
}

func TestValidate_ExcludeFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "docs/notes.md", "see __SLUG__\n")
	writeFile(t, dir, "README.md", "done\n")
	writeFile(t, dir, ".mcpstack-tool.yaml", "exclude:\n  - docs\n")

	out, _, err := execute(t, "validate", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "no placeholders remain (1 files scanned")
}
