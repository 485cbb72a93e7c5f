package preview

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpstack/mcpstack-tool/internal/engine"
	"github.com/mcpstack/mcpstack-tool/internal/names"
)

func weatherPlan(entries []engine.FileEntry) *engine.Plan {
	set := names.Derive(names.Set{Slug: "weather-tool", ClassName: "WeatherTool", EnvPrefix: "WEATHER"})
	return engine.Build("/tmpl", entries, set)
}

func sampleEntries() []engine.FileEntry {
	return []engine.FileEntry{
		{Path: "src", Dir: true},
		{Path: "src/mcpstack___SLUG__", Dir: true},
		{Path: "src/mcpstack___SLUG__/tool.py", Mode: 0o644, Content: []byte("import os\n\nclass __CLASS_NAME__:\n    pass\n")},
		{Path: "assets/logo.png", Mode: 0o644, Content: []byte("\x00\x01")},
	}
}

func TestRender_ShowsRenamesAndDiff(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, weatherPlan(sampleEntries()), Options{}))
	out := buf.String()

	assert.Contains(t, out, "__CLASS_NAME__     -> WeatherTool")
	assert.Contains(t, out, "src/mcpstack___SLUG__/ -> src/mcpstack_weather-tool/")
	assert.Contains(t, out, "src/mcpstack___SLUG__/tool.py -> src/mcpstack_weather-tool/tool.py")
	assert.Contains(t, out, "--- a/src/mcpstack___SLUG__/tool.py")
	assert.Contains(t, out, "+++ b/src/mcpstack_weather-tool/tool.py")
	assert.Contains(t, out, "-class __CLASS_NAME__:")
	assert.Contains(t, out, "+class WeatherTool:")
	assert.Contains(t, out, "Binary files")
	assert.Contains(t, out, "assets/logo.png")
	assert.Contains(t, out, "1 entry to change (1 renamed, 1 rewritten), 1 binary skipped, 0 collisions")
	assert.NotContains(t, out, "\x1b[", "colour must be off by default")
}

func TestRender_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, Render(&a, weatherPlan(sampleEntries()), Options{}))
	require.NoError(t, Render(&b, weatherPlan(sampleEntries()), Options{}))
	assert.Equal(t, a.String(), b.String())
}

func TestRender_NoDiff(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, weatherPlan(sampleEntries()), Options{NoDiff: true}))
	out := buf.String()
	assert.Contains(t, out, "Renames")
	assert.NotContains(t, out, "+++ b/")
}

func TestRender_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, weatherPlan(sampleEntries()), Options{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestRender_EmptyPlan(t *testing.T) {
	var buf bytes.Buffer
	entries := []engine.FileEntry{{Path: "README.md", Content: []byte("# weather\n")}}
	require.NoError(t, Render(&buf, weatherPlan(entries), Options{}))
	assert.Contains(t, buf.String(), "nothing to change")
}

func TestRender_Collisions(t *testing.T) {
	entries := []engine.FileEntry{
		{Path: "docs/__SLUG__.md", Content: []byte("a")},
		{Path: "docs/weather-tool.md", Content: []byte("b")},
	}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, weatherPlan(entries), Options{}))
	out := buf.String()
	assert.Contains(t, out, "! docs/weather-tool.md <- docs/__SLUG__.md")
	assert.Contains(t, out, "0 entries to change")
	assert.Contains(t, out, "1 collision")
}

func TestSummarize(t *testing.T) {
	s := Summarize(weatherPlan(sampleEntries()))
	assert.Equal(t, Summary{Files: 1, Renames: 1, Rewrites: 1, Binary: 1}, s)
}
