// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpstack/mcpstack-tool/internal/engine"
	"github.com/mcpstack/mcpstack-tool/internal/names"
	"github.com/mcpstack/mcpstack-tool/internal/testable"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.True(t, cfg.Names.IsZero())
	assert.Nil(t, cfg.Exclude)
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	content := `
names:
  tool_slug: weather-tool
  class_name: WeatherTool
  env_prefix: WEATHER
exclude:
  - docs/*.png
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "weather-tool", cfg.Names.Slug)
	assert.Equal(t, "WeatherTool", cfg.Names.ClassName)
	assert.Equal(t, "WEATHER", cfg.Names.EnvPrefix)
	assert.Empty(t, cfg.Names.PackageName)
	assert.Equal(t, []string{"docs/*.png"}, cfg.Exclude)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{{invalid yaml"), 0o600))

	cfg, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), FileName)
	assert.Nil(t, cfg)
}

func TestLoad_ReadError(t *testing.T) {
	orig := FS
	FS = &testable.MockFileSystem{
		ReadFileFn: func(string) ([]byte, error) { return nil, fs.ErrPermission },
	}
	t.Cleanup(func() { FS = orig })

	cfg, err := Load(t.TempDir())
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Nil(t, cfg)
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := &Config{
		Names:   names.Derive(names.Set{Slug: "weather-tool", ClassName: "WeatherTool"}),
		Exclude: []string{"*.lock"},
	}
	require.NoError(t, Save(dir, want))

	data, err := os.ReadFile(filepath.Join(dir, FileName)) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Contains(t, string(data), "names:\n  tool_slug: weather-tool\n")

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWrite_EmptyConfig(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &Config{}))
	assert.Contains(t, buf.String(), "tool_slug: \"\"")
}

func TestFileName_IgnoredBySubstitution(t *testing.T) {
	assert.Contains(t, engine.DefaultIgnoreFiles, FileName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr []string
	}{
		{name: "empty", cfg: Config{}},
		{
			name: "valid partial names",
			cfg:  Config{Names: names.Set{Slug: "weather-tool", ClassName: "WeatherTool"}},
		},
		{
			name:    "bad slug and class",
			cfg:     Config{Names: names.Set{Slug: "Weather Tool", ClassName: "weather"}},
			wantErr: []string{"names.tool-slug", "names.class-name"},
		},
		{
			name:    "missing class name",
			cfg:     Config{Names: names.Set{Slug: "weather"}},
			wantErr: []string{"names.class-name \"\" must be set"},
		},
		{
			name:    "bad exclude",
			cfg:     Config{Exclude: []string{"[", " "}},
			wantErr: []string{"exclude[0]: invalid pattern", "exclude[1]: must not be empty"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
