// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package state

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpstack/mcpstack-tool/internal/engine"
	"github.com/mcpstack/mcpstack-tool/internal/names"
	"github.com/mcpstack/mcpstack-tool/internal/testable"
)

func weatherSet() names.Set {
	return names.Derive(names.Set{Slug: "weather-tool", ClassName: "WeatherTool", EnvPrefix: "WEATHER"})
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

// readTree returns the regular files under root, skipping the state directory.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == engine.StateDirName {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(p) //nolint:gosec // test path
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func withMockFS(t *testing.T, mock *testable.MockFileSystem) {
	t.Helper()
	orig := FS
	FS = mock
	t.Cleanup(func() { FS = orig })
}

func withGitOpener(t *testing.T, g testable.GitOpener) {
	t.Helper()
	orig := GitOpener
	GitOpener = g
	t.Cleanup(func() { GitOpener = orig })
}

var templateFiles = map[string]string{
	"pyproject.toml":                 "name = \"__DIST_NAME__\"\n",
	"src/mcpstack___SLUG__/tool.py":  "class __CLASS_NAME__:\n    pass\n",
	"src/mcpstack___SLUG__/plain.py": "x = 1\n",
	"README.md":                      "nothing to see\n",
}

// applyTemplate writes the template, applies weatherSet and saves state.
func applyTemplate(t *testing.T, root string) *ApplyState {
	t.Helper()
	writeTree(t, root, templateFiles)
	id := NewID()
	_, res, err := engine.Apply(root, weatherSet(), engine.Options{}, engine.CommitOptions{SnapshotDir: SnapshotDir(root, id)})
	require.NoError(t, err)
	require.NoError(t, res.Err())
	s := Build(root, id, weatherSet(), res)
	require.NoError(t, Save(root, s))
	return s
}

func TestLoad_Absent(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, s)

	ok, err := Has(t.TempDir())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	withGitOpener(t, &testable.MockGitOpener{})
	root := t.TempDir()
	s := applyTemplate(t, root)

	got, err := Load(root)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, "weather-tool", got.Names.Slug)
	assert.True(t, got.Complete)
	assert.Empty(t, got.GitHead)
	assert.Len(t, got.Entries, 3)
	require.Len(t, got.Dirs, 1)
	assert.Equal(t, "src/mcpstack_weather-tool", got.Dirs[0].NewPath)
}

func TestLoad_RejectsOtherMajorVersion(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".mcpstack/state.json": `{"version":"v2.0.0","id":"x"}`,
	})
	_, err := Load(root)
	assert.ErrorIs(t, err, ErrIncompatibleState)
}

func TestLoad_Corrupt(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{".mcpstack/state.json": "{not json"})
	_, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse apply state")
}

func TestLoad_ReadError(t *testing.T) {
	withMockFS(t, &testable.MockFileSystem{
		ReadFileFn: func(string) ([]byte, error) { return nil, fs.ErrPermission },
	})
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestBuild_CapturesGitHead(t *testing.T) {
	hash := plumbing.NewHash("0123456789abcdef0123456789abcdef01234567")
	withGitOpener(t, &testable.MockGitOpener{
		Repo: &testable.MockGitRepository{HeadRef: plumbing.NewHashReference("refs/heads/main", hash)},
	})
	s := Build("/tmpl", NewID(), weatherSet(), &engine.Result{})
	assert.Equal(t, hash.String(), s.GitHead)
	assert.Equal(t, schemaVersion, s.Version)
}

func TestBuild_PartialResultIsIncomplete(t *testing.T) {
	withGitOpener(t, &testable.MockGitOpener{})
	res := &engine.Result{
		Applied: []engine.ChangeRecord{{OldPath: "a", NewPath: "a", OldContent: []byte("x"), NewContent: []byte("y")}},
		Failed:  []engine.ChangeRecord{{OldPath: "b", NewPath: "b", Err: errors.New("boom")}},
	}
	s := Build("/tmpl", NewID(), weatherSet(), res)
	assert.False(t, s.Complete)
	require.Len(t, s.Entries, 1)
	assert.True(t, s.Entries[0].ContentChanged)
}

func TestSave_ReplacesPreviousSnapshots(t *testing.T) {
	withGitOpener(t, &testable.MockGitOpener{})
	root := t.TempDir()
	first := applyTemplate(t, root)
	require.DirExists(t, SnapshotDir(root, first.ID))

	second := &ApplyState{Version: schemaVersion, ID: NewID(), Names: weatherSet()}
	require.NoError(t, Save(root, second))
	assert.NoDirExists(t, SnapshotDir(root, first.ID))
}

func TestReset_NoPriorState(t *testing.T) {
	root := t.TempDir()
	_, err := Reset(root, ResetSoft)
	assert.ErrorIs(t, err, ErrNoPriorState)
	_, err = Reset(root, ResetHard)
	assert.ErrorIs(t, err, ErrNoPriorState)
}

func TestReset_SoftStagesOriginals(t *testing.T) {
	withGitOpener(t, &testable.MockGitOpener{})
	root := t.TempDir()
	applyTemplate(t, root)
	applied := readTree(t, root)

	res, err := Reset(root, ResetSoft)
	require.NoError(t, err)
	require.NoError(t, res.Err())
	assert.Equal(t, RestoreDir(root), res.Target)
	assert.Len(t, res.Restored, 3)

	assert.Equal(t, applied, readTree(t, root), "soft reset must not touch the tree")
	staged := readTree(t, RestoreDir(root))
	assert.Equal(t, "class __CLASS_NAME__:\n    pass\n", staged["src/mcpstack___SLUG__/tool.py"])
	assert.Equal(t, "name = \"__DIST_NAME__\"\n", staged["pyproject.toml"])

	ok, err := Has(root)
	require.NoError(t, err)
	assert.True(t, ok, "soft reset keeps the apply state")
}

func TestReset_HardRestoresTemplate(t *testing.T) {
	withGitOpener(t, &testable.MockGitOpener{})
	root := t.TempDir()
	s := applyTemplate(t, root)
	_, err := Advance(root, PhaseApplied)
	require.NoError(t, err)

	res, err := Reset(root, ResetHard)
	require.NoError(t, err)
	require.NoError(t, res.Err())

	assert.Equal(t, templateFiles, readTree(t, root))
	assert.NoDirExists(t, filepath.Join(root, "src", "mcpstack_weather-tool"))
	assert.NoDirExists(t, SnapshotDir(root, s.ID))

	ok, err := Has(root)
	require.NoError(t, err)
	assert.False(t, ok)

	w, err := LoadWorkflow(root)
	require.NoError(t, err)
	assert.Equal(t, PhaseUninitialized, w.Phase)
}

func TestReset_HardRestoresDirectoryModes(t *testing.T) {
	withGitOpener(t, &testable.MockGitOpener{})
	root := t.TempDir()
	writeTree(t, root, templateFiles)
	require.NoError(t, os.Chmod(filepath.Join(root, "src", "mcpstack___SLUG__"), 0o700))

	id := NewID()
	_, res, err := engine.Apply(root, weatherSet(), engine.Options{}, engine.CommitOptions{SnapshotDir: SnapshotDir(root, id)})
	require.NoError(t, err)
	require.NoError(t, res.Err())
	s := Build(root, id, weatherSet(), res)
	require.Len(t, s.Dirs, 1)
	assert.Equal(t, fs.FileMode(0o700), s.Dirs[0].Mode)
	require.NoError(t, Save(root, s))

	reset, err := Reset(root, ResetHard)
	require.NoError(t, err)
	require.NoError(t, reset.Err())

	info, err := os.Stat(filepath.Join(root, "src", "mcpstack___SLUG__"))
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o700), info.Mode().Perm())
}

func TestReset_HardKeepsStateOnFailure(t *testing.T) {
	withGitOpener(t, &testable.MockGitOpener{})
	root := t.TempDir()
	applyTemplate(t, root)

	withMockFS(t, &testable.MockFileSystem{
		ReadFileFn: func(name string) ([]byte, error) {
			if strings.HasSuffix(filepath.ToSlash(name), "tool.py") {
				return nil, fs.ErrPermission
			}
			return os.ReadFile(name) //nolint:gosec // test path
		},
	})

	res, err := Reset(root, ResetHard)
	require.NoError(t, err)
	require.Error(t, res.Err())
	assert.ErrorIs(t, res.Err(), engine.ErrIOFailure)

	ok, err := Has(root)
	require.NoError(t, err)
	assert.True(t, ok, "state survives a failed hard reset")
}

func TestResetMode_String(t *testing.T) {
	assert.Equal(t, "soft", ResetSoft.String())
	assert.Equal(t, "hard", ResetHard.String())
}

func TestClear_MissingIsFine(t *testing.T) {
	assert.NoError(t, Clear(t.TempDir(), nil))
}
