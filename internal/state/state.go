// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

// Package state records what the last apply changed so it can be undone.
//
// A successful apply saves an ApplyState to .mcpstack/state.json together
// with a byte-for-byte copy of every file it touched under
// .mcpstack/snapshots/<apply-id>/. Reset reads both back.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"

	"github.com/mcpstack/mcpstack-tool/internal/engine"
	"github.com/mcpstack/mcpstack-tool/internal/names"
	"github.com/mcpstack/mcpstack-tool/internal/testable"
)

// stateFile is the filename for apply state within the state directory.
const stateFile = "state.json"

// snapshotsDir holds per-apply copies of original files.
const snapshotsDir = "snapshots"

// restoreDir is the staging directory written by a soft reset.
const restoreDir = "restore"

// schemaVersion is the current state file schema version. States written
// with a different major version are rejected.
const schemaVersion = "v1.0.0"

// FS is the file system implementation used by this package.
// Override in tests with a testable.MockFileSystem.
var FS testable.FileSystem = testable.DefaultFS

// GitOpener opens the repository that holds the template, if any.
var GitOpener testable.GitOpener = testable.DefaultGitOpener

var (
	// ErrNoPriorState is returned when reset finds nothing to restore.
	ErrNoPriorState = errors.New("no prior apply state")

	// ErrIncompatibleState is returned for a state file from another schema.
	ErrIncompatibleState = errors.New("incompatible apply state")
)

// Entry is one template path changed by an apply.
type Entry struct {
	OldPath        string      `json:"old_path"`
	NewPath        string      `json:"new_path"`
	Dir            bool        `json:"dir,omitempty"`
	Mode           fs.FileMode `json:"mode"`
	ContentChanged bool        `json:"content_changed,omitempty"`
}

// DirRename is a directory moved by an apply.
type DirRename struct {
	OldPath string      `json:"old_path"`
	NewPath string      `json:"new_path"`
	Mode    fs.FileMode `json:"mode,omitempty"`
}

// ApplyState is the persisted record of the last apply.
type ApplyState struct {
	Version   string      `json:"version"`
	ID        string      `json:"id"`
	AppliedAt time.Time   `json:"applied_at"`
	GitHead   string      `json:"git_head,omitempty"`
	Names     names.Set   `json:"names"`
	Entries   []Entry     `json:"entries"`
	Dirs      []DirRename `json:"dirs,omitempty"`
	// Complete is false when some records failed during the apply.
	Complete bool `json:"complete"`
}

// NewID returns a fresh apply ID.
func NewID() string {
	return uuid.NewString()
}

// Dir returns the state directory for a template root.
func Dir(root string) string {
	return filepath.Join(root, engine.StateDirName)
}

// SnapshotDir returns the directory holding original files for apply id.
func SnapshotDir(root, id string) string {
	return filepath.Join(Dir(root), snapshotsDir, id)
}

// RestoreDir returns the staging directory used by a soft reset.
func RestoreDir(root string) string {
	return filepath.Join(Dir(root), restoreDir)
}

func statePath(root string) string {
	return filepath.Join(Dir(root), stateFile)
}

// Build creates an ApplyState for the records that res applied. It captures
// the git HEAD of the repository containing root, when there is one.
func Build(root, id string, set names.Set, res *engine.Result) *ApplyState {
	s := &ApplyState{
		Version:   schemaVersion,
		ID:        id,
		AppliedAt: time.Now().UTC(),
		GitHead:   resolveHead(root),
		Names:     set,
		Complete:  len(res.Failed) == 0,
	}
	for _, r := range res.Applied {
		s.Entries = append(s.Entries, Entry{
			OldPath:        r.OldPath,
			NewPath:        r.NewPath,
			Dir:            r.Dir,
			Mode:           r.Mode,
			ContentChanged: r.ContentChanged(),
		})
	}
	for _, d := range res.Dirs {
		s.Dirs = append(s.Dirs, DirRename{OldPath: d.OldPath, NewPath: d.NewPath, Mode: d.Mode})
	}
	return s
}

// Load reads the apply state for root. If there is none it returns
// (nil, nil).
func Load(root string) (*ApplyState, error) {
	data, err := FS.ReadFile(statePath(root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read apply state: %w", err)
	}

	var s ApplyState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse apply state: %w", err)
	}
	if !semver.IsValid(s.Version) || semver.Major(s.Version) != semver.Major(schemaVersion) {
		return nil, fmt.Errorf("%w: version %q, want %s", ErrIncompatibleState, s.Version, semver.Major(schemaVersion))
	}
	return &s, nil
}

// Has reports whether root has a loadable apply state.
func Has(root string) (bool, error) {
	s, err := Load(root)
	if err != nil {
		return false, err
	}
	return s != nil, nil
}

// Save writes s as the current apply state. A previous state for a
// different apply is replaced and its snapshots are removed.
func Save(root string, s *ApplyState) error {
	prev, err := Load(root)
	if err != nil && !errors.Is(err, ErrIncompatibleState) {
		return err
	}

	if err := FS.MkdirAll(Dir(root), 0o750); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := engine.WriteFileAtomic(statePath(root), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	if prev != nil && prev.ID != s.ID {
		if err := FS.RemoveAll(SnapshotDir(root, prev.ID)); err != nil {
			return fmt.Errorf("remove previous snapshots: %w", err)
		}
	}
	return nil
}

// Clear deletes the apply state and its snapshots.
func Clear(root string, s *ApplyState) error {
	if s != nil && s.ID != "" {
		if err := FS.RemoveAll(SnapshotDir(root, s.ID)); err != nil {
			return fmt.Errorf("remove snapshots: %w", err)
		}
	}
	if err := FS.Remove(statePath(root)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

// resolveHead returns the HEAD commit hash of the repository containing
// root, or "" when root is not inside a repository.
func resolveHead(root string) string {
	repo, err := GitOpener.PlainOpen(root)
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Hash().String()
}
