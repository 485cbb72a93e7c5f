// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package state

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mcpstack/mcpstack-tool/internal/engine"
)

// ResetMode selects where a reset writes the original files.
type ResetMode int

const (
	// ResetSoft writes the original files into the staging directory and
	// leaves the template tree untouched.
	ResetSoft ResetMode = iota
	// ResetHard overwrites the template tree in place and drops the state.
	ResetHard
)

func (m ResetMode) String() string {
	if m == ResetHard {
		return "hard"
	}
	return "soft"
}

// ResetResult is the outcome of Reset.
type ResetResult struct {
	Mode ResetMode
	// Target is the directory the originals were written to.
	Target   string
	Restored []string
	Removed  []string
	Errors   []error
}

// Err joins the per-path errors, or returns nil.
func (r *ResetResult) Err() error {
	return errors.Join(r.Errors...)
}

// Reset restores the files recorded by the last apply. It returns
// ErrNoPriorState when root has never been applied.
func Reset(root string, mode ResetMode) (*ResetResult, error) {
	s, err := Load(root)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNoPriorState
	}

	if mode == ResetHard {
		res := resetHard(root, s)
		if len(res.Errors) > 0 {
			return res, nil
		}
		if err := Clear(root, s); err != nil {
			return res, err
		}
		if _, err := Advance(root, PhaseUninitialized); err != nil {
			slog.Debug("workflow not advanced", "error", err)
		}
		return res, nil
	}
	return resetSoft(root, s)
}

func resetSoft(root string, s *ApplyState) (*ResetResult, error) {
	target := RestoreDir(root)
	res := &ResetResult{Mode: ResetSoft, Target: target}
	if err := FS.RemoveAll(target); err != nil {
		return nil, fmt.Errorf("clear staging directory: %w", err)
	}
	if err := FS.MkdirAll(target, 0o750); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	res.Errors = append(res.Errors, recreateDirs(target, s.Dirs)...)
	for _, e := range s.Entries {
		dst := filepath.Join(target, filepath.FromSlash(e.OldPath))
		if err := restoreEntry(root, s.ID, e, dst); err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		res.Restored = append(res.Restored, e.OldPath)
	}
	return res, nil
}

func resetHard(root string, s *ApplyState) *ResetResult {
	res := &ResetResult{Mode: ResetHard, Target: root}
	res.Errors = append(res.Errors, recreateDirs(root, s.Dirs)...)

	for i := len(s.Entries) - 1; i >= 0; i-- {
		e := s.Entries[i]
		oldAbs := filepath.Join(root, filepath.FromSlash(e.OldPath))
		if err := restoreEntry(root, s.ID, e, oldAbs); err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		res.Restored = append(res.Restored, e.OldPath)

		if e.OldPath == e.NewPath {
			continue
		}
		newAbs := filepath.Join(root, filepath.FromSlash(e.NewPath))
		if err := FS.Remove(newAbs); err != nil && !errors.Is(err, fs.ErrNotExist) {
			res.Errors = append(res.Errors, &engine.IOError{Op: "remove", Path: e.NewPath, Err: err})
			continue
		}
		res.Removed = append(res.Removed, e.NewPath)
	}

	pruneEmpty(root, s.Dirs)
	return res
}

// recreateDirs creates the original directories of dirs under base with
// their recorded modes. dirs is stored deepest first, so it is walked in
// reverse to create each parent with its own mode.
func recreateDirs(base string, dirs []DirRename) []error {
	var errs []error
	for i := len(dirs) - 1; i >= 0; i-- {
		d := dirs[i]
		if err := FS.MkdirAll(filepath.Join(base, filepath.FromSlash(d.OldPath)), engine.DirPerm(d.Mode)); err != nil {
			errs = append(errs, &engine.IOError{Op: "mkdir", Path: d.OldPath, Err: err})
		}
	}
	return errs
}

// restoreEntry writes the original of e to dst.
func restoreEntry(root, id string, e Entry, dst string) error {
	if e.Dir {
		if err := FS.MkdirAll(dst, engine.DirPerm(e.Mode)); err != nil {
			return &engine.IOError{Op: "mkdir", Path: e.OldPath, Err: err}
		}
		return nil
	}
	data, err := FS.ReadFile(filepath.Join(SnapshotDir(root, id), filepath.FromSlash(e.OldPath)))
	if err != nil {
		return &engine.IOError{Op: "read snapshot", Path: e.OldPath, Err: err}
	}
	if err := FS.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return &engine.IOError{Op: "mkdir", Path: e.OldPath, Err: err}
	}
	if err := engine.WriteFileAtomic(dst, data, e.Mode); err != nil {
		return &engine.IOError{Op: "restore", Path: e.OldPath, Err: err}
	}
	return nil
}

// pruneEmpty removes the substituted directories that a hard reset left
// empty, deepest first.
func pruneEmpty(root string, dirs []DirRename) {
	paths := make([]string, 0, len(dirs))
	for _, d := range dirs {
		paths = append(paths, d.NewPath)
	}
	sort.SliceStable(paths, func(i, j int) bool {
		return strings.Count(paths[i], "/") > strings.Count(paths[j], "/")
	})
	for _, p := range paths {
		abs := filepath.Join(root, filepath.FromSlash(p))
		entries, err := FS.ReadDir(abs)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := FS.Remove(abs); err != nil {
			slog.Debug("could not remove directory", "path", p, "error", err)
		}
	}
}
