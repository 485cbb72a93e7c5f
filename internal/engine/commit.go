// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/mcpstack/mcpstack-tool/internal/names"
)

// CommitOptions control Commit.
type CommitOptions struct {
	// SnapshotDir, when set, receives a copy of every original file at its
	// template-relative path before the file is touched.
	SnapshotDir string
}

// Result is the outcome of Commit.
type Result struct {
	Applied []ChangeRecord
	Failed  []ChangeRecord
	// Dirs lists the directory renames that were carried out.
	Dirs []DirRename
}

// Errors returns the error of every failed record, in plan order.
func (r *Result) Errors() []error {
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}

// Err joins all per-file errors, or returns nil on full success.
func (r *Result) Err() error {
	return errors.Join(r.Errors()...)
}

// Commit carries out plan on disk. Records that already carry an error are
// not attempted. Every other record is applied independently: a failure on
// one file is recorded and the run moves on to the next. A renamed source
// directory that cannot be removed afterwards is reported as a failed
// record too, unless one of the failures inside it already accounts for it.
func Commit(plan *Plan, opts CommitOptions) *Result {
	res := &Result{}
	perms := make(map[string]fs.FileMode, len(plan.Dirs))
	for _, d := range plan.Dirs {
		perms[d.NewPath] = d.Mode
	}
	for _, rec := range plan.Records {
		if rec.Err == nil {
			rec.Err = commitRecord(plan.Root, rec, perms, opts)
		}
		if rec.Err != nil {
			slog.Debug("substitution failed", "path", rec.OldPath, "error", rec.Err)
			res.Failed = append(res.Failed, rec)
			continue
		}
		slog.Debug("substituted", "path", rec.OldPath, "new_path", rec.NewPath)
		res.Applied = append(res.Applied, rec)
	}

	dirs, kept := pruneDirs(plan.Root, plan.Dirs, res.Failed)
	res.Dirs = dirs
	res.Failed = append(res.Failed, kept...)
	return res
}

// commitRecord applies one record. perms maps substituted directory paths to
// the mode of the directory they replace.
func commitRecord(root string, rec ChangeRecord, perms map[string]fs.FileMode, opts CommitOptions) error {
	oldAbs := filepath.Join(root, filepath.FromSlash(rec.OldPath))
	newAbs := filepath.Join(root, filepath.FromSlash(rec.NewPath))

	if rec.Renamed() {
		if _, err := FS.Stat(newAbs); err == nil {
			return &PathCollisionError{Path: rec.NewPath, Sources: []string{rec.OldPath}}
		}
	}

	if rec.Dir {
		if err := clearCaches(oldAbs); err != nil {
			return &IOError{Op: "remove", Path: rec.OldPath, Err: err}
		}
		if err := FS.MkdirAll(newAbs, DirPerm(rec.Mode)); err != nil {
			return &IOError{Op: "mkdir", Path: rec.NewPath, Err: err}
		}
		if err := FS.Remove(oldAbs); err != nil && !errors.Is(err, fs.ErrNotExist) {
			_ = FS.Remove(newAbs)
			return &IOError{Op: "remove", Path: rec.OldPath, Err: err}
		}
		return nil
	}

	if opts.SnapshotDir != "" {
		snap := filepath.Join(opts.SnapshotDir, filepath.FromSlash(rec.OldPath))
		if err := FS.MkdirAll(filepath.Dir(snap), 0o750); err != nil {
			return &IOError{Op: "snapshot", Path: rec.OldPath, Err: err}
		}
		if err := WriteFileAtomic(snap, rec.OldContent, rec.Mode); err != nil {
			return &IOError{Op: "snapshot", Path: rec.OldPath, Err: err}
		}
	}

	if !rec.Renamed() {
		if err := WriteFileAtomic(oldAbs, rec.NewContent, rec.Mode); err != nil {
			return &IOError{Op: "write", Path: rec.OldPath, Err: err}
		}
		return nil
	}

	if err := FS.MkdirAll(filepath.Dir(newAbs), DirPerm(perms[path.Dir(rec.NewPath)])); err != nil {
		return &IOError{Op: "mkdir", Path: rec.NewPath, Err: err}
	}
	if !rec.ContentChanged() {
		if err := FS.Rename(oldAbs, newAbs); err != nil {
			return &IOError{Op: "rename", Path: rec.OldPath, Err: err}
		}
		return nil
	}
	if err := WriteFileAtomic(newAbs, rec.NewContent, rec.Mode); err != nil {
		return &IOError{Op: "write", Path: rec.NewPath, Err: err}
	}
	if err := FS.Remove(oldAbs); err != nil {
		// Roll back so the old path stays the only copy.
		_ = FS.Remove(newAbs)
		return &IOError{Op: "remove", Path: rec.OldPath, Err: err}
	}
	return nil
}

// pruneDirs removes renamed source directories that substitution emptied,
// deepest first. It returns the renames that completed and a failed record
// for each source directory left behind that no entry in failed explains.
func pruneDirs(root string, dirs []DirRename, failed []ChangeRecord) ([]DirRename, []ChangeRecord) {
	blocked := make([]string, 0, len(failed))
	for _, f := range failed {
		blocked = append(blocked, f.OldPath)
	}

	var done []DirRename
	var kept []ChangeRecord
	for _, d := range dirs {
		oldAbs := filepath.Join(root, filepath.FromSlash(d.OldPath))
		err := clearCaches(oldAbs)
		if err == nil {
			if err = FS.Remove(oldAbs); errors.Is(err, fs.ErrNotExist) {
				err = nil
			}
		}
		if err == nil {
			newAbs := filepath.Join(root, filepath.FromSlash(d.NewPath))
			if d.Mode != 0 {
				if cerr := FS.Chmod(newAbs, d.Mode); cerr != nil && !errors.Is(cerr, fs.ErrNotExist) {
					slog.Debug("could not set directory mode", "path", d.NewPath, "error", cerr)
				}
			}
			done = append(done, d)
			continue
		}
		if within(blocked, d.OldPath) {
			slog.Debug("keeping source directory", "path", d.OldPath, "error", err)
			continue
		}
		blocked = append(blocked, d.OldPath)
		kept = append(kept, ChangeRecord{
			OldPath: d.OldPath,
			NewPath: d.NewPath,
			Dir:     true,
			Mode:    d.Mode,
			Err:     &IOError{Op: "remove", Path: d.OldPath, Err: err},
		})
	}
	return done, kept
}

// clearCaches deletes the regenerable caches inside a renamed source
// directory so it can be removed. Nothing is deleted when the directory
// holds any other entry.
func clearCaches(abs string) error {
	entries, err := FS.ReadDir(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	var others []string
	for _, e := range entries {
		if !isCache(e) {
			others = append(others, e.Name())
		}
	}
	if len(others) > 0 {
		return fmt.Errorf("%w: %s", ErrDirNotEmpty, strings.Join(others, ", "))
	}
	for _, e := range entries {
		if err := FS.RemoveAll(filepath.Join(abs, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// within reports whether p or a path below it is listed in paths.
func within(paths []string, p string) bool {
	for _, b := range paths {
		if b == p || strings.HasPrefix(b, p+"/") {
			return true
		}
	}
	return false
}

// DirPerm returns the permission bits to create a directory with, falling
// back to 0o755 when no mode was recorded.
func DirPerm(m fs.FileMode) fs.FileMode {
	if m == 0 {
		return 0o755
	}
	return m
}

// Apply snapshots root, builds a plan for set and commits it. It is the
// one-call form used by tests and callers that do not need a preview.
func Apply(root string, set names.Set, opts Options, commit CommitOptions) (*Plan, *Result, error) {
	entries, err := Snapshot(root, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot template: %w", err)
	}
	plan := Build(root, entries, set)
	return plan, Commit(plan, commit), nil
}
