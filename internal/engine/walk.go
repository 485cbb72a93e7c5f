// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
)

// DefaultIgnoreDirs are directory names never descended into.
var DefaultIgnoreDirs = []string{
	".git",
	".venv",
	"__pycache__",
	".mypy_cache",
	".pytest_cache",
	".ruff_cache",
	"node_modules",
	StateDirName,
}

// cacheDirs are ignored directories that tooling regenerates on demand.
// They may be deleted when a renamed directory is pruned.
var cacheDirs = []string{"__pycache__", ".mypy_cache", ".pytest_cache", ".ruff_cache"}

// DefaultIgnoreSuffixes are file suffixes never read. Files matching them
// are caches as well.
var DefaultIgnoreSuffixes = []string{".pyc", ".pyo", ".DS_Store"}

// DefaultIgnoreFiles are file names never read. The saved names config
// holds substituted values, not tokens.
var DefaultIgnoreFiles = []string{".mcpstack-tool.yaml"}

// StateDirName holds apply state and snapshots; it is never part of the tree.
const StateDirName = ".mcpstack"

// sniffLen is how much of a file is inspected for NUL bytes, matching git.
const sniffLen = 8000

// FileEntry is one path in the template tree. Paths are root-relative and
// slash separated.
type FileEntry struct {
	Path    string
	Dir     bool
	Mode    fs.FileMode
	Content []byte
}

// Binary reports whether the entry's content looks binary.
func (e FileEntry) Binary() bool {
	return !e.Dir && IsBinary(e.Content)
}

// Options control which entries are part of the tree.
type Options struct {
	// Exclude holds glob patterns matched against the relative path and the
	// base name of every entry.
	Exclude []string
}

// IsBinary reports whether data contains a NUL byte within the sniff window.
func IsBinary(data []byte) bool {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// Snapshot walks root and returns every directory and regular file that is
// not ignored, in lexical order. Symlinks are skipped.
func Snapshot(root string, opts Options) ([]FileEntry, error) {
	info, err := FS.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateMissing, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrTemplateMissing, root)
	}

	var entries []FileEntry
	err = FS.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return &IOError{Op: "walk", Path: p, Err: walkErr}
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if ignoredDir(d.Name()) || excluded(rel, opts.Exclude) {
				return fs.SkipDir
			}
			fi, err := d.Info()
			if err != nil {
				return &IOError{Op: "stat", Path: rel, Err: err}
			}
			entries = append(entries, FileEntry{Path: rel, Dir: true, Mode: fs.ModeDir | fi.Mode().Perm()})
			return nil
		}
		if !d.Type().IsRegular() {
			slog.Debug("skipping non-regular file", "path", rel)
			return nil
		}
		if ignoredFile(d.Name()) || excluded(rel, opts.Exclude) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return &IOError{Op: "stat", Path: rel, Err: err}
		}
		data, err := FS.ReadFile(p)
		if err != nil {
			return &IOError{Op: "read", Path: rel, Err: err}
		}
		entries = append(entries, FileEntry{Path: rel, Mode: fi.Mode().Perm(), Content: data})
		return nil
	})
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			return nil, err
		}
		return nil, &IOError{Op: "walk", Path: root, Err: err}
	}
	return entries, nil
}

func ignoredDir(name string) bool {
	for _, d := range DefaultIgnoreDirs {
		if name == d {
			return true
		}
	}
	return false
}

// isCache reports whether a directory entry is a regenerable cache.
func isCache(d fs.DirEntry) bool {
	if d.IsDir() {
		for _, c := range cacheDirs {
			if d.Name() == c {
				return true
			}
		}
		return false
	}
	for _, suf := range DefaultIgnoreSuffixes {
		if strings.HasSuffix(d.Name(), suf) {
			return true
		}
	}
	return false
}

func ignoredFile(name string) bool {
	for _, f := range DefaultIgnoreFiles {
		if name == f {
			return true
		}
	}
	for _, s := range DefaultIgnoreSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func excluded(rel string, patterns []string) bool {
	base := path.Base(rel)
	for _, pat := range patterns {
		if ok, err := path.Match(pat, rel); err == nil && ok {
			return true
		}
		if ok, err := path.Match(pat, base); err == nil && ok {
			return true
		}
	}
	return false
}
