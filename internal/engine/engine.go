// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

// Package engine implements placeholder substitution over a template tree.
//
// Substitution happens in two steps. Build computes a Plan from a snapshot
// of the tree and a names.Set without touching the filesystem; Commit then
// carries out the plan, rewriting each file atomically and collecting
// per-file failures instead of stopping at the first one.
package engine

import (
	"bytes"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/mcpstack/mcpstack-tool/internal/names"
	"github.com/mcpstack/mcpstack-tool/internal/testable"
)

// FS is the file system implementation used by this package.
// Override in tests with a testable.MockFileSystem.
var FS testable.FileSystem = testable.DefaultFS

// ChangeRecord describes what substitution does to one template entry.
type ChangeRecord struct {
	OldPath    string
	NewPath    string
	Dir        bool
	Mode       fs.FileMode
	OldContent []byte
	NewContent []byte
	Binary     bool
	Err        error
}

// Renamed reports whether the entry moves to a new path.
func (c ChangeRecord) Renamed() bool { return c.OldPath != c.NewPath }

// ContentChanged reports whether the file content is rewritten.
func (c ChangeRecord) ContentChanged() bool {
	return !c.Dir && !bytes.Equal(c.OldContent, c.NewContent)
}

// DirRename is a directory whose path changes under substitution.
type DirRename struct {
	OldPath string
	NewPath string
	Mode    fs.FileMode
}

// Plan is the dry-run result of substituting a names.Set into a tree.
type Plan struct {
	Root    string
	Set     names.Set
	Records []ChangeRecord
	// Dirs lists every directory whose path changes, deepest first.
	Dirs []DirRename
	// Binary lists files whose content was left alone because it looks binary.
	Binary []string
	// Scanned is the number of files inspected.
	Scanned int
}

// Empty reports whether the plan changes nothing.
func (p *Plan) Empty() bool { return len(p.Records) == 0 }

// Failed returns the records that cannot be committed.
func (p *Plan) Failed() []ChangeRecord {
	var out []ChangeRecord
	for _, r := range p.Records {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Collisions returns one error per colliding target path.
func (p *Plan) Collisions() []*PathCollisionError {
	seen := make(map[string]bool)
	var out []*PathCollisionError
	for _, r := range p.Records {
		pc, ok := r.Err.(*PathCollisionError)
		if !ok || seen[pc.Path] {
			continue
		}
		seen[pc.Path] = true
		out = append(out, pc)
	}
	return out
}

// Build computes the substitution plan for entries under root. It is a pure
// function of the snapshot and the set: nothing on disk is read or written.
func Build(root string, entries []FileEntry, set names.Set) *Plan {
	r := set.Replacer()
	p := &Plan{Root: root, Set: set}

	// Directories that contain at least one entry; only empty directories
	// need a record of their own.
	nonEmpty := make(map[string]bool)
	for _, e := range entries {
		if dir := path.Dir(e.Path); dir != "." {
			nonEmpty[dir] = true
		}
	}

	for _, e := range entries {
		newPath := r.Replace(e.Path)
		if e.Dir {
			if newPath != e.Path {
				p.Dirs = append(p.Dirs, DirRename{OldPath: e.Path, NewPath: newPath, Mode: e.Mode.Perm()})
				if !nonEmpty[e.Path] {
					p.Records = append(p.Records, ChangeRecord{
						OldPath: e.Path, NewPath: newPath, Dir: true, Mode: e.Mode.Perm(),
					})
				}
			}
			continue
		}

		p.Scanned++
		rec := ChangeRecord{
			OldPath:    e.Path,
			NewPath:    newPath,
			Mode:       e.Mode.Perm(),
			OldContent: e.Content,
			NewContent: e.Content,
		}
		if e.Binary() {
			rec.Binary = true
			p.Binary = append(p.Binary, e.Path)
		} else if names.ContainsToken(string(e.Content)) {
			rec.NewContent = []byte(r.Replace(string(e.Content)))
		}
		if rec.Renamed() || rec.ContentChanged() {
			p.Records = append(p.Records, rec)
		}
	}

	markCollisions(p, entries)

	sort.SliceStable(p.Dirs, func(i, j int) bool {
		di, dj := strings.Count(p.Dirs[i].OldPath, "/"), strings.Count(p.Dirs[j].OldPath, "/")
		if di != dj {
			return di > dj
		}
		return p.Dirs[i].OldPath < p.Dirs[j].OldPath
	})
	return p
}

// markCollisions flags records whose target is claimed by more than one
// template path, or by an existing entry that is not itself moving away.
func markCollisions(p *Plan, entries []FileEntry) {
	existing := make(map[string]bool, len(entries))
	for _, e := range entries {
		existing[e.Path] = true
	}
	vacated := make(map[string]bool)
	for _, r := range p.Records {
		if r.Renamed() {
			vacated[r.OldPath] = true
		}
	}
	for _, d := range p.Dirs {
		vacated[d.OldPath] = true
	}

	targets := make(map[string][]int)
	for i, r := range p.Records {
		if r.Renamed() {
			targets[r.NewPath] = append(targets[r.NewPath], i)
		}
	}

	for target, idx := range targets {
		taken := existing[target] && !vacated[target]
		if len(idx) < 2 && !taken {
			continue
		}
		sources := make([]string, 0, len(idx))
		for _, i := range idx {
			sources = append(sources, p.Records[i].OldPath)
		}
		sort.Strings(sources)
		err := &PathCollisionError{Path: target, Sources: sources}
		for _, i := range idx {
			p.Records[i].Err = err
		}
	}
}
