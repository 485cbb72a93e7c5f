// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

// Package doctor runs health checks against a tool template: package layout,
// entry points, leftover placeholders, saved names, apply state and git.
package doctor

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mcpstack/mcpstack-tool/internal/config"
	"github.com/mcpstack/mcpstack-tool/internal/engine"
	"github.com/mcpstack/mcpstack-tool/internal/state"
	"github.com/mcpstack/mcpstack-tool/internal/testable"
	"github.com/mcpstack/mcpstack-tool/internal/validate"
)

// FS is the file system implementation used by this package.
var FS testable.FileSystem = testable.DefaultFS

// GitOpener opens the repository that holds the template, if any.
var GitOpener testable.GitOpener = testable.DefaultGitOpener

// EntryPointGroup is the pyproject entry-point group MCPStack discovers
// tools from.
const EntryPointGroup = "mcpstack.tools"

// packagePrefix is the conventional prefix of a tool's Python package.
const packagePrefix = "mcpstack_"

// Status is the outcome of a single check.
type Status string

// Check statuses. Only StatusFail makes a report fail.
const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Check is one health check result.
type Check struct {
	Name   string
	Status Status
	Detail string
}

// Report holds every check in the order it ran.
type Report struct {
	Checks []Check
}

// Passed returns true if no check failed.
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return false
		}
	}
	return true
}

// Counts returns how many checks ended in each status.
func (r *Report) Counts() map[Status]int {
	m := make(map[Status]int)
	for _, c := range r.Checks {
		m[c.Status]++
	}
	return m
}

// Options control Run.
type Options struct {
	// Exclude holds extra glob patterns skipped by the placeholder scan.
	Exclude []string
}

// Run executes every check against root.
func Run(root string, opts Options) *Report {
	cfg, cfgErr := config.Load(root)

	r := &Report{}
	r.Checks = append(r.Checks,
		checkPackageDir(root, cfg),
		checkEntryPoint(root),
		checkPlaceholders(root, cfg, opts),
		checkNamesConfig(cfg, cfgErr),
		checkApplyState(root),
		checkGit(root),
	)
	for _, c := range r.Checks {
		slog.Debug("doctor check", "name", c.Name, "status", c.Status, "detail", c.Detail)
	}
	return r
}

func checkPackageDir(root string, cfg *config.Config) Check {
	c := Check{Name: "package-dir"}
	entries, err := FS.ReadDir(filepath.Join(root, "src"))
	if err != nil {
		c.Status = StatusFail
		c.Detail = "src/ directory not found"
		return c
	}

	want := ""
	if cfg != nil {
		want = cfg.Names.PackageName
	}
	var found []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), packagePrefix) || (want != "" && e.Name() == want) {
			found = append(found, "src/"+e.Name())
		}
	}
	if len(found) == 0 {
		c.Status = StatusFail
		c.Detail = "no src/" + packagePrefix + "* package directory"
		if want != "" {
			c.Detail += " or src/" + want
		}
		return c
	}
	c.Status = StatusOK
	c.Detail = strings.Join(found, ", ")
	return c
}

// pyproject is the part of pyproject.toml the entry-point check reads.
type pyproject struct {
	Project struct {
		Name        string                       `toml:"name"`
		EntryPoints map[string]map[string]string `toml:"entry-points"`
	} `toml:"project"`
}

func checkEntryPoint(root string) Check {
	c := Check{Name: "entry-point"}
	data, err := FS.ReadFile(filepath.Join(root, "pyproject.toml"))
	if err != nil {
		c.Status = StatusFail
		c.Detail = "pyproject.toml not found"
		return c
	}

	var doc pyproject
	if _, err := toml.Decode(string(data), &doc); err != nil {
		c.Status = StatusFail
		c.Detail = fmt.Sprintf("pyproject.toml: %v", err)
		return c
	}
	group := doc.Project.EntryPoints[EntryPointGroup]
	if len(group) == 0 {
		c.Status = StatusFail
		c.Detail = fmt.Sprintf("no [project.entry-points.%q] entries", EntryPointGroup)
		return c
	}

	keys := make([]string, 0, len(group))
	for k := range group {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " = " + group[k]
	}
	c.Status = StatusOK
	c.Detail = strings.Join(parts, ", ")
	return c
}

func checkPlaceholders(root string, cfg *config.Config, opts Options) Check {
	c := Check{Name: "placeholders"}
	var exclude []string
	if cfg != nil {
		exclude = cfg.Exclude
	}
	res, err := validate.Scan(root, engine.Options{Exclude: config.MergeExclude(exclude, opts.Exclude)})
	if err != nil {
		c.Status = StatusFail
		c.Detail = err.Error()
		return c
	}
	if !res.Passed() {
		c.Status = StatusFail
		c.Detail = fmt.Sprintf("%d remaining (first: %s)", len(res.Findings), res.Findings[0])
		return c
	}
	c.Status = StatusOK
	c.Detail = fmt.Sprintf("none in %d files", res.Files)
	return c
}

func checkNamesConfig(cfg *config.Config, loadErr error) Check {
	c := Check{Name: "names-config", Status: StatusWarn}
	switch {
	case loadErr != nil:
		c.Detail = loadErr.Error()
	case cfg.Names.IsZero():
		c.Detail = config.FileName + " not found; names must be passed as flags"
	default:
		if err := config.Validate(cfg); err != nil {
			c.Detail = strings.ReplaceAll(err.Error(), "\n  ", "; ")
			return c
		}
		c.Status = StatusOK
		c.Detail = fmt.Sprintf("tool_slug=%s class_name=%s", cfg.Names.Slug, cfg.Names.ClassName)
	}
	return c
}

func checkApplyState(root string) Check {
	c := Check{Name: "apply-state", Status: StatusOK}
	phase := state.PhaseUninitialized
	if w, err := state.LoadWorkflow(root); err == nil {
		phase = w.Phase
	}

	s, err := state.Load(root)
	switch {
	case err != nil:
		c.Status = StatusWarn
		c.Detail = err.Error()
	case s == nil:
		c.Detail = fmt.Sprintf("no apply recorded (phase: %s)", phase)
	default:
		c.Detail = fmt.Sprintf("%d entries applied %s (phase: %s)",
			len(s.Entries), s.AppliedAt.Format("2006-01-02 15:04"), phase)
		if !s.Complete {
			c.Status = StatusWarn
			c.Detail += "; last apply was partial"
		}
	}
	return c
}

func checkGit(root string) Check {
	c := Check{Name: "git", Status: StatusOK}
	repo, err := GitOpener.PlainOpen(root)
	if err != nil {
		c.Detail = "not a git repository"
		return c
	}
	st, err := repo.Status()
	if err != nil {
		c.Status = StatusWarn
		c.Detail = fmt.Sprintf("worktree status unavailable: %v", err)
		return c
	}
	if st.IsClean() {
		c.Detail = "worktree clean"
		return c
	}
	c.Status = StatusWarn
	c.Detail = fmt.Sprintf("%d uncommitted %s", len(st), plural(len(st), "change", "changes"))
	return c
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
