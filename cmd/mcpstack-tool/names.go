// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/mcpstack/mcpstack-tool/internal/config"
	"github.com/mcpstack/mcpstack-tool/internal/engine"
	"github.com/mcpstack/mcpstack-tool/internal/names"
	"github.com/mcpstack/mcpstack-tool/internal/state"
)

// nameFlags holds the placeholder values a command accepts on the command
// line. Each command binds its own instance.
type nameFlags struct {
	slug        string
	className   string
	packageName string
	distName    string
	envPrefix   string
	noConfig    bool
}

func (nf *nameFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&nf.slug, "tool-slug", "s", "", "tool slug, e.g. weather-tool")
	fs.StringVarP(&nf.className, "class-name", "c", "", "tool class name, e.g. WeatherTool")
	fs.StringVarP(&nf.packageName, "package-name", "p", "", "Python package name (default mcpstack_<slug>)")
	fs.StringVarP(&nf.distName, "dist-name", "d", "", "distribution name (default mcpstack-<slug>)")
	fs.StringVarP(&nf.envPrefix, "env-prefix", "e", "", "env var prefix (default MCP_<SLUG>)")
	fs.BoolVar(&nf.noConfig, "no-config", false, "ignore the saved "+config.FileName)
}

func (nf *nameFlags) set() names.Set {
	return names.Set{
		Slug:        nf.slug,
		ClassName:   nf.className,
		PackageName: nf.packageName,
		DistName:    nf.distName,
		EnvPrefix:   nf.envPrefix,
	}
}

// loadConfig returns the template config merged with the global one. With
// noConfig only the global exclude patterns are kept.
func loadConfig(root string, noConfig bool) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if noConfig {
		cfg, err = config.LoadGlobal()
		if cfg != nil {
			cfg.Names = names.Set{}
		}
	} else {
		cfg, err = config.LoadMerged(root)
	}
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "mcpstack-tool: cannot load config (%v)", err)
	}
	if err := config.Validate(&config.Config{Exclude: cfg.Exclude}); err != nil {
		return nil, exitError(ExitInvalidArgs, "mcpstack-tool: %v", err)
	}
	return cfg, nil
}

// resolveNames merges the name flags over the saved config and validates
// the result.
func resolveNames(root string, nf *nameFlags) (names.Set, *config.Config, error) {
	cfg, err := loadConfig(root, nf.noConfig)
	if err != nil {
		return names.Set{}, nil, err
	}
	set := config.Merge(cfg, nf.set())
	if set.Slug == "" {
		return names.Set{}, nil, exitError(ExitInvalidArgs,
			"mcpstack-tool: no tool slug (pass --tool-slug or run mcpstack-tool init)")
	}
	if err := set.Validate(); err != nil {
		return names.Set{}, nil, exitError(ExitInvalidArgs, "mcpstack-tool: %s", describeNamesError(err))
	}
	slog.Debug("resolved names", "slug", set.Slug, "class", set.ClassName, "package", set.PackageName)
	return set, cfg, nil
}

// describeNamesError lists every problem of a malformed set on its own line.
func describeNamesError(err error) string {
	var me *names.MalformedError
	if !errors.As(err, &me) {
		return err.Error()
	}
	var b strings.Builder
	b.WriteString("invalid names:")
	for _, p := range me.Problems {
		fmt.Fprintf(&b, "\n  %s", p)
	}
	return b.String()
}

// buildPlan snapshots root and computes the substitution plan for set.
func buildPlan(root string, set names.Set, cfg *config.Config) (*engine.Plan, error) {
	entries, err := engine.Snapshot(root, engine.Options{Exclude: cfg.Exclude})
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "mcpstack-tool: cannot read template tree (%v)", err)
	}
	if len(entries) == 0 {
		return nil, exitError(ExitInvalidArgs, "mcpstack-tool: template tree %q is empty", root)
	}
	return engine.Build(root, entries, set), nil
}

// advance records a workflow phase change. A disallowed move is logged and
// otherwise ignored: the phase only tracks progress.
func advance(root string, to state.Phase) {
	from, err := state.Advance(root, to)
	if err != nil {
		slog.Debug("workflow phase unchanged", "from", from, "to", to, "error", err)
		return
	}
	slog.Debug("workflow phase", "from", from, "to", to)
}
