// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package config

import "github.com/mcpstack/mcpstack-tool/internal/names"

// Merge combines file-based names with names given on the command line.
// CLI values take precedence; empty CLI fields fall through to the file.
// Fields still empty afterwards are derived from the slug.
func Merge(fileCfg *Config, cli names.Set) names.Set {
	if fileCfg == nil {
		return names.Derive(cli)
	}
	merged := cli.Merge(fileCfg.Names)

	// A slug given on the command line invalidates file values that were
	// derived from a different slug.
	if cli.Slug != "" && fileCfg.Names.Slug != "" && cli.Slug != fileCfg.Names.Slug {
		derivedFromFile := names.Derive(names.Set{Slug: fileCfg.Names.Slug})
		if cli.PackageName == "" && merged.PackageName == derivedFromFile.PackageName {
			merged.PackageName = ""
		}
		if cli.DistName == "" && merged.DistName == derivedFromFile.DistName {
			merged.DistName = ""
		}
		if cli.EnvPrefix == "" && merged.EnvPrefix == derivedFromFile.EnvPrefix {
			merged.EnvPrefix = ""
		}
		if cli.ClassName == "" && merged.ClassName == names.DefaultClassName(fileCfg.Names.Slug) {
			merged.ClassName = names.DefaultClassName(cli.Slug)
		}
	}
	return names.Derive(merged)
}

// MergeExclude returns the union of the exclude lists, in order, without
// duplicates.
func MergeExclude(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range lists {
		for _, p := range l {
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
