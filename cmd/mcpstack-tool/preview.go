// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mcpstack/mcpstack-tool/internal/preview"
	"github.com/mcpstack/mcpstack-tool/internal/state"
)

// Preview-specific flag values.
var (
	previewNames  nameFlags
	previewNoDiff bool
)

// previewCmd shows what apply would change without writing anything.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the renames and diffs apply would make",
	Long: `Show the placeholder mapping, every path rename and a unified diff for
each file whose content would change. Nothing in the template is written;
the only write is the workflow phase recorded in .mcpstack/workflow.json,
and it is skipped when the phase is already "previewed".

Names come from the flags, then from .mcpstack-tool.yaml.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	previewNames.register(previewCmd.Flags())
	previewCmd.Flags().BoolVar(&previewNoDiff, "no-diff", false, "list renames only, without per-file diffs")
}

func runPreview(cmd *cobra.Command, _ []string) error {
	root, err := resolveRoot(rootDir)
	if err != nil {
		return err
	}
	set, cfg, err := resolveNames(root, &previewNames)
	if err != nil {
		return err
	}
	plan, err := buildPlan(root, set, cfg)
	if err != nil {
		return err
	}

	if err := preview.Render(cmd.OutOrStdout(), plan, preview.Options{
		Color:  !color.NoColor,
		NoDiff: previewNoDiff,
	}); err != nil {
		return exitError(ExitInvalidArgs, "mcpstack-tool: render preview (%v)", err)
	}
	advance(root, state.PhasePreviewed)
	return nil
}
