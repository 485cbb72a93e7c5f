// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/mcpstack/mcpstack-tool/internal/config"
	"github.com/mcpstack/mcpstack-tool/internal/doctor"
)

// doctorCmd runs the template health checks.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the template for common problems",
	Long: `Run health checks on the template: package directory, pyproject entry
point, leftover placeholders, saved names, apply state and git status.
Exits 4 when any check fails; warnings do not change the exit code.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	root, err := resolveRoot(rootDir)
	if err != nil {
		return err
	}
	global, err := config.LoadGlobal()
	if err != nil {
		return exitError(ExitInvalidArgs, "mcpstack-tool: cannot load config (%v)", err)
	}

	report := doctor.Run(root, doctor.Options{Exclude: global.Exclude})
	if err := doctor.Render(cmd.OutOrStdout(), report); err != nil {
		return exitError(ExitInvalidArgs, "mcpstack-tool: render report (%v)", err)
	}
	if !report.Passed() {
		return exitError(ExitCheckFailed, "")
	}
	return nil
}
