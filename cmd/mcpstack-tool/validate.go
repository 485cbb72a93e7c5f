// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mcpstack/mcpstack-tool/internal/engine"
	"github.com/mcpstack/mcpstack-tool/internal/state"
	"github.com/mcpstack/mcpstack-tool/internal/validate"
)

// validateCmd reports placeholders left in the template.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that no placeholders remain",
	Long: `Scan every path and every text file line in the template for placeholder
tokens. Exits 0 when none remain and 4 otherwise, listing each occurrence
with a hint on how to resolve it.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, _ []string) error {
	root, err := resolveRoot(rootDir)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(root, false)
	if err != nil {
		return err
	}

	res, err := validate.Scan(root, engine.Options{Exclude: cfg.Exclude})
	if err != nil {
		return exitError(ExitInvalidArgs, "mcpstack-tool: cannot read template tree (%v)", err)
	}

	w := cmd.OutOrStdout()
	if res.Passed() {
		_, _ = color.New(color.FgGreen).Fprint(w, "ok")
		_, _ = fmt.Fprintf(w, ": no placeholders remain (%d files scanned, %d binary skipped)\n", res.Files, res.Binary)
		advance(root, state.PhaseValidated)
		return nil
	}

	red := color.New(color.FgRed)
	dim := color.New(color.Faint)
	for _, f := range res.Findings {
		_, _ = fmt.Fprintf(w, "%s%s\n", red.Sprint("  ! "), f)
		if f.Suggestion != "" {
			_, _ = fmt.Fprintf(w, "    %s\n", dim.Sprint(f.Suggestion))
		}
	}
	_, _ = fmt.Fprintln(w)
	return exitError(ExitCheckFailed, "mcpstack-tool: %v", res.Err())
}
